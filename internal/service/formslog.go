package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"formsapi/internal/model"
	"formsapi/internal/repository"
)

// FormsLogService exposes the forms_logs audit trail. Pure delegation: no
// orchestration, no cross-entity invariants. Entries are produced by a
// database trigger, so there is no create path here.
type FormsLogService interface {
	FindAll(ctx context.Context) ([]model.FormsLog, error)
	FindOne(ctx context.Context, id string) (*model.FormsLog, error)
	FindUserLogs(ctx context.Context, performerID string) ([]model.FormsLog, error)
	FindFormLogs(ctx context.Context, formID int64) ([]model.FormsLog, error)
	Remove(ctx context.Context, id string) error
}

type formsLogService struct {
	repo repository.FormsLogRepository
}

// NewFormsLogService constructs a new FormsLogService.
func NewFormsLogService(repo repository.FormsLogRepository) FormsLogService {
	return &formsLogService{repo: repo}
}

func (s *formsLogService) FindAll(ctx context.Context) ([]model.FormsLog, error) {
	logs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch forms logs: %w", err)
	}
	return logs, nil
}

// FindOne distinguishes a missing row from other query failures.
func (s *formsLogService) FindOne(ctx context.Context, id string) (*model.FormsLog, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: forms log %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("fetch forms log: %w", err)
	}
	return l, nil
}

func (s *formsLogService) FindUserLogs(ctx context.Context, performerID string) ([]model.FormsLog, error) {
	if performerID == "" {
		return nil, ErrIDRequired
	}
	logs, err := s.repo.ListByPerformer(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("fetch user logs: %w", err)
	}
	return logs, nil
}

func (s *formsLogService) FindFormLogs(ctx context.Context, formID int64) ([]model.FormsLog, error) {
	logs, err := s.repo.ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("fetch form logs: %w", err)
	}
	return logs, nil
}

func (s *formsLogService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("could not delete forms log %s: %w", id, err)
	}
	return nil
}
