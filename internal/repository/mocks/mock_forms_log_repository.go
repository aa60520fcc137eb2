package mocks

import (
	"context"

	"formsapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockFormsLogRepository struct {
	mock.Mock
}

func (m *MockFormsLogRepository) List(ctx context.Context) ([]model.FormsLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FormsLog), args.Error(1)
}

func (m *MockFormsLogRepository) FindByID(ctx context.Context, id string) (*model.FormsLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FormsLog), args.Error(1)
}

func (m *MockFormsLogRepository) ListByPerformer(ctx context.Context, performerID string) ([]model.FormsLog, error) {
	args := m.Called(ctx, performerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FormsLog), args.Error(1)
}

func (m *MockFormsLogRepository) ListByForm(ctx context.Context, formID int64) ([]model.FormsLog, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FormsLog), args.Error(1)
}

func (m *MockFormsLogRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
