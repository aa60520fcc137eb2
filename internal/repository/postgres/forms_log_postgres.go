package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"formsapi/internal/model"
	"formsapi/internal/repository"
)

// FormsLogPostgres is a PostgreSQL implementation of repository.FormsLogRepository.
type FormsLogPostgres struct {
	db *sql.DB
}

// NewFormsLogPostgres creates a new FormsLogPostgres repository.
func NewFormsLogPostgres(db *sql.DB) *FormsLogPostgres {
	return &FormsLogPostgres{db: db}
}

var _ repository.FormsLogRepository = (*FormsLogPostgres)(nil)

const formsLogColumns = `id, form_id, operation_type, performed_at, performed_by, details`

func scanFormsLog(row interface{ Scan(dest ...any) error }) (*model.FormsLog, error) {
	var (
		l       model.FormsLog
		details []byte
	)
	if err := row.Scan(
		&l.ID,
		&l.FormID,
		&l.OperationType,
		&l.PerformedAt,
		&l.PerformedBy,
		&details,
	); err != nil {
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &l.Details); err != nil {
			return nil, err
		}
	}
	return &l, nil
}

func (r *FormsLogPostgres) queryLogs(ctx context.Context, q string, args ...any) ([]model.FormsLog, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FormsLog, 0)
	for rows.Next() {
		l, err := scanFormsLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns all audit entries, newest first.
func (r *FormsLogPostgres) List(ctx context.Context) ([]model.FormsLog, error) {
	const q = `SELECT ` + formsLogColumns + ` FROM forms_logs ORDER BY performed_at DESC`
	return r.queryLogs(ctx, q)
}

// FindByID fetches a single audit entry by its ID.
func (r *FormsLogPostgres) FindByID(ctx context.Context, id string) (*model.FormsLog, error) {
	const q = `SELECT ` + formsLogColumns + ` FROM forms_logs WHERE id = $1`
	return scanFormsLog(r.db.QueryRowContext(ctx, q, id))
}

// ListByPerformer returns the entries recorded for one performer.
func (r *FormsLogPostgres) ListByPerformer(ctx context.Context, performerID string) ([]model.FormsLog, error) {
	const q = `SELECT ` + formsLogColumns + ` FROM forms_logs WHERE performed_by = $1 ORDER BY performed_at DESC`
	return r.queryLogs(ctx, q, performerID)
}

// ListByForm returns the entries referencing one form.
func (r *FormsLogPostgres) ListByForm(ctx context.Context, formID int64) ([]model.FormsLog, error) {
	const q = `SELECT ` + formsLogColumns + ` FROM forms_logs WHERE form_id = $1 ORDER BY performed_at DESC`
	return r.queryLogs(ctx, q, formID)
}

// Delete removes an audit entry by ID.
func (r *FormsLogPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM forms_logs WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
