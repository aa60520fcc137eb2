package repository

import (
	"context"

	"formsapi/internal/model"
)

// FormsLogRepository defines read/delete access to the forms_logs audit trail.
// Rows are inserted by a database trigger, so there is no Create here.
type FormsLogRepository interface {
	// List returns all audit entries.
	List(ctx context.Context) ([]model.FormsLog, error)

	// FindByID returns a single audit entry by its ID.
	FindByID(ctx context.Context, id string) (*model.FormsLog, error)

	// ListByPerformer returns the entries recorded for one performer.
	ListByPerformer(ctx context.Context, performerID string) ([]model.FormsLog, error)

	// ListByForm returns the entries referencing one form.
	ListByForm(ctx context.Context, formID int64) ([]model.FormsLog, error)

	// Delete removes an audit entry by ID.
	Delete(ctx context.Context, id string) error
}
