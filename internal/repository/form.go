package repository

import (
	"context"

	"formsapi/internal/model"
)

// FormPatch carries the fields applied by an update. Nil fields keep the
// stored value; Image is always the resolved reference (unchanged when the
// request carried no file).
type FormPatch struct {
	ProcedureType *string
	Diagnosis     *string
	Image         *string
}

// FormRepository defines data access for forms using SQL queries only.
// No business logic here — strictly persistence operations.
type FormRepository interface {
	// Create inserts a new form row with no attachment reference and returns
	// the stored record including the DB-assigned id and created_at.
	Create(ctx context.Context, f *model.Form) (*model.Form, error)

	// FindByID returns a form by its ID.
	FindByID(ctx context.Context, id int64) (*model.Form, error)

	// List returns all forms ordered by creation time, newest first.
	List(ctx context.Context) ([]model.Form, error)

	// SetImage writes the attachment reference of an existing row.
	SetImage(ctx context.Context, id int64, key string) (*model.Form, error)

	// Update applies the patch in a single row update and returns the result.
	Update(ctx context.Context, id int64, p FormPatch) (*model.Form, error)

	// Delete removes a form by ID.
	Delete(ctx context.Context, id int64) error
}
