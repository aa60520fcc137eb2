package postgres

import (
	"context"
	"database/sql"

	"formsapi/internal/model"
	"formsapi/internal/repository"
)

// FormPostgres is a PostgreSQL implementation of repository.FormRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FormPostgres struct {
	db *sql.DB
}

// NewFormPostgres creates a new FormPostgres repository.
func NewFormPostgres(db *sql.DB) *FormPostgres {
	return &FormPostgres{db: db}
}

var _ repository.FormRepository = (*FormPostgres)(nil)

const formColumns = `id, user_uuid, procedure_type, diagnosis, image, created_at`

func scanForm(row interface{ Scan(dest ...any) error }) (*model.Form, error) {
	var f model.Form
	if err := row.Scan(
		&f.ID,
		&f.UserUUID,
		&f.ProcedureType,
		&f.Diagnosis,
		&f.Image,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new form row and returns the stored record. The id and
// created_at come back from the database.
func (r *FormPostgres) Create(ctx context.Context, f *model.Form) (*model.Form, error) {
	const q = `
		INSERT INTO forms (user_uuid, procedure_type, diagnosis)
		VALUES ($1, $2, $3)
		RETURNING ` + formColumns
	row := r.db.QueryRowContext(ctx, q, f.UserUUID, f.ProcedureType, f.Diagnosis)
	return scanForm(row)
}

// FindByID fetches a single form by its ID.
func (r *FormPostgres) FindByID(ctx context.Context, id int64) (*model.Form, error) {
	const q = `SELECT ` + formColumns + ` FROM forms WHERE id = $1`
	return scanForm(r.db.QueryRowContext(ctx, q, id))
}

// List returns all forms, newest first.
func (r *FormPostgres) List(ctx context.Context) ([]model.Form, error) {
	const q = `SELECT ` + formColumns + ` FROM forms ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Form, 0)
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetImage writes the attachment reference of an existing row.
func (r *FormPostgres) SetImage(ctx context.Context, id int64, key string) (*model.Form, error) {
	const q = `UPDATE forms SET image = $2 WHERE id = $1 RETURNING ` + formColumns
	return scanForm(r.db.QueryRowContext(ctx, q, id, key))
}

// Update applies patch fields and the resolved image reference in one statement.
func (r *FormPostgres) Update(ctx context.Context, id int64, p repository.FormPatch) (*model.Form, error) {
	const q = `
		UPDATE forms
		SET procedure_type = COALESCE($2, procedure_type),
		    diagnosis = COALESCE($3, diagnosis),
		    image = $4
		WHERE id = $1
		RETURNING ` + formColumns
	row := r.db.QueryRowContext(ctx, q, id, p.ProcedureType, p.Diagnosis, p.Image)
	return scanForm(row)
}

// Delete removes a form by ID.
func (r *FormPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM forms WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
