package model

import "time"

// Form represents a medical procedure record with an optional image attachment.
// This is a pure domain model with no database-specific dependencies or tags.
// When Image is non-nil it holds the object store key of the attachment
// (<owner_uuid>/<form_id>-<original_filename>); read paths replace it with a
// short-lived signed URL before the form leaves the service layer.
type Form struct {
	ID            int64     `json:"id"`
	UserUUID      string    `json:"user_uuid"`
	ProcedureType string    `json:"procedure_type"`
	Diagnosis     *string   `json:"diagnosis"`
	Image         *string   `json:"image"`
	CreatedAt     time.Time `json:"created_at"`
}
