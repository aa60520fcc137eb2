package model

import "time"

// Operation types recorded in forms_logs. The set is closed; the database
// enforces it with a CHECK constraint.
const (
	OperationInsert = "INSERT"
	OperationUpdate = "UPDATE"
	OperationDelete = "DELETE"
)

// FormsLog is an immutable audit entry for a forms row. Entries are written by
// a database trigger, never by this service; the API only reads and deletes them.
type FormsLog struct {
	ID            string         `json:"id"`
	FormID        int64          `json:"form_id"`
	OperationType string         `json:"operation_type"`
	PerformedAt   time.Time      `json:"performed_at"`
	PerformedBy   string         `json:"performed_by"`
	Details       map[string]any `json:"details"`
}
