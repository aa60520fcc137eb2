package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_forms",
		SQL: `CREATE TABLE IF NOT EXISTS forms (
  id             BIGSERIAL   PRIMARY KEY,
  user_uuid      TEXT        NOT NULL,
  procedure_type TEXT        NOT NULL,
  diagnosis      TEXT,
  image          TEXT,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_forms_user_uuid",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_forms_user_uuid ON forms (user_uuid);`,
	},
	{
		Name: "create_index_forms_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_forms_created_at ON forms (created_at);`,
	},
	{
		Name: "create_table_forms_logs",
		SQL: `CREATE TABLE IF NOT EXISTS forms_logs (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  form_id        BIGINT      NOT NULL,
  operation_type TEXT        NOT NULL CHECK (operation_type IN ('INSERT', 'UPDATE', 'DELETE')),
  performed_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  performed_by   TEXT        NOT NULL,
  details        JSONB       NOT NULL DEFAULT '{}'::jsonb
);`,
	},
	{
		Name: "create_index_forms_logs_form_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_forms_logs_form_id ON forms_logs (form_id);`,
	},
	{
		Name: "create_index_forms_logs_performed_by",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_forms_logs_performed_by ON forms_logs (performed_by);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY,
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// Audit rows are produced here, not in the service layer. The API only
		// reads and deletes forms_logs.
		Name: "create_function_log_form_change",
		SQL: `CREATE OR REPLACE FUNCTION log_form_change() RETURNS trigger AS $$
BEGIN
  IF TG_OP = 'DELETE' THEN
    INSERT INTO forms_logs (form_id, operation_type, performed_by, details)
    VALUES (OLD.id, TG_OP, OLD.user_uuid, to_jsonb(OLD));
    RETURN OLD;
  END IF;
  INSERT INTO forms_logs (form_id, operation_type, performed_by, details)
  VALUES (NEW.id, TG_OP, NEW.user_uuid, to_jsonb(NEW));
  RETURN NEW;
END;
$$ LANGUAGE plpgsql;`,
	},
	{
		Name: "create_trigger_forms_audit",
		SQL: `DO $$
BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'forms_audit') THEN
    CREATE TRIGGER forms_audit
    AFTER INSERT OR UPDATE OR DELETE ON forms
    FOR EACH ROW EXECUTE FUNCTION log_form_change();
  END IF;
END;
$$;`,
	},
}

// EnsureMigrated checks if the 'forms' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.forms') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
