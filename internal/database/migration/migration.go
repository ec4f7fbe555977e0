package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"userfeed/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

const sentinelQuery = "SELECT to_regclass('public.fetch_runs') IS NOT NULL"

var steps = []migrationStep{
	{
		Name: "create_table_fetch_runs",
		SQL: `CREATE TABLE IF NOT EXISTS fetch_runs (
  id           UUID        PRIMARY KEY,
  started_at   TIMESTAMPTZ NOT NULL,
  duration_ms  BIGINT      NOT NULL CHECK (duration_ms >= 0),
  outcome      TEXT        NOT NULL,
  status_code  INTEGER     NOT NULL DEFAULT 0,
  user_count   INTEGER     NOT NULL DEFAULT 0 CHECK (user_count >= 0),
  snapshot_key TEXT        NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_index_fetch_runs_started_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_fetch_runs_started_at ON fetch_runs (started_at DESC);`,
	},
	{
		Name: "create_index_fetch_runs_outcome",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_fetch_runs_outcome ON fetch_runs (outcome);`,
	},
}

// EnsureMigrated creates the fetch history schema unless the fetch_runs table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	log = log.With("database")
	start := time.Now()

	log.Info("db_migration_check", logging.Fields{"status": "starting", "db_host": dbHost})

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error("db_migration_failed", logging.Fields{
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", logging.Fields{
			"status":      "success",
			"reason":      "schema already exists",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed", logging.Fields{
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step", logging.Fields{
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Info("db_migration_success", logging.Fields{
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
