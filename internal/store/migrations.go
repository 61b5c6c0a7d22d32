package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all schedcheck tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL DEFAULT 'periodic',
		wcet        REAL NOT NULL,
		deadline    REAL NOT NULL,
		period      REAL NOT NULL,
		utilization REAL NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasksets (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		is_schedulable     INTEGER,
		sufficient         INTEGER,
		system_utilization REAL NOT NULL,
		size               INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS taskset_members (
		taskset_id INTEGER NOT NULL,
		task_id    TEXT NOT NULL,
		FOREIGN KEY (taskset_id) REFERENCES tasksets(id),
		FOREIGN KEY (task_id) REFERENCES tasks(id)
	)`,

	`CREATE TABLE IF NOT EXISTS metadata (
		id   INTEGER PRIMARY KEY,
		data TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_taskset_members_taskset_id ON taskset_members(taskset_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasksets_system_utilization ON tasksets(system_utilization)`,
	`CREATE INDEX IF NOT EXISTS idx_tasksets_verdicts ON tasksets(is_schedulable, sufficient)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
