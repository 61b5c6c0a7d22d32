package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/me/schedcheck/internal/logging"
	"github.com/me/schedcheck/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// WAL for concurrent readers while a batch run writes verdicts.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logging.WithComponent(logger, "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// InsertTask stores a task, ignoring duplicates by ID.
func (s *SQLiteStore) InsertTask(ctx context.Context, task model.Task) error {
	s.logger.Debug("sql", "op", "insert", "table", "tasks", "id", task.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tasks (id, kind, wcet, deadline, period, utilization)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID, string(task.Kind), task.WCET, task.Deadline, task.Period, task.Utilization(),
	)
	return err
}

// InsertTaskSet stores a task set with its cached verdicts, inserting any
// member tasks not seen before, and returns the new set's ID. The whole
// insert runs in one transaction.
func (s *SQLiteStore) InsertTaskSet(ctx context.Context, ts model.TaskSet, schedulable, sufficient *bool, systemUtilization float64) (int64, error) {
	s.logger.Debug("sql", "op", "insert", "table", "tasksets", "size", len(ts))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tasksets (is_schedulable, sufficient, system_utilization, size)
		 VALUES (?, ?, ?, ?)`,
		boolPtrToNull(schedulable), boolPtrToNull(sufficient), systemUtilization, len(ts),
	)
	if err != nil {
		return 0, fmt.Errorf("insert taskset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("taskset id: %w", err)
	}

	for _, task := range ts {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO tasks (id, kind, wcet, deadline, period, utilization)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			task.ID, string(task.Kind), task.WCET, task.Deadline, task.Period, task.Utilization(),
		); err != nil {
			return 0, fmt.Errorf("insert member task %s: %w", task.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO taskset_members (taskset_id, task_id) VALUES (?, ?)`,
			id, task.ID,
		); err != nil {
			return 0, fmt.Errorf("insert member link %s: %w", task.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// GetTaskSet loads one task set with its member tasks.
// Returns nil, nil when the ID does not exist.
func (s *SQLiteStore) GetTaskSet(ctx context.Context, id int64) (*TaskSetRecord, error) {
	s.logger.Debug("sql", "op", "select", "table", "tasksets", "id", id)

	rec := &TaskSetRecord{ID: id}
	var schedulable, sufficient sql.NullBool

	err := s.db.QueryRowContext(ctx,
		`SELECT is_schedulable, sufficient, system_utilization, size
		 FROM tasksets WHERE id = ?`, id,
	).Scan(&schedulable, &sufficient, &rec.SystemUtilization, &rec.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Schedulable = nullToBoolPtr(schedulable)
	rec.Sufficient = nullToBoolPtr(sufficient)

	rec.Tasks, err = s.tasksForSet(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListTaskSets loads all task sets matching the filter, members included.
func (s *SQLiteStore) ListTaskSets(ctx context.Context, filter TaskSetFilter) ([]*TaskSetRecord, error) {
	s.logger.Debug("sql", "op", "select", "table", "tasksets")

	query := `SELECT id, is_schedulable, sufficient, system_utilization, size FROM tasksets WHERE 1 = 1`
	var args []any
	if filter.Schedulable != nil {
		query += ` AND is_schedulable = ?`
		args = append(args, *filter.Schedulable)
	}
	if filter.Sufficient != nil {
		query += ` AND sufficient = ?`
		args = append(args, *filter.Sufficient)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*TaskSetRecord
	for rows.Next() {
		rec := &TaskSetRecord{}
		var schedulable, sufficient sql.NullBool
		if err := rows.Scan(&rec.ID, &schedulable, &sufficient, &rec.SystemUtilization, &rec.Size); err != nil {
			return nil, err
		}
		rec.Schedulable = nullToBoolPtr(schedulable)
		rec.Sufficient = nullToBoolPtr(sufficient)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.Tasks, err = s.tasksForSet(ctx, rec.ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// UpdateSufficient records a fresh sufficient-test verdict for a stored set.
func (s *SQLiteStore) UpdateSufficient(ctx context.Context, id int64, sufficient bool) error {
	s.logger.Debug("sql", "op", "update", "table", "tasksets", "id", id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE tasksets SET sufficient = ? WHERE id = ?`, sufficient, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NewNotFound("task set", id)
	}
	return nil
}

// CountInUtilizationRange counts stored task sets whose system utilization
// lies in [lo, hi], optionally restricted by cached verdicts.
func (s *SQLiteStore) CountInUtilizationRange(ctx context.Context, lo, hi float64, filter TaskSetFilter) (int, error) {
	s.logger.Debug("sql", "op", "count", "table", "tasksets", "lo", lo, "hi", hi)

	query := `SELECT COUNT(*) FROM tasksets WHERE system_utilization BETWEEN ? AND ?`
	args := []any{lo, hi}
	if filter.Schedulable != nil {
		query += ` AND is_schedulable = ?`
		args = append(args, *filter.Schedulable)
	}
	if filter.Sufficient != nil {
		query += ` AND sufficient = ?`
		args = append(args, *filter.Sufficient)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SaveMetadata upserts the experiment parameters as row 1.
func (s *SQLiteStore) SaveMetadata(ctx context.Context, md Metadata) error {
	s.logger.Debug("sql", "op", "upsert", "table", "metadata")

	data, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO metadata (id, data) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		string(data),
	)
	return err
}

// GetMetadata loads the experiment parameters.
// Returns nil, nil when none were saved.
func (s *SQLiteStore) GetMetadata(ctx context.Context) (*Metadata, error) {
	s.logger.Debug("sql", "op", "select", "table", "metadata")

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM metadata WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var md Metadata
	if err := json.Unmarshal([]byte(data), &md); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &md, nil
}

// Clear deletes all tasks, task sets, and member links. Metadata is kept.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.logger.Debug("sql", "op", "clear")

	for _, table := range []string{"taskset_members", "tasksets", "tasks"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLiteStore) tasksForSet(ctx context.Context, id int64) (model.TaskSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tasks.id, tasks.kind, tasks.wcet, tasks.deadline, tasks.period
		 FROM taskset_members
		 JOIN tasks ON taskset_members.task_id = tasks.id
		 WHERE taskset_members.taskset_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ts model.TaskSet
	for rows.Next() {
		var task model.Task
		var kind string
		if err := rows.Scan(&task.ID, &kind, &task.WCET, &task.Deadline, &task.Period); err != nil {
			return nil, err
		}
		task.Kind = model.TaskKind(kind)
		ts = append(ts, task)
	}
	return ts, rows.Err()
}

func boolPtrToNull(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nullToBoolPtr(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	b := nb.Bool
	return &b
}
