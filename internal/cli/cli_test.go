package cli

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/me/schedcheck/internal/store"
	"github.com/me/schedcheck/pkg/model"

	_ "modernc.org/sqlite"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func openTestStore(t *testing.T, dbPath string) *store.SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestGenAnalyzeStats_EndToEnd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "exp.db")

	err := run(t, "gen", "--db", dbPath, "--log-level", "error",
		"--count", "20", "--tasks", "4", "--utilization", "0.8",
		"--period-min", "4", "--period-max", "12", "--seed", "3")
	if err != nil {
		t.Fatalf("gen: %v", err)
	}

	err = run(t, "analyze", "--db", dbPath, "--log-level", "error",
		"--speeds", "1.0,1.0,1.0,1.0")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	st := openTestStore(t, dbPath)
	ctx := context.Background()

	records, err := st.ListTaskSets(ctx, store.TaskSetFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 20 {
		t.Fatalf("got %d sets, want 20", len(records))
	}
	for _, rec := range records {
		if rec.Sufficient == nil {
			t.Errorf("set %d: no verdict recorded", rec.ID)
		}
		if len(rec.Tasks) != 4 {
			t.Errorf("set %d: %d tasks, want 4", rec.ID, len(rec.Tasks))
		}
	}

	md, err := st.GetMetadata(ctx)
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if md == nil || md.NumTask != 4 || md.PeriodBound != [2]int64{4, 12} {
		t.Errorf("metadata = %+v", md)
	}

	if err := run(t, "stats", "--db", dbPath, "--log-level", "error"); err != nil {
		t.Errorf("stats: %v", err)
	}
}

func TestAnalyze_SkipsUndecidableSetsAndContinues(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "exp.db")
	st := openTestStore(t, dbPath)
	ctx := context.Background()

	// A set the test cannot decide: density 1 puts it outside the
	// analytical domain on two unit cores.
	saturated := model.TaskSet{model.NewPeriodicTask(4, 4, 4)}
	badID, err := st.InsertTaskSet(ctx, saturated, nil, nil, saturated.TotalUtilization())
	if err != nil {
		t.Fatalf("insert saturated: %v", err)
	}

	light := model.TaskSet{
		model.NewPeriodicTask(1, 4, 4),
		model.NewPeriodicTask(1, 4, 4),
	}
	lightID, err := st.InsertTaskSet(ctx, light, nil, nil, light.TotalUtilization())
	if err != nil {
		t.Fatalf("insert light: %v", err)
	}

	err = run(t, "analyze", "--db", dbPath, "--log-level", "error", "--speeds", "1.0,1.0")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	badRec, err := st.GetTaskSet(ctx, badID)
	if err != nil {
		t.Fatalf("get saturated: %v", err)
	}
	if badRec.Sufficient != nil {
		t.Errorf("undecidable set got a verdict: %v", *badRec.Sufficient)
	}

	lightRec, err := st.GetTaskSet(ctx, lightID)
	if err != nil {
		t.Fatalf("get light: %v", err)
	}
	if lightRec.Sufficient == nil || !*lightRec.Sufficient {
		t.Errorf("light set after the failure: verdict = %v, want true", lightRec.Sufficient)
	}
}

func TestScanPrinter_NoCarriageReturnsOffTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.out")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	p := newScanPrinter(f)
	for i := int64(1); i <= 100; i++ {
		p.Step(i, 100)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if bytes.Contains(data, []byte("\r")) {
		t.Errorf("redirected progress output contains carriage returns: %q", data)
	}
	lines := bytes.Count(data, []byte("\n"))
	if lines == 0 || lines > 10 {
		t.Errorf("got %d milestone lines, want between 1 and 10", lines)
	}
	if !bytes.Contains(data, []byte("100%")) {
		t.Errorf("final milestone missing from output: %q", data)
	}
}

func TestStats_ContinuesWhenMetadataUnreadable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "exp.db")
	st := openTestStore(t, dbPath)
	if _, err := st.InsertTaskSet(context.Background(), model.TaskSet{model.NewPeriodicTask(1, 4, 4)}, nil, nil, 0.25); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Corrupt the metadata row so GetMetadata fails to decode it.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`INSERT INTO metadata (id, data) VALUES (1, 'not json')`); err != nil {
		t.Fatalf("corrupt metadata: %v", err)
	}

	if err := run(t, "stats", "--db", dbPath, "--log-level", "error"); err != nil {
		t.Errorf("stats must warn and continue on unreadable metadata, got: %v", err)
	}
}

func TestShow_MissingSet(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "exp.db")
	openTestStore(t, dbPath)

	err := run(t, "show", "--db", dbPath, "--log-level", "error", "42")
	if model.CodeOf(err) != model.ErrNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
