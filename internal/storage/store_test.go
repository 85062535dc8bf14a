package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"MarketDashboard/internal/model"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// exercise runs the shared contract every backend must satisfy.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "stock-watchlist"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
	}

	if err := s.Save(ctx, "stock-watchlist", []byte(`["AAPL","MSFT"]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "forex-watchlist", []byte(`[{"from":"EUR","to":"USD"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "stock-watchlist", []byte(`["AAPL"]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := s.Load(ctx, "stock-watchlist")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `["AAPL"]` {
		t.Errorf("expected latest snapshot, got %s", got)
	}
	got, err = s.Load(ctx, "forex-watchlist")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `[{"from":"EUR","to":"USD"}]` {
		t.Errorf("expected independent key, got %s", got)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "watchlists.json")
	s := NewFileStore(path)
	exercise(t, s)

	// A second instance sees the same data.
	got, err := NewFileStore(path).Load(context.Background(), "stock-watchlist")
	if err != nil || string(got) != `["AAPL"]` {
		t.Errorf("expected reload from disk, got %s, %v", got, err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlists.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)

	_, err := s.Load(context.Background(), "stock-watchlist")
	if !model.IsKind(err, model.KindPersistence) {
		t.Fatalf("expected persistence fault, got %v", err)
	}
	if err := s.Save(context.Background(), "stock-watchlist", []byte(`["IBM"]`)); err != nil {
		t.Fatalf("expected save to replace corrupt document, got %v", err)
	}
	got, err := s.Load(context.Background(), "stock-watchlist")
	if err != nil || string(got) != `["IBM"]` {
		t.Errorf("expected recovered snapshot, got %s, %v", got, err)
	}
}

func TestFileStore_ReadFailureDoesNotReplaceDocument(t *testing.T) {
	// A directory at the document path makes every read fail with an I/O error.
	path := filepath.Join(t.TempDir(), "watchlists.json")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)

	err := s.Save(context.Background(), "forex-watchlist", []byte(`[]`))
	if !model.IsKind(err, model.KindPersistence) {
		t.Fatalf("expected persistence fault, got %v", err)
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		t.Errorf("expected the unreadable path to be left alone, got %v, %v", info, err)
	}
}

func TestFileStore_RejectsInvalidJSON(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "w.json"))
	if err := s.Save(context.Background(), "k", []byte("nope")); !model.IsKind(err, model.KindPersistence) {
		t.Errorf("expected persistence fault, got %v", err)
	}
}

func TestSQLStore_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "dashboard.db")
	s, err := NewSQLStore(DriverSQLite, dsn, quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	exercise(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLStore(DriverSQLite, dsn, quietLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Load(context.Background(), "stock-watchlist")
	if err != nil || string(got) != `["AAPL"]` {
		t.Errorf("expected persisted snapshot, got %s, %v", got, err)
	}
}

func TestSQLStore_RequiresDSN(t *testing.T) {
	if _, err := NewSQLStore(DriverPostgres, "", quietLogger()); err == nil {
		t.Error("expected error for empty dsn")
	}
}

func TestSQLStore_Rebind(t *testing.T) {
	pg := &SQLStore{driver: DriverPostgres}
	if got := pg.rebind("VALUES (?,?,?)"); got != "VALUES ($1,$2,$3)" {
		t.Errorf("unexpected postgres query %q", got)
	}
	lite := &SQLStore{driver: DriverSQLite}
	if got := lite.rebind("VALUES (?,?)"); got != "VALUES (?,?)" {
		t.Errorf("unexpected sqlite query %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exercise(t, s)

	s.SaveErr = errors.New("disk full")
	err := s.Save(context.Background(), "k", []byte(`[]`))
	if !model.IsKind(err, model.KindPersistence) {
		t.Errorf("expected persistence fault, got %v", err)
	}
	if s.Saves() != 4 {
		t.Errorf("expected 4 save attempts, got %d", s.Saves())
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{DriverFile, false},
		{"", false},
		{DriverMemory, false},
		{DriverSQLite, false},
		{"redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			dir := t.TempDir()
			s, err := Open(tt.driver, filepath.Join(dir, "db.sqlite"), filepath.Join(dir, "w.json"), quietLogger())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			s.Close()
		})
	}
}
