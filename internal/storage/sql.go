package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"MarketDashboard/internal/model"
)

// SQLStore persists snapshots in a single table on SQLite or PostgreSQL.
type SQLStore struct {
	db     *sql.DB
	driver string
	log    logrus.FieldLogger
	mu     sync.Mutex
}

// NewSQLStore opens (or creates) the database and runs migrations.
func NewSQLStore(driver, dsn string, log logrus.FieldLogger) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("storage driver %s requires a dsn", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch driver {
	case DriverSQLite:
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	case DriverPostgres:
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
	}

	s := &SQLStore{db: db, driver: driver, log: log}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("driver", driver).Info("snapshot store opened")
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			snapshot_key TEXT PRIMARY KEY,
			payload      TEXT NOT NULL,
			updated_at   BIGINT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT payload FROM snapshots WHERE snapshot_key = ?`), key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, model.Fault(model.KindPersistence, "sql load", err)
	}
	return []byte(payload), nil
}

func (s *SQLStore) Save(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO snapshots (snapshot_key, payload, updated_at)
		VALUES (?,?,?)
		ON CONFLICT (snapshot_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`),
		key, string(value), time.Now().Unix(),
	)
	if err != nil {
		return model.Fault(model.KindPersistence, "sql save", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	s.log.WithField("driver", s.driver).Info("closing snapshot store")
	return s.db.Close()
}
