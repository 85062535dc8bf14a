package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned by Load when nothing was ever saved under the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is a key/value snapshot store. Save replaces the whole value for a key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open builds the backend selected by driver. dsn is used by the SQL drivers,
// path by the file driver.
func Open(driver, dsn, path string, log logrus.FieldLogger) (Store, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStore(path), nil
	case DriverSQLite, DriverPostgres:
		return NewSQLStore(driver, dsn, log)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
