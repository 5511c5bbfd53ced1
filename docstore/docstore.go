// Package docstore persists whole JSON documents by name. Every backend
// stores the raw bytes it is given; parsing and normalization belong to the
// caller.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotExist is returned by Load when no document has been saved under the
// requested name.
var ErrNotExist = errors.New("docstore: document does not exist")

// Backend loads and saves named documents. Save replaces the whole document.
type Backend interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, body []byte) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Options configures Open. Only the field for the chosen driver is read.
type Options struct {
	Driver      string
	Dir         string // file
	SQLitePath  string // sqlite
	RedisURL    string // redis
	DatabaseURL string // postgres
}

// Open returns the backend selected by opts.Driver. An empty driver means
// DriverFile.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case "", DriverFile:
		return NewFileBackend(opts.Dir)
	case DriverSQLite:
		return NewSQLiteBackend(opts.SQLitePath)
	case DriverRedis:
		return NewRedisBackend(ctx, opts.RedisURL)
	case DriverPostgres:
		return NewPostgresBackend(ctx, opts.DatabaseURL)
	}
	return nil, fmt.Errorf("docstore: unknown driver %q", opts.Driver)
}

var reName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

func checkName(name string) error {
	if !reName.MatchString(name) {
		return fmt.Errorf("docstore: invalid document name %q", name)
	}
	return nil
}
