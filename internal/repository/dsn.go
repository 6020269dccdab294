package repository

import (
	"fmt"
	"strings"

	"bookshelf/internal/domain"
)

// Driver names a store implementation
type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverMemory Driver = "memory"
)

// MemoryPath is the SQLite path for a private in-memory database
const MemoryPath = ":memory:"

// DSN is a parsed connection string
type DSN struct {
	Driver Driver
	Path   string
}

// ParseDSN parses a connection string of the form
//
//	sqlite:///relative/or/absolute.db
//	sqlite://:memory:
//	memory://
//
// "sqlite:///./test.db" names ./test.db, "sqlite:////var/lib/x.db" names
// /var/lib/x.db.
func ParseDSN(raw string) (DSN, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DSN{}, fmt.Errorf("%w: empty connection string", domain.ErrConfiguration)
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return DSN{}, fmt.Errorf("%w: connection string %q has no scheme", domain.ErrConfiguration, raw)
	}

	switch Driver(strings.ToLower(scheme)) {
	case DriverMemory:
		if rest != "" {
			return DSN{}, fmt.Errorf("%w: memory:// takes no path, got %q", domain.ErrConfiguration, rest)
		}
		return DSN{Driver: DriverMemory}, nil

	case DriverSQLite:
		if rest == MemoryPath {
			return DSN{Driver: DriverSQLite, Path: MemoryPath}, nil
		}
		path, ok := strings.CutPrefix(rest, "/")
		if !ok || path == "" {
			return DSN{}, fmt.Errorf("%w: sqlite connection string %q must be sqlite:///<path>", domain.ErrConfiguration, raw)
		}
		return DSN{Driver: DriverSQLite, Path: path}, nil

	default:
		return DSN{}, fmt.Errorf("%w: unsupported scheme %q", domain.ErrConfiguration, scheme)
	}
}

// String renders the DSN back to connection string form
func (d DSN) String() string {
	switch d.Driver {
	case DriverMemory:
		return "memory://"
	case DriverSQLite:
		if d.Path == MemoryPath {
			return "sqlite://" + MemoryPath
		}
		return "sqlite:///" + d.Path
	}
	return ""
}
