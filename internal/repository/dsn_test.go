package repository

import (
	"errors"
	"testing"

	"bookshelf/internal/domain"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		input  string
		want   DSN
		wantOK bool
	}{
		{"sqlite:///./test.db", DSN{Driver: DriverSQLite, Path: "./test.db"}, true},
		{"sqlite:////var/lib/bookshelf.db", DSN{Driver: DriverSQLite, Path: "/var/lib/bookshelf.db"}, true},
		{"SQLITE:///books.db", DSN{Driver: DriverSQLite, Path: "books.db"}, true},
		{"sqlite://:memory:", DSN{Driver: DriverSQLite, Path: MemoryPath}, true},
		{"sqlite:///:memory:", DSN{Driver: DriverSQLite, Path: MemoryPath}, true},
		{"memory://", DSN{Driver: DriverMemory}, true},
		{"  memory://  ", DSN{Driver: DriverMemory}, true},
		{"", DSN{}, false},
		{"./test.db", DSN{}, false},
		{"sqlite://", DSN{}, false},
		{"sqlite:///", DSN{}, false},
		{"sqlite://host/db", DSN{}, false},
		{"postgres://user@localhost/db", DSN{}, false},
		{"memory://extra", DSN{}, false},
	}

	for _, tt := range tests {
		got, err := ParseDSN(tt.input)
		if !tt.wantOK {
			if !errors.Is(err, domain.ErrConfiguration) {
				t.Errorf("ParseDSN(%q) error = %v, want ErrConfiguration", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDSN(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDSN(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestDSNStringRoundTrip(t *testing.T) {
	for _, raw := range []string{"sqlite:///./test.db", "sqlite://:memory:", "memory://"} {
		dsn, err := ParseDSN(raw)
		if err != nil {
			t.Fatalf("ParseDSN(%q): %v", raw, err)
		}
		if dsn.String() != raw {
			t.Errorf("DSN(%q).String() = %q", raw, dsn.String())
		}
	}
}
