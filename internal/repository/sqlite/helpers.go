package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/domain"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToStringPtr converts sql.NullString to *string
func nullToStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// stringPtrToNull converts *string to sql.NullString
func stringPtrToNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// timestampLayout is how created_at columns are stored
const timestampLayout = time.RFC3339Nano

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

// ============================================================================
// Error Classification
// ============================================================================

// constraintField reports whether err is a UNIQUE or PRIMARY KEY violation
// and, if so, which column it names. SQLite reports both as
// "UNIQUE constraint failed: books.title".
func constraintField(err error) (string, bool) {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return "", false
	}

	_, detail, ok := strings.Cut(err.Error(), "UNIQUE constraint failed: ")
	if !ok {
		return "", false
	}
	detail, _, _ = strings.Cut(detail, " ")
	detail = strings.TrimRight(detail, ",)")
	if _, column, ok := strings.Cut(detail, "."); ok {
		return column, true
	}
	return detail, true
}

// classifyWrite turns a driver error from an INSERT or UPDATE into the
// domain taxonomy. values maps column names to the values written so the
// conflict message can name the offending value.
func classifyWrite(err error, kind string, values map[string]any) error {
	if field, ok := constraintField(err); ok {
		return domain.Conflict(kind, field, values[field])
	}
	return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, kind, err)
}

// queryErr wraps a read failure
func queryErr(err error, what string) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, what, err)
}

// expectOne turns a zero-row UPDATE or DELETE into domain.ErrNotFound
func expectOne(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return queryErr(err, "rows affected")
	}
	if n == 0 {
		return domain.NotFound(kind, id)
	}
	return nil
}

// ============================================================================
// Row Scanners
// ============================================================================
//
// Column order must match between the *Columns constant and scanArgs().

// bookRow holds all columns from a book query for scanning
type bookRow struct {
	ID        int64
	Title     string
	Author    string
	Publisher string
}

// scanArgs returns pointers in bookColumns order:
// id, title, author, publisher
func (r *bookRow) scanArgs() []any {
	return []any{
		&r.ID,        // 1
		&r.Title,     // 2
		&r.Author,    // 3
		&r.Publisher, // 4
	}
}

func (r *bookRow) toDomain() domain.Book {
	return domain.Book{
		ID:        r.ID,
		Title:     r.Title,
		Author:    r.Author,
		Publisher: r.Publisher,
	}
}

const bookColumns = `id, title, author, publisher`

// studentRow holds all columns from a student query for scanning
type studentRow struct {
	ID      int64
	Name    string
	Grade   int
	Address string
}

// scanArgs returns pointers in studentColumns order:
// id, name, grade, address
func (r *studentRow) scanArgs() []any {
	return []any{
		&r.ID,      // 1
		&r.Name,    // 2
		&r.Grade,   // 3
		&r.Address, // 4
	}
}

func (r *studentRow) toDomain() domain.Student {
	return domain.Student{
		ID:      r.ID,
		Name:    r.Name,
		Grade:   r.Grade,
		Address: r.Address,
	}
}

const studentColumns = `id, name, grade, address`

// postRow holds all columns from a post query for scanning
type postRow struct {
	ID        int64
	Title     string
	Slug      string
	Content   sql.NullString
	CreatedAt string
}

// scanArgs returns pointers in postColumns order:
// id, title, slug, content, created_at
func (r *postRow) scanArgs() []any {
	return []any{
		&r.ID,        // 1
		&r.Title,     // 2
		&r.Slug,      // 3
		&r.Content,   // 4
		&r.CreatedAt, // 5
	}
}

func (r *postRow) toDomain() (domain.Post, error) {
	created, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return domain.Post{}, fmt.Errorf("parse created_at of post %d: %w", r.ID, err)
	}
	return domain.Post{
		ID:        r.ID,
		Title:     r.Title,
		Slug:      r.Slug,
		Content:   nullToStringPtr(r.Content),
		CreatedAt: created,
	}, nil
}

const postColumns = `id, title, slug, content, created_at`
