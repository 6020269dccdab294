package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"bookshelf/internal/domain"
)

type bookRepo struct {
	s *Session
}

// Insert stores a new book with its caller-assigned ID
func (r *bookRepo) Insert(ctx context.Context, book domain.Book) error {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO books (`+bookColumns+`)
		VALUES (?, ?, ?, ?)
	`, book.ID, book.Title, book.Author, book.Publisher)
	if err != nil {
		return classifyWrite(err, "book", map[string]any{"id": book.ID, "title": book.Title})
	}
	return nil
}

// List returns every book ordered by ID
func (r *bookRepo) List(ctx context.Context) ([]domain.Book, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, queryErr(err, "query books")
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var row bookRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, queryErr(err, "scan book")
		}
		books = append(books, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr(err, "iterate books")
	}
	return books, nil
}

// Get retrieves a single book by ID
func (r *bookRepo) Get(ctx context.Context, id int64) (domain.Book, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return domain.Book{}, err
	}

	var row bookRow
	err = tx.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, domain.NotFound("book", id)
	}
	if err != nil {
		return domain.Book{}, queryErr(err, "query book")
	}
	return row.toDomain(), nil
}

// Update replaces every field of an existing book
func (r *bookRepo) Update(ctx context.Context, book domain.Book) error {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE books SET title = ?, author = ?, publisher = ?
		WHERE id = ?
	`, book.Title, book.Author, book.Publisher, book.ID)
	if err != nil {
		return classifyWrite(err, "book", map[string]any{"id": book.ID, "title": book.Title})
	}
	return expectOne(res, "book", book.ID)
}

// Delete removes a book by ID
func (r *bookRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return queryErr(err, "delete book")
	}
	return expectOne(res, "book", id)
}
