package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"bookshelf/internal/domain"
)

type studentRepo struct {
	s *Session
}

// Insert stores a new student with its caller-assigned ID
func (r *studentRepo) Insert(ctx context.Context, student domain.Student) error {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO students (`+studentColumns+`)
		VALUES (?, ?, ?, ?)
	`, student.ID, student.Name, student.Grade, student.Address)
	if err != nil {
		return classifyWrite(err, "student", map[string]any{"id": student.ID})
	}
	return nil
}

// List returns every student ordered by ID
func (r *studentRepo) List(ctx context.Context) ([]domain.Student, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, queryErr(err, "query students")
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		var row studentRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, queryErr(err, "scan student")
		}
		students = append(students, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr(err, "iterate students")
	}
	return students, nil
}

// Get retrieves a single student by ID
func (r *studentRepo) Get(ctx context.Context, id int64) (domain.Student, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return domain.Student{}, err
	}

	var row studentRow
	err = tx.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = ?`, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Student{}, domain.NotFound("student", id)
	}
	if err != nil {
		return domain.Student{}, queryErr(err, "query student")
	}
	return row.toDomain(), nil
}

// Update replaces every field of an existing student
func (r *studentRepo) Update(ctx context.Context, student domain.Student) error {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE students SET name = ?, grade = ?, address = ?
		WHERE id = ?
	`, student.Name, student.Grade, student.Address, student.ID)
	if err != nil {
		return classifyWrite(err, "student", map[string]any{"id": student.ID})
	}
	return expectOne(res, "student", student.ID)
}

// Delete removes a student by ID
func (r *studentRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return queryErr(err, "delete student")
	}
	return expectOne(res, "student", id)
}
