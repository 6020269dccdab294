package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"bookshelf/internal/domain"
)

type postRepo struct {
	s *Session
}

func postValues(p domain.Post) map[string]any {
	return map[string]any{"id": p.ID, "title": p.Title, "slug": p.Slug}
}

// Insert stores a new post, assigning its ID and creation time, and
// returns the stored record
func (r *postRepo) Insert(ctx context.Context, post domain.Post) (domain.Post, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return domain.Post{}, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO posts (title, slug, content, created_at)
		VALUES (?, ?, ?, ?)
	`, post.Title, post.Slug, stringPtrToNull(post.Content), formatTimestamp(r.s.now()))
	if err != nil {
		return domain.Post{}, classifyWrite(err, "post", postValues(post))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Post{}, queryErr(err, "last insert id")
	}
	return r.Get(ctx, id)
}

// List returns every post ordered by ID
func (r *postRepo) List(ctx context.Context) ([]domain.Post, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY id`)
	if err != nil {
		return nil, queryErr(err, "query posts")
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var row postRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, queryErr(err, "scan post")
		}
		post, err := row.toDomain()
		if err != nil {
			return nil, queryErr(err, "decode post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr(err, "iterate posts")
	}
	return posts, nil
}

// Get retrieves a single post by ID
func (r *postRepo) Get(ctx context.Context, id int64) (domain.Post, error) {
	return r.getWhere(ctx, "id", id)
}

// GetBySlug retrieves a single post by its slug
func (r *postRepo) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	return r.getWhere(ctx, "slug", slug)
}

// getWhere loads one post by a unique column; column is never caller input
func (r *postRepo) getWhere(ctx context.Context, column string, value any) (domain.Post, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return domain.Post{}, err
	}

	var row postRow
	err = tx.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE `+column+` = ?`, value).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Post{}, domain.NotFound("post", value)
	}
	if err != nil {
		return domain.Post{}, queryErr(err, "query post")
	}

	post, err := row.toDomain()
	if err != nil {
		return domain.Post{}, queryErr(err, "decode post")
	}
	return post, nil
}

// Update replaces title, slug and content. created_at is kept.
func (r *postRepo) Update(ctx context.Context, post domain.Post) error {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE posts SET title = ?, slug = ?, content = ?
		WHERE id = ?
	`, post.Title, post.Slug, stringPtrToNull(post.Content), post.ID)
	if err != nil {
		return classifyWrite(err, "post", postValues(post))
	}
	return expectOne(res, "post", post.ID)
}

// Delete removes a post by ID
func (r *postRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return queryErr(err, "delete post")
	}
	return expectOne(res, "post", id)
}
