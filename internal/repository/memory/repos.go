package memory

import (
	"context"

	"bookshelf/internal/domain"
)

type bookRepo struct {
	s *Session
}

func (r *bookRepo) Insert(ctx context.Context, book domain.Book) error {
	t, err := r.s.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.books[book.ID]; ok {
		return domain.Conflict("book", "id", book.ID)
	}
	if bookTitleTaken(t, book.Title, 0) {
		return domain.Conflict("book", "title", book.Title)
	}
	t.books[book.ID] = book
	return nil
}

func (r *bookRepo) List(ctx context.Context) ([]domain.Book, error) {
	t, err := r.s.tables(ctx)
	if err != nil {
		return nil, err
	}
	books := make([]domain.Book, 0, len(t.books))
	for _, id := range sortedKeys(t.books) {
		books = append(books, t.books[id])
	}
	return books, nil
}

func (r *bookRepo) Get(ctx context.Context, id int64) (domain.Book, error) {
	t, err := r.s.tables(ctx)
	if err != nil {
		return domain.Book{}, err
	}
	book, ok := t.books[id]
	if !ok {
		return domain.Book{}, domain.NotFound("book", id)
	}
	return book, nil
}

func (r *bookRepo) Update(ctx context.Context, book domain.Book) error {
	t, err := r.s.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.books[book.ID]; !ok {
		return domain.NotFound("book", book.ID)
	}
	if bookTitleTaken(t, book.Title, book.ID) {
		return domain.Conflict("book", "title", book.Title)
	}
	t.books[book.ID] = book
	return nil
}

func (r *bookRepo) Delete(ctx context.Context, id int64) error {
	t, err := r.s.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.books[id]; !ok {
		return domain.NotFound("book", id)
	}
	delete(t.books, id)
	return nil
}

// bookTitleTaken reports whether another book than except uses title
func bookTitleTaken(t *tables, title string, except int64) bool {
	for id, b := range t.books {
		if id != except && b.Title == title {
			return true
		}
	}
	return false
}

type studentRepo struct {
	s *Session
}

func (r *studentRepo) Insert(ctx context.Context, student domain.Student) error {
	t, err := r.s.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.students[student.ID]; ok {
		return domain.Conflict("student", "id", student.ID)
	}
	t.students[student.ID] = student
	return nil
}

func (r *studentRepo) List(ctx context.Context) ([]domain.Student, error) {
	t, err := r.s.tables(ctx)
	if err != nil {
		return nil, err
	}
	students := make([]domain.Student, 0, len(t.students))
	for _, id := range sortedKeys(t.students) {
		students = append(students, t.students[id])
	}
	return students, nil
}

func (r *studentRepo) Get(ctx context.Context, id int64) (domain.Student, error) {
	t, err := r.s.tables(ctx)
	if err != nil {
		return domain.Student{}, err
	}
	student, ok := t.students[id]
	if !ok {
		return domain.Student{}, domain.NotFound("student", id)
	}
	return student, nil
}

func (r *studentRepo) Update(ctx context.Context, student domain.Student) error {
	t, err := r.s.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.students[student.ID]; !ok {
		return domain.NotFound("student", student.ID)
	}
	t.students[student.ID] = student
	return nil
}

func (r *studentRepo) Delete(ctx context.Context, id int64) error {
	t, err := r.s.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.students[id]; !ok {
		return domain.NotFound("student", id)
	}
	delete(t.students, id)
	return nil
}

type postRepo struct {
	s *Session
}

func (r *postRepo) Insert(ctx context.Context, post domain.Post) (domain.Post, error) {
	t, err := r.s.tables(ctx)
	if err != nil {
		return domain.Post{}, err
	}
	if err := postUnique(t, post, 0); err != nil {
		return domain.Post{}, err
	}

	post = copyPost(post)
	post.ID = t.nextPostID
	post.CreatedAt = r.s.store.now().UTC()
	t.nextPostID++
	t.posts[post.ID] = post
	return copyPost(post), nil
}

func (r *postRepo) List(ctx context.Context) ([]domain.Post, error) {
	t, err := r.s.tables(ctx)
	if err != nil {
		return nil, err
	}
	posts := make([]domain.Post, 0, len(t.posts))
	for _, id := range sortedKeys(t.posts) {
		posts = append(posts, copyPost(t.posts[id]))
	}
	return posts, nil
}

func (r *postRepo) Get(ctx context.Context, id int64) (domain.Post, error) {
	t, err := r.s.tables(ctx)
	if err != nil {
		return domain.Post{}, err
	}
	post, ok := t.posts[id]
	if !ok {
		return domain.Post{}, domain.NotFound("post", id)
	}
	return copyPost(post), nil
}

func (r *postRepo) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	t, err := r.s.tables(ctx)
	if err != nil {
		return domain.Post{}, err
	}
	for _, id := range sortedKeys(t.posts) {
		if p := t.posts[id]; p.Slug == slug {
			return copyPost(p), nil
		}
	}
	return domain.Post{}, domain.NotFound("post", slug)
}

func (r *postRepo) Update(ctx context.Context, post domain.Post) error {
	t, err := r.s.tables(ctx)
	if err != nil {
		return err
	}
	existing, ok := t.posts[post.ID]
	if !ok {
		return domain.NotFound("post", post.ID)
	}
	if err := postUnique(t, post, post.ID); err != nil {
		return err
	}

	updated := copyPost(post)
	updated.CreatedAt = existing.CreatedAt
	t.posts[post.ID] = updated
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	t, err := r.s.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.posts[id]; !ok {
		return domain.NotFound("post", id)
	}
	delete(t.posts, id)
	return nil
}

// postUnique enforces the unique title and slug columns
func postUnique(t *tables, post domain.Post, except int64) error {
	for id, p := range t.posts {
		if id == except {
			continue
		}
		if p.Title == post.Title {
			return domain.Conflict("post", "title", post.Title)
		}
		if p.Slug == post.Slug {
			return domain.Conflict("post", "slug", post.Slug)
		}
	}
	return nil
}
