package service

import (
	"context"
	"fmt"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/schema"
)

// PostService provides CRUD operations over blog posts
type PostService struct {
	store    repository.Store
	eventBus *EventBus
}

// NewPostService creates a new post service
func NewPostService(store repository.Store, eventBus *EventBus) *PostService {
	return &PostService{
		store:    store,
		eventBus: eventBus,
	}
}

// Create stores a new post. The store assigns its ID and creation date.
func (s *PostService) Create(ctx context.Context, in schema.PostInput) (schema.PostView, error) {
	rec := schema.PostToRecord(in)

	var stored domain.Post
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		stored, err = sess.Posts().Insert(ctx, rec)
		return err
	})
	if err != nil {
		return schema.PostView{}, fmt.Errorf("create post: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventPostCreated,
		Payload: map[string]any{"id": stored.ID, "slug": stored.Slug},
	})
	return schema.PostFromRecord(stored), nil
}

// List returns every post ordered by ID
func (s *PostService) List(ctx context.Context) ([]schema.PostView, error) {
	var records []domain.Post
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		records, err = sess.Posts().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]schema.PostView, 0, len(records))
	for _, r := range records {
		posts = append(posts, schema.PostFromRecord(r))
	}
	return posts, nil
}

// Get retrieves a post by ID
func (s *PostService) Get(ctx context.Context, id int64) (schema.PostView, error) {
	var rec domain.Post
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		rec, err = sess.Posts().Get(ctx, id)
		return err
	})
	if err != nil {
		return schema.PostView{}, fmt.Errorf("get post: %w", err)
	}
	return schema.PostFromRecord(rec), nil
}

// GetBySlug retrieves a post by its slug
func (s *PostService) GetBySlug(ctx context.Context, slug string) (schema.PostView, error) {
	var rec domain.Post
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		rec, err = sess.Posts().GetBySlug(ctx, slug)
		return err
	})
	if err != nil {
		return schema.PostView{}, fmt.Errorf("get post by slug: %w", err)
	}
	return schema.PostFromRecord(rec), nil
}

// Update replaces title, slug and content of the post with the given ID
func (s *PostService) Update(ctx context.Context, id int64, in schema.PostInput) (schema.PostView, error) {
	rec := schema.PostToRecord(in)
	rec.ID = id

	var stored domain.Post
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		if err := sess.Posts().Update(ctx, rec); err != nil {
			return err
		}
		var err error
		stored, err = sess.Posts().Get(ctx, id)
		return err
	})
	if err != nil {
		return schema.PostView{}, fmt.Errorf("update post: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventPostUpdated,
		Payload: map[string]any{"id": id, "slug": stored.Slug},
	})
	return schema.PostFromRecord(stored), nil
}

// Delete removes the post with the given ID
func (s *PostService) Delete(ctx context.Context, id int64) error {
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		return sess.Posts().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventPostDeleted,
		Payload: map[string]any{"id": id},
	})
	return nil
}
