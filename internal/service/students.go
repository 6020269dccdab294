package service

import (
	"context"
	"fmt"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/schema"
)

// StudentService provides CRUD operations over the student roster
type StudentService struct {
	store    repository.Store
	eventBus *EventBus
}

// NewStudentService creates a new student service
func NewStudentService(store repository.Store, eventBus *EventBus) *StudentService {
	return &StudentService{
		store:    store,
		eventBus: eventBus,
	}
}

// Create stores a new student
func (s *StudentService) Create(ctx context.Context, in schema.Student) (schema.Student, error) {
	rec := schema.StudentToRecord(in)

	var stored domain.Student
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		if err := sess.Students().Insert(ctx, rec); err != nil {
			return err
		}
		var err error
		stored, err = sess.Students().Get(ctx, rec.ID)
		return err
	})
	if err != nil {
		return schema.Student{}, fmt.Errorf("create student: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventStudentCreated,
		Payload: map[string]any{"id": stored.ID},
	})
	return schema.StudentFromRecord(stored), nil
}

// List returns every student ordered by ID
func (s *StudentService) List(ctx context.Context) ([]schema.Student, error) {
	var records []domain.Student
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		records, err = sess.Students().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	students := make([]schema.Student, 0, len(records))
	for _, r := range records {
		students = append(students, schema.StudentFromRecord(r))
	}
	return students, nil
}

// Get retrieves a student by ID
func (s *StudentService) Get(ctx context.Context, id int64) (schema.Student, error) {
	var rec domain.Student
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		rec, err = sess.Students().Get(ctx, id)
		return err
	})
	if err != nil {
		return schema.Student{}, fmt.Errorf("get student: %w", err)
	}
	return schema.StudentFromRecord(rec), nil
}

// Update replaces every field of the student with the given ID
func (s *StudentService) Update(ctx context.Context, id int64, in schema.Student) (schema.Student, error) {
	if in.ID != 0 && in.ID != id {
		return schema.Student{}, domain.Invalid("payload id %d does not match student %d", in.ID, id)
	}
	rec := schema.StudentToRecord(in)
	rec.ID = id

	var stored domain.Student
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		if err := sess.Students().Update(ctx, rec); err != nil {
			return err
		}
		var err error
		stored, err = sess.Students().Get(ctx, id)
		return err
	})
	if err != nil {
		return schema.Student{}, fmt.Errorf("update student: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventStudentUpdated,
		Payload: map[string]any{"id": id},
	})
	return schema.StudentFromRecord(stored), nil
}

// Delete removes the student with the given ID
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		return sess.Students().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventStudentDeleted,
		Payload: map[string]any{"id": id},
	})
	return nil
}
