package domain

import "time"

// Post is the persisted blog record. ID and CreatedAt are assigned by the
// store on insert.
type Post struct {
	ID        int64
	Title     string
	Slug      string
	Content   *string
	CreatedAt time.Time
}
