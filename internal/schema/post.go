package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"bookshelf/internal/domain"

	"gopkg.in/yaml.v3"
)

// DateLayout is the wire format of Date values
const DateLayout = "2006-01-02"

// Date is a calendar date rendered without a time component
type Date struct {
	time.Time
}

// MarshalJSON renders the date as "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON parses a "YYYY-MM-DD" string. null and "" give the zero
// date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", *s, err)
	}
	d.Time = t
	return nil
}

// MarshalYAML renders the date as "YYYY-MM-DD"
func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format(DateLayout), nil
}

// UnmarshalYAML parses a "YYYY-MM-DD" scalar. Null and empty scalars give
// the zero date.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" || value.Value == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(DateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

// PostInput is the create/update payload for a post. The slug is derived
// from the title during decoding; a payload without a title keeps whatever
// slug it was given.
type PostInput struct {
	Title   string  `json:"title"`
	Slug    string  `json:"slug"`
	Content *string `json:"content,omitempty"`
}

// NewPostInput builds an input the same way decoding a payload with a
// title does
func NewPostInput(title string, content *string) PostInput {
	return PostInput{Title: title, Slug: Slugify(title), Content: content}
}

// UnmarshalJSON decodes the payload and derives the slug when a title key
// is present
func (p *PostInput) UnmarshalJSON(data []byte) error {
	type plain PostInput
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var in plain
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = PostInput(in)

	if _, ok := fields["title"]; ok {
		p.Slug = Slugify(p.Title)
	}
	return nil
}

// Validate checks required fields
func (p *PostInput) Validate() error {
	if err := requireText("title", p.Title, domain.MaxTitleLen); err != nil {
		return err
	}
	return requireText("slug", p.Slug, 0)
}

// PostView is the response shape of a post
type PostView struct {
	ID        int64   `json:"id" yaml:"id"`
	Title     string  `json:"title" yaml:"title"`
	Slug      string  `json:"slug" yaml:"slug"`
	Content   *string `json:"content" yaml:"content"`
	CreatedAt Date    `json:"created_at" yaml:"created_at"`
}

// PostToRecord maps a validated input to a record. ID and CreatedAt are
// left for the store to assign.
func PostToRecord(in PostInput) domain.Post {
	rec := domain.Post{
		Title: in.Title,
		Slug:  in.Slug,
	}
	if in.Content != nil {
		c := *in.Content
		rec.Content = &c
	}
	return rec
}

// PostFromRecord maps a stored post to its response shape
func PostFromRecord(r domain.Post) PostView {
	view := PostView{
		ID:        r.ID,
		Title:     r.Title,
		Slug:      r.Slug,
		CreatedAt: Date{Time: r.CreatedAt.UTC().Truncate(24 * time.Hour)},
	}
	if r.Content != nil {
		c := *r.Content
		view.Content = &c
	}
	return view
}
