package schema

import "bookshelf/internal/domain"

// Book is the external representation of a catalogue entry, used both as
// create/update payload and as response body.
type Book struct {
	ID        int64  `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author" yaml:"author"`
	Publisher string `json:"publisher" yaml:"publisher"`
}

// Validate checks required fields and column limits
func (b *Book) Validate() error {
	if err := requireID(b.ID); err != nil {
		return err
	}
	if err := requireText("title", b.Title, domain.MaxTitleLen); err != nil {
		return err
	}
	if err := requireText("author", b.Author, domain.MaxAuthorLen); err != nil {
		return err
	}
	return requireText("publisher", b.Publisher, domain.MaxPublisherLen)
}

// BookToRecord maps a validated book to its persisted shape
func BookToRecord(b Book) domain.Book {
	return domain.Book{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
	}
}

// BookFromRecord maps a persisted book to its external shape
func BookFromRecord(r domain.Book) Book {
	return Book{
		ID:        r.ID,
		Title:     r.Title,
		Author:    r.Author,
		Publisher: r.Publisher,
	}
}
