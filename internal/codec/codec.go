package codec

import (
	"fmt"
	"io"
	"strings"

	"bookshelf/internal/schema"
)

// Catalogue is the portable snapshot of every stored record
type Catalogue struct {
	Books    []schema.Book     `json:"books" yaml:"books"`
	Students []schema.Student  `json:"students" yaml:"students"`
	Posts    []schema.PostView `json:"posts" yaml:"posts"`
}

// Len returns the number of records in the catalogue
func (c *Catalogue) Len() int {
	return len(c.Books) + len(c.Students) + len(c.Posts)
}

// Importer interface for reading a catalogue from various formats
type Importer interface {
	Parse(r io.Reader) (*Catalogue, error)
	Format() string
}

// Exporter interface for writing a catalogue to various formats
type Exporter interface {
	Export(cat *Catalogue, w io.Writer) error
	Format() string
	ContentType() string
}

// Codec reads and writes one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name or file extension
func ForFormat(format string) (Codec, error) {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
