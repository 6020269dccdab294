package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"bookshelf/internal/schema"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the HTTP media type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports a catalogue from JSON
func (c *JSONCodec) Parse(r io.Reader) (*Catalogue, error) {
	var cat Catalogue
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cat); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &cat, nil
}

// Export writes a catalogue as indented JSON
func (c *JSONCodec) Export(cat *Catalogue, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(normalize(cat)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// normalize replaces nil slices so empty sections render as [] rather
// than null
func normalize(cat *Catalogue) *Catalogue {
	out := *cat
	if out.Books == nil {
		out.Books = []schema.Book{}
	}
	if out.Students == nil {
		out.Students = []schema.Student{}
	}
	if out.Posts == nil {
		out.Posts = []schema.PostView{}
	}
	return &out
}
