package schema

import (
	"strings"
	"unicode/utf8"

	"bookshelf/internal/domain"
)

// requireText checks that a text field is present and within limit runes
func requireText(field, value string, limit int) error {
	if strings.TrimSpace(value) == "" {
		return domain.Invalid("%s is required", field)
	}
	if n := utf8.RuneCountInString(value); limit > 0 && n > limit {
		return domain.Invalid("%s must be at most %d characters, got %d", field, limit, n)
	}
	return nil
}

// requireID checks that a caller-assigned identity is positive
func requireID(id int64) error {
	if id <= 0 {
		return domain.Invalid("id must be a positive integer, got %d", id)
	}
	return nil
}
