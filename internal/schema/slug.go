package schema

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify derives the URL slug for a title: the title is lower-cased and
// every space is replaced by a hyphen. Runs of spaces are not collapsed, so
// "A  B" becomes "a--b".
func Slugify(title string) string {
	// cases.Caser keeps state, so one is built per call
	lower := cases.Lower(language.Und).String(title)
	return strings.ReplaceAll(lower, " ", "-")
}
