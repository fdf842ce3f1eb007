package edinet

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText replaces ideographic spaces with ASCII spaces, collapses runs of
// whitespace, and trims. Filer names and document descriptions come off the
// wire padded with U+3000 for alignment.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanTextPtr is CleanText lifted over nullable values. nil stays nil.
func CleanTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := CleanText(*s)
	return &cleaned
}
