package analysis

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"edinet_insights/pkg/core/edinet"
)

// StripHTML reduces an XBRL text block to plain text. Blocks are frequently
// whole XHTML fragments; plain strings pass through untouched.
func StripHTML(input string) string {
	if !strings.Contains(input, "<") {
		return edinet.CleanText(input)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return edinet.CleanText(input)
	}
	return edinet.CleanText(doc.Text())
}
