package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"edinet_insights/pkg/core/processors"
)

// Prompt construction limits. Text blocks dominate token usage, so they get
// truncated per block and the whole prompt gets a hard cap.
const (
	maxPromptChars       = 8000
	maxOneLinerBlocks    = 3
	maxBlockPreviewChars = 500

	oneLinerWordCap    = 30
	descriptionWordCap = 15
	summaryWordCap     = 25
)

func documentHeader(rec *processors.StructuredDocumentRecord) string {
	var b strings.Builder
	b.WriteString("Company: ")
	b.WriteString(orUnknown(rec.CompanyNameJA))
	if rec.CompanyNameEN != nil && *rec.CompanyNameEN != "" {
		fmt.Fprintf(&b, " (%s)", *rec.CompanyNameEN)
	}
	b.WriteString("\nDocument type: ")
	b.WriteString(orUnknown(rec.DocumentType))
	if rec.DocumentTitle != nil && *rec.DocumentTitle != "" {
		b.WriteString("\nTitle: ")
		b.WriteString(*rec.DocumentTitle)
	}
	b.WriteString("\n")
	return b.String()
}

func keyFactsSection(rec *processors.StructuredDocumentRecord) string {
	if len(rec.KeyFacts) == 0 {
		return ""
	}
	facts, err := json.MarshalIndent(rec.KeyFacts, "", "  ")
	if err != nil {
		return ""
	}
	return "Key facts:\n" + string(facts) + "\n"
}

func textBlocksSection(rec *processors.StructuredDocumentRecord, maxBlocks int) string {
	if len(rec.TextBlocks) == 0 {
		return ""
	}
	blocks := rec.TextBlocks
	if maxBlocks > 0 && len(blocks) > maxBlocks {
		blocks = blocks[:maxBlocks]
	}
	var b strings.Builder
	b.WriteString("Disclosure sections:\n")
	for _, block := range blocks {
		title := block.Title
		if title == "" {
			title = block.ID
		}
		fmt.Fprintf(&b, "## %s\n%s\n", title, truncate(StripHTML(block.Content), maxBlockPreviewChars))
	}
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func capPrompt(s string) string {
	return truncate(s, maxPromptChars)
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return "unknown"
	}
	return *s
}
