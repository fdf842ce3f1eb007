// Package processors turns decoded filing CSVs into structured document
// records. Each supported document type has a processor that knows which
// XBRL element IDs matter; everything else goes through the generic
// text-block processor.
package processors

// FactPair holds a metric's current and prior period values. Either side may
// be missing.
type FactPair struct {
	Current *string `json:"current"`
	Prior   *string `json:"prior"`
}

// FinancialTable is a statement rendered as raw text, as EDINET embeds them
// in IFRS text blocks.
type FinancialTable struct {
	Title   string `json:"title"`
	RawText string `json:"raw_text"`
}

// TextBlock is one narrative section of a filing.
type TextBlock struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// StructuredDocumentRecord is the normalized output of processing one filing.
// The containers are always non-nil so downstream JSON never emits null for
// them.
type StructuredDocumentRecord struct {
	DocID       string `json:"doc_id"`
	DocTypeCode string `json:"doc_type_code"`

	EdinetCode    *string `json:"edinet_code,omitempty"`
	CompanyNameJA *string `json:"company_name_ja,omitempty"`
	CompanyNameEN *string `json:"company_name_en,omitempty"`
	DocumentType  *string `json:"document_type,omitempty"`
	DocumentTitle *string `json:"document_title,omitempty"`

	KeyFacts        map[string]any   `json:"key_facts"`
	FinancialTables []FinancialTable `json:"financial_tables"`
	TextBlocks      []TextBlock      `json:"text_blocks"`
}

func newRecord(docID, docTypeCode string) *StructuredDocumentRecord {
	return &StructuredDocumentRecord{
		DocID:           docID,
		DocTypeCode:     docTypeCode,
		KeyFacts:        map[string]any{},
		FinancialTables: []FinancialTable{},
		TextBlocks:      []TextBlock{},
	}
}
