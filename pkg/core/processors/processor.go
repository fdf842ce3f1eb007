package processors

import (
	"strings"

	"go.uber.org/zap"

	"edinet_insights/pkg/core/edinet"
)

// DEI element IDs present in every filing's cover data.
const (
	elemEdinetCode    = "jpdei_cor:EDINETCodeDEI"
	elemFilerNameJA   = "jpdei_cor:FilerNameInJapaneseDEI"
	elemFilerNameEN   = "jpdei_cor:FilerNameInEnglishDEI"
	elemDocumentType  = "jpdei_cor:DocumentTypeDEI"
	elemTitleCover    = "jpcrp-esr_cor:DocumentTitleCoverPage"
	elemTitleStandard = "jpcrp_cor:DocumentTitle"
)

// documentSet is the flattened record view of one filing archive.
type documentSet struct {
	records     []edinet.Record
	docID       string
	docTypeCode string
}

func newDocumentSet(files []edinet.File, docID, docTypeCode string) *documentSet {
	var records []edinet.Record
	for _, f := range files {
		records = append(records, f.Records...)
	}
	return &documentSet{records: records, docID: docID, docTypeCode: docTypeCode}
}

// valueByID returns the cleaned value of the first record with the given
// element ID, optionally restricted to context IDs containing contextFilter.
// The first match wins even when its value cell is empty.
func (s *documentSet) valueByID(elementID, contextFilter string) *string {
	for _, rec := range s.records {
		id := rec[edinet.ColElementID]
		if id == nil || *id != elementID {
			continue
		}
		if contextFilter != "" {
			ctx := rec[edinet.ColContextID]
			if ctx == nil || !strings.Contains(*ctx, contextFilter) {
				continue
			}
		}
		return edinet.CleanTextPtr(rec[edinet.ColValue])
	}
	return nil
}

// recordsByID returns every record with the given element ID.
func (s *documentSet) recordsByID(elementID string) []edinet.Record {
	var out []edinet.Record
	for _, rec := range s.records {
		if id := rec[edinet.ColElementID]; id != nil && *id == elementID {
			out = append(out, rec)
		}
	}
	return out
}

// valueForContext returns the cleaned value of the first record whose context
// ID contains contextFilter. The first match wins even when its value cell is
// empty.
func valueForContext(records []edinet.Record, contextFilter string) *string {
	for _, rec := range records {
		ctx := rec[edinet.ColContextID]
		if ctx == nil || !strings.Contains(*ctx, contextFilter) {
			continue
		}
		return edinet.CleanTextPtr(rec[edinet.ColValue])
	}
	return nil
}

// allTextBlocks collects every narrative section: elements whose ID contains
// TextBlock, plus reason-for-filing elements, with non-empty values.
func (s *documentSet) allTextBlocks() []TextBlock {
	var blocks []TextBlock
	for _, rec := range s.records {
		id := rec[edinet.ColElementID]
		if id == nil {
			continue
		}
		name := ""
		if n := rec[edinet.ColItemName]; n != nil {
			name = *n
		}
		if !strings.Contains(*id, "TextBlock") &&
			!strings.Contains(*id, "ReasonForFiling") &&
			!strings.Contains(name, "提出理由") {
			continue
		}
		value := edinet.CleanTextPtr(rec[edinet.ColValue])
		if value == nil || *value == "" {
			continue
		}
		blocks = append(blocks, TextBlock{ID: *id, Title: edinet.CleanText(name), Content: *value})
	}
	return blocks
}

// commonMetadata fills the cover-page fields shared by every document type.
// The standard document title overrides the extraordinary-report cover title
// when both appear.
func (s *documentSet) commonMetadata(rec *StructuredDocumentRecord) {
	rec.EdinetCode = s.valueByID(elemEdinetCode, "")
	rec.CompanyNameJA = s.valueByID(elemFilerNameJA, "")
	rec.CompanyNameEN = s.valueByID(elemFilerNameEN, "")
	rec.DocumentType = s.valueByID(elemDocumentType, "")
	for _, id := range []string{elemTitleCover, elemTitleStandard} {
		if title := s.valueByID(id, ""); title != nil && *title != "" {
			rec.DocumentTitle = title
		}
	}
}

// processFunc builds a structured record from one filing's document set.
type processFunc func(*documentSet, *zap.Logger) *StructuredDocumentRecord

// byDocType dispatches on the EDINET document type code. Types without a
// dedicated processor fall through to the generic one.
var byDocType = map[string]processFunc{
	"180": processExtraordinary,
	"160": processSemiAnnual,
}

// Process runs the processor for docTypeCode over the decoded files.
func Process(files []edinet.File, docID, docTypeCode string, log *zap.Logger) *StructuredDocumentRecord {
	if log == nil {
		log = zap.NewNop()
	}
	set := newDocumentSet(files, docID, docTypeCode)
	fn, ok := byDocType[docTypeCode]
	if !ok {
		fn = processGeneric
	}
	rec := fn(set, log)
	log.Info("processed document",
		zap.String("doc_id", docID),
		zap.String("doc_type_code", docTypeCode),
		zap.Int("key_facts", len(rec.KeyFacts)),
		zap.Int("text_blocks", len(rec.TextBlocks)))
	return rec
}
