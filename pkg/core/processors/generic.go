package processors

import "go.uber.org/zap"

// processGeneric handles document types without a dedicated processor:
// cover metadata plus every narrative section.
func processGeneric(set *documentSet, log *zap.Logger) *StructuredDocumentRecord {
	rec := newRecord(set.docID, set.docTypeCode)
	set.commonMetadata(rec)
	rec.TextBlocks = append(rec.TextBlocks, set.allTextBlocks()...)
	return rec
}
