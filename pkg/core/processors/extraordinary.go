package processors

import (
	"strings"

	"go.uber.org/zap"
)

// extraordinaryElements are the disclosure items an extraordinary report
// (臨時報告書) can carry. Element IDs map onto shortened key-fact names.
var extraordinaryElements = []string{
	"jpcrp-esr_cor:ResolutionOfBoardOfDirectorsDescription",
	"jpcrp-esr_cor:SummaryOfReasonForSubmissionDescription",
	"jpcrp-esr_cor:ContentOfDecisionsDescription",
	"jpcrp-esr_cor:DateOfResolutionOfBoardOfDirectors",
	"jpcrp-esr_cor:DateOfOccurrence",
	"jpcrp-esr_cor:SummaryOfAgreementDescription",
	"jpcrp-esr_cor:DetailsOfTransactionPartiesDescription",
	"jpcrp-esr_cor:RationaleForTransactionDescription",
	"jpcrp-esr_cor:ImpactOnBusinessResultsDescription",
}

// factKeyFromElement derives the key-fact name from the element's local
// name by stripping the boilerplate affixes.
func factKeyFromElement(elementID string) string {
	key := elementID
	if i := strings.Index(key, ":"); i >= 0 {
		key = key[i+1:]
	}
	key = strings.ReplaceAll(key, "Description", "")
	key = strings.ReplaceAll(key, "SummaryOf", "")
	key = strings.ReplaceAll(key, "DetailsOf", "")
	key = strings.ReplaceAll(key, "RationaleFor", "")
	key = strings.ReplaceAll(key, "ImpactOnBusinessResults", "ImpactOnResults")
	return key
}

func processExtraordinary(set *documentSet, log *zap.Logger) *StructuredDocumentRecord {
	rec := newRecord(set.docID, set.docTypeCode)
	set.commonMetadata(rec)

	for _, elementID := range extraordinaryElements {
		value := set.valueByID(elementID, "")
		if value == nil || *value == "" {
			continue
		}
		rec.KeyFacts[factKeyFromElement(elementID)] = *value
	}
	rec.TextBlocks = append(rec.TextBlocks, set.allTextBlocks()...)
	return rec
}
