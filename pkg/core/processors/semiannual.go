package processors

import "go.uber.org/zap"

// semiAnnualMetrics are the summary-of-business-results figures pulled from
// a semi-annual report, in report order.
var semiAnnualMetrics = []struct {
	elementID string
	factKey   string
}{
	{"jpcrp_cor:OperatingRevenue1SummaryOfBusinessResults", "OperatingRevenue"},
	{"jpcrp_cor:OrdinaryIncome", "OrdinaryIncome"},
	{"jppfs_cor:ProfitLossAttributableToOwnersOfParent", "NetIncome"},
	{"jpcrp_cor:BasicEarningsLossPerShareSummaryOfBusinessResults", "EPS"},
	{"jpcrp_cor:NetAssetsSummaryOfBusinessResults", "NetAssets"},
	{"jpcrp_cor:TotalAssetsSummaryOfBusinessResults", "TotalAssets"},
	{"jpcrp_cor:CashAndCashEquivalentsSummaryOfBusinessResults", "CashAndCashEquivalents"},
}

// financialTableElements are IFRS statements embedded whole as text blocks.
var financialTableElements = []struct {
	elementID string
	title     string
}{
	{"jpigp_cor:CondensedQuarterlyConsolidatedStatementOfFinancialPositionIFRSTextBlock", "Consolidated Statement of Financial Position"},
	{"jpigp_cor:CondensedYearToQuarterEndConsolidatedStatementOfProfitOrLossIFRSTextBlock", "Consolidated Statement of Profit or Loss"},
}

// curatedTextBlocks are the narrative sections worth keeping from a
// semi-annual report. When none are present the processor falls back to
// every text block in the filing.
var curatedTextBlocks = []struct {
	elementID string
	title     string
}{
	{"jpcrp_cor:BusinessResultsOfGroupTextBlock", "Group Business Results"},
	{"jpcrp_cor:DescriptionOfBusinessTextBlock", "Description of Business"},
	{"jpcrp_cor:BusinessRisksTextBlock", "Business Risks"},
	{"jpcrp_cor:ManagementAnalysisOfFinancialPositionOperatingResultsAndCashFlowsTextBlock", "Management Analysis"},
	{"jpcrp_cor:MajorShareholdersTextBlock", "Major Shareholders"},
	{"jpigp_cor:NotesSegmentInformationCondensedQuarterlyConsolidatedFinancialStatementsIFRSTextBlock", "Segment Information Notes"},
}

func processSemiAnnual(set *documentSet, log *zap.Logger) *StructuredDocumentRecord {
	rec := newRecord(set.docID, set.docTypeCode)
	set.commonMetadata(rec)

	for _, metric := range semiAnnualMetrics {
		records := set.recordsByID(metric.elementID)
		current := valueForContext(records, "Current")
		prior := valueForContext(records, "Prior")
		if current == nil && prior == nil {
			continue
		}
		rec.KeyFacts[metric.factKey] = FactPair{Current: current, Prior: prior}
	}

	for _, table := range financialTableElements {
		if value := set.valueByID(table.elementID, ""); value != nil && *value != "" {
			rec.FinancialTables = append(rec.FinancialTables, FinancialTable{
				Title:   table.title,
				RawText: *value,
			})
		}
	}

	for _, block := range curatedTextBlocks {
		if value := set.valueByID(block.elementID, ""); value != nil && *value != "" {
			rec.TextBlocks = append(rec.TextBlocks, TextBlock{
				ID:      block.elementID,
				Title:   block.title,
				Content: *value,
			})
		}
	}
	if len(rec.TextBlocks) == 0 {
		log.Debug("no curated sections found, keeping all text blocks", zap.String("doc_id", set.docID))
		rec.TextBlocks = append(rec.TextBlocks, set.allTextBlocks()...)
	}
	return rec
}
