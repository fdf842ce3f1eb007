package edinet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleFilings() []FilingMetadata {
	return []FilingMetadata{
		{DocID: "D1", DocTypeCode: strPtr("160"), EdinetCode: strPtr("E00001"), SecCode: strPtr("79740"), FilerName: strPtr("任天堂株式会社"), FormCode: strPtr("043000")},
		{DocID: "D2", DocTypeCode: strPtr("180"), EdinetCode: strPtr("E00002"), FilerName: strPtr("ソニーグループ株式会社")},
		{DocID: "D3", DocTypeCode: strPtr("999"), EdinetCode: strPtr("E00003")}, // unsupported type
		{DocID: "D4", EdinetCode: strPtr("E00004")}, // missing type
		{DocID: "D5", DocTypeCode: strPtr("350"), SecCode: strPtr("67580")},
	}
}

func docIDs(filings []FilingMetadata) []string {
	ids := make([]string, len(filings))
	for i, f := range filings {
		ids[i] = f.DocID
	}
	return ids
}

func TestFilterDropsUnsupportedTypes(t *testing.T) {
	got := FilterFilings(sampleFilings(), FilterOptions{})
	assert.Equal(t, []string{"D1", "D2", "D5"}, docIDs(got))
}

func TestFilterByDocTypeCode(t *testing.T) {
	got := FilterFilings(sampleFilings(), FilterOptions{DocTypeCodes: []string{"160", "350"}})
	assert.Equal(t, []string{"D1", "D5"}, docIDs(got))
}

func TestFilterAcrossFieldsIsConjunctive(t *testing.T) {
	got := FilterFilings(sampleFilings(), FilterOptions{
		DocTypeCodes: []string{"160", "180"},
		EdinetCodes:  []string{"E00001"},
	})
	assert.Equal(t, []string{"D1"}, docIDs(got))
}

func TestFilterMissingValueNeverMatches(t *testing.T) {
	// D2 has no sec code; a sec code filter must exclude it.
	got := FilterFilings(sampleFilings(), FilterOptions{SecCodes: []string{"79740", "67580"}})
	assert.Equal(t, []string{"D1", "D5"}, docIDs(got))
}

func TestFilterRequireSecCode(t *testing.T) {
	got := FilterFilings(sampleFilings(), FilterOptions{RequireSecCode: true})
	assert.Equal(t, []string{"D1", "D5"}, docIDs(got))
}

func TestFilterExcludedTypes(t *testing.T) {
	got := FilterFilings(sampleFilings(), FilterOptions{ExcludedDocTypeCodes: []string{"180"}})
	assert.Equal(t, []string{"D1", "D5"}, docIDs(got))
}

func TestFilterByFilerName(t *testing.T) {
	got := FilterFilings(sampleFilings(), FilterOptions{FilerNames: []string{"任天堂株式会社"}})
	assert.Equal(t, []string{"D1"}, docIDs(got))
}

func TestFilterEmptyInput(t *testing.T) {
	assert.Empty(t, FilterFilings(nil, FilterOptions{DocIDs: []string{"D1"}}))
}
