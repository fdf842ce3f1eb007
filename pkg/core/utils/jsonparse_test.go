package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summaryPayload struct {
	CompanyNameEN string `json:"company_name_en"`
	Summary       string `json:"summary"`
}

func TestSmartParseStrictJSON(t *testing.T) {
	var out summaryPayload
	err := SmartParse(`{"company_name_en":"Sony Group Corporation","summary":"Filed a semi-annual report."}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "Sony Group Corporation", out.CompanyNameEN)
}

func TestSmartParseRepairsFencedOutput(t *testing.T) {
	input := "```json\n{\"company_name_en\": \"Nintendo Co., Ltd.\", \"summary\": \"Earnings update.\",}\n```"
	var out summaryPayload
	err := SmartParse(input, &out)
	require.NoError(t, err)
	assert.Equal(t, "Nintendo Co., Ltd.", out.CompanyNameEN)
}

func TestSmartParseHjsonFallback(t *testing.T) {
	input := "{\n  # analyst output\n  company_name_en: Rakuten Group\n  summary: Raised new debt\n}"
	var out summaryPayload
	err := SmartParse(input, &out)
	require.NoError(t, err)
	assert.Equal(t, "Rakuten Group", out.CompanyNameEN)
}

func TestSmartParseGarbage(t *testing.T) {
	var out summaryPayload
	err := SmartParse("not even close to json [[[", &out)
	assert.Error(t, err)
}

func TestRepairJSONTrailingComma(t *testing.T) {
	repaired, err := RepairJSON(`{"a": 1,}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, repaired)
}

func TestCleanMarkdown(t *testing.T) {
	assert.Equal(t, "# Report", CleanMarkdown("```markdown\n# Report\n```"))
	assert.Equal(t, "plain text", CleanMarkdown("  plain text  "))
	assert.Equal(t, `{"a":1}`, CleanMarkdown("```json\n{\"a\":1}\n```"))
}

func TestValidateMarkdown(t *testing.T) {
	assert.True(t, ValidateMarkdown("# heading\n\nparagraph"))
	assert.True(t, ValidateMarkdown(""))
}
