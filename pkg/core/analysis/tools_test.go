package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edinet_insights/pkg/core/processors"
)

// fakeProvider replays a canned response and records the last request.
type fakeProvider struct {
	response   string
	err        error
	lastPrompt string
	lastSystem string
	lastOpts   map[string]interface{}
}

func (f *fakeProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	f.lastPrompt = prompt
	f.lastSystem = systemPrompt
	f.lastOpts = options
	return f.response, f.err
}

func ptr(s string) *string { return &s }

func sampleRecord() *processors.StructuredDocumentRecord {
	return &processors.StructuredDocumentRecord{
		DocID:         "S100TEST",
		DocTypeCode:   "160",
		CompanyNameJA: ptr("ソニーグループ株式会社"),
		CompanyNameEN: ptr("Sony Group Corporation"),
		DocumentType:  ptr("半期報告書"),
		KeyFacts: map[string]any{
			"OrdinaryIncome": processors.FactPair{Current: ptr("1000"), Prior: ptr("800")},
		},
		FinancialTables: []processors.FinancialTable{},
		TextBlocks: []processors.TextBlock{
			{ID: "jpcrp_cor:BusinessRisksTextBlock", Title: "Business Risks", Content: "<p>為替変動のリスク</p>"},
		},
	}
}

func TestOneLinerTool(t *testing.T) {
	provider := &fakeProvider{
		response: `{"company_name_en":"Sony Group Corporation","summary":"Filed its semi-annual report showing higher ordinary income."}`,
	}

	out, err := (&OneLinerTool{}).Analyze(context.Background(), provider, sampleRecord())
	require.NoError(t, err)

	var parsed OneLineSummary
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "Sony Group Corporation", parsed.CompanyNameEN)

	assert.Contains(t, provider.lastPrompt, "Sony Group Corporation")
	assert.Contains(t, provider.lastPrompt, "OrdinaryIncome")
	assert.Contains(t, provider.lastPrompt, "為替変動のリスク")
	assert.NotContains(t, provider.lastPrompt, "<p>")
	assert.Contains(t, provider.lastSystem, "JSON")
}

func TestOneLinerToolRepairsSloppyOutput(t *testing.T) {
	provider := &fakeProvider{
		response: "```json\n{\"company_name_en\": \"Sony Group Corporation\", \"summary\": \"Earnings update.\",}\n```",
	}

	out, err := (&OneLinerTool{}).Analyze(context.Background(), provider, sampleRecord())
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestOneLinerToolUnusableOutput(t *testing.T) {
	provider := &fakeProvider{response: "I cannot summarize this filing."}

	_, err := (&OneLinerTool{}).Analyze(context.Background(), provider, sampleRecord())
	assert.Error(t, err)
}

func TestOneLinerToolProviderError(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("rate limited")}

	_, err := (&OneLinerTool{}).Analyze(context.Background(), provider, sampleRecord())
	assert.Error(t, err)
}

func TestOneLinerToolLimitsBlocks(t *testing.T) {
	rec := sampleRecord()
	rec.TextBlocks = nil
	for i := 0; i < 6; i++ {
		rec.TextBlocks = append(rec.TextBlocks, processors.TextBlock{
			ID:      fmt.Sprintf("block%d", i),
			Title:   fmt.Sprintf("Section %d", i),
			Content: strings.Repeat("あ", 900),
		})
	}
	provider := &fakeProvider{response: `{"company_name_en":"X","summary":"Y"}`}

	_, err := (&OneLinerTool{}).Analyze(context.Background(), provider, rec)
	require.NoError(t, err)

	assert.Contains(t, provider.lastPrompt, "Section 2")
	assert.NotContains(t, provider.lastPrompt, "Section 3")
	assert.LessOrEqual(t, len([]rune(provider.lastPrompt)), maxPromptChars+3)
}

func TestExecutiveSummaryTool(t *testing.T) {
	provider := &fakeProvider{
		response: `{"company_name_en":"Sony Group Corporation","summary":"Solid first half.","key_highlights":["Income up 25%","Stable net assets"]}`,
	}

	out, err := (&ExecutiveSummaryTool{}).Analyze(context.Background(), provider, sampleRecord())
	require.NoError(t, err)

	var parsed ExecutiveSummary
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed.KeyHighlights, 2)
	assert.Contains(t, provider.lastSystem, "key_highlights")
}

func TestToolModelOverride(t *testing.T) {
	provider := &fakeProvider{response: `{"company_name_en":"X","summary":"Y"}`}

	_, err := (&OneLinerTool{Model: "gpt-4-turbo"}).Analyze(context.Background(), provider, sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo", provider.lastOpts["model"])

	format, ok := provider.lastOpts["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestRegistry(t *testing.T) {
	reg := Registry()
	require.Contains(t, reg, "one_line_summary")
	require.Contains(t, reg, "executive_summary")
	assert.Equal(t, "one_line_summary", reg["one_line_summary"].Name())
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "為替変動の リスク", StripHTML("<div><p>為替変動の　リスク</p></div>"))
	assert.Equal(t, "plain text", StripHTML("plain text"))
}

func TestLoadToolsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := "active_provider: gemini\ntools:\n  one_line_summary:\n    model: gemini-2.0-flash-exp\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadToolsConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.ActiveProvider)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.ModelFor("one_line_summary"))
	assert.Equal(t, "", cfg.ModelFor("executive_summary"))
}

func TestLoadToolsConfigMissingFile(t *testing.T) {
	cfg, err := LoadToolsConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.ActiveProvider)
}
