package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"edinet_insights/pkg/core/llm"
	"edinet_insights/pkg/core/processors"
	"edinet_insights/pkg/core/utils"
)

// Tool is one analysis pass over a structured document record. Analyze
// returns a JSON string matching the tool's schema.
type Tool interface {
	Name() string
	Analyze(ctx context.Context, provider llm.Provider, rec *processors.StructuredDocumentRecord) (string, error)
}

// Registry returns the built-in tools keyed by name.
func Registry() map[string]Tool {
	return map[string]Tool{
		"one_line_summary":  &OneLinerTool{},
		"executive_summary": &ExecutiveSummaryTool{},
	}
}

// OneLinerTool produces a single-sentence summary of a filing.
type OneLinerTool struct {
	Model string
}

func (t *OneLinerTool) Name() string { return "one_line_summary" }

func (t *OneLinerTool) Analyze(ctx context.Context, provider llm.Provider, rec *processors.StructuredDocumentRecord) (string, error) {
	systemPrompt := fmt.Sprintf(
		"You are a financial analyst covering Japanese corporate disclosures. "+
			"Respond with a JSON object containing company_name_en and summary. "+
			"The summary must be a single sentence of at most %d words stating what was disclosed and why it matters.",
		oneLinerWordCap)

	prompt := capPrompt(documentHeader(rec) + keyFactsSection(rec) + textBlocksSection(rec, maxOneLinerBlocks))
	return runTool(ctx, provider, t.Model, prompt, systemPrompt, &OneLineSummary{})
}

// ExecutiveSummaryTool produces a short structured brief of a filing.
type ExecutiveSummaryTool struct {
	Model string
}

func (t *ExecutiveSummaryTool) Name() string { return "executive_summary" }

func (t *ExecutiveSummaryTool) Analyze(ctx context.Context, provider llm.Provider, rec *processors.StructuredDocumentRecord) (string, error) {
	systemPrompt := fmt.Sprintf(
		"You are a financial analyst covering Japanese corporate disclosures. "+
			"Respond with a JSON object containing company_name_en, company_description_short "+
			"(at most %d words), summary (at most %d words), key_highlights (3 to 5 bullet strings), "+
			"and potential_impact_rationale.",
		descriptionWordCap, summaryWordCap)

	prompt := capPrompt(documentHeader(rec) + keyFactsSection(rec) + textBlocksSection(rec, 0))
	return runTool(ctx, provider, t.Model, prompt, systemPrompt, &ExecutiveSummary{})
}

// runTool executes the completion and re-emits the model's answer as
// canonical JSON after lenient parsing into schema.
func runTool(ctx context.Context, provider llm.Provider, model, prompt, systemPrompt string, schema interface{}) (string, error) {
	options := map[string]interface{}{
		"response_format": llm.JSONResponseFormat(),
	}
	if model != "" {
		options["model"] = model
	}

	raw, err := provider.GenerateResponse(ctx, prompt, systemPrompt, options)
	if err != nil {
		return "", err
	}
	if err := utils.SmartParse(utils.CleanMarkdown(raw), schema); err != nil {
		return "", fmt.Errorf("analysis: unusable model output: %w", err)
	}
	canonical, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("analysis: encoding result: %w", err)
	}
	return string(canonical), nil
}
