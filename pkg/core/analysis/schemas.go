// Package analysis generates LLM summaries of structured filing records.
package analysis

// OneLineSummary is the JSON schema the one-liner tool asks the model for.
type OneLineSummary struct {
	CompanyNameEN string `json:"company_name_en"`
	Summary       string `json:"summary"`
}

// ExecutiveSummary is the JSON schema of the executive summary tool.
type ExecutiveSummary struct {
	CompanyNameEN            string   `json:"company_name_en"`
	CompanyDescriptionShort  string   `json:"company_description_short,omitempty"`
	Summary                  string   `json:"summary"`
	KeyHighlights            []string `json:"key_highlights"`
	PotentialImpactRationale string   `json:"potential_impact_rationale,omitempty"`
}
