package edinet

// FilterOptions narrows a filing list. Within a field the values are
// alternatives; across fields every populated field must match. Empty fields
// match everything.
type FilterOptions struct {
	DocIDs               []string
	EdinetCodes          []string
	SecCodes             []string
	FilerNames           []string
	FormCodes            []string
	DocTypeCodes         []string
	DocDescriptions      []string
	ExcludedDocTypeCodes []string
	RequireSecCode       bool
}

// FilterFilings returns the filings matching opts. Filings whose document
// type code is missing or unsupported are always dropped, independent of the
// options.
func FilterFilings(filings []FilingMetadata, opts FilterOptions) []FilingMetadata {
	var out []FilingMetadata
	for _, f := range filings {
		if f.DocTypeCode == nil {
			continue
		}
		if _, ok := SupportedDocTypes[*f.DocTypeCode]; !ok {
			continue
		}
		if contains(opts.ExcludedDocTypeCodes, f.DocTypeCode) {
			continue
		}
		if opts.RequireSecCode && (f.SecCode == nil || *f.SecCode == "") {
			continue
		}
		if !matchesValue(opts.DocIDs, &f.DocID) {
			continue
		}
		if !matchesValue(opts.EdinetCodes, f.EdinetCode) {
			continue
		}
		if !matchesValue(opts.SecCodes, f.SecCode) {
			continue
		}
		if !matchesValue(opts.FilerNames, f.FilerName) {
			continue
		}
		if !matchesValue(opts.FormCodes, f.FormCode) {
			continue
		}
		if !matchesValue(opts.DocTypeCodes, f.DocTypeCode) {
			continue
		}
		if !matchesValue(opts.DocDescriptions, f.DocDescription) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// matchesValue treats an empty wanted list as a wildcard. A populated list
// never matches a missing value.
func matchesValue(wanted []string, value *string) bool {
	if len(wanted) == 0 {
		return true
	}
	return contains(wanted, value)
}

func contains(values []string, v *string) bool {
	if v == nil {
		return false
	}
	for _, candidate := range values {
		if candidate == *v {
			return true
		}
	}
	return false
}
