package edinet

// FilingMetadata is one entry from the EDINET daily listing endpoint. Fields
// the API reports as null are pointers; flag fields arrive as "0"/"1" strings.
type FilingMetadata struct {
	SeqNumber            int     `json:"seqNumber"`
	DocID                string  `json:"docID"`
	EdinetCode           *string `json:"edinetCode"`
	SecCode              *string `json:"secCode"`
	JCN                  *string `json:"JCN"`
	FilerName            *string `json:"filerName"`
	FundCode             *string `json:"fundCode"`
	OrdinanceCode        *string `json:"ordinanceCode"`
	FormCode             *string `json:"formCode"`
	DocTypeCode          *string `json:"docTypeCode"`
	PeriodStart          *string `json:"periodStart"`
	PeriodEnd            *string `json:"periodEnd"`
	SubmitDateTime       *string `json:"submitDateTime"`
	DocDescription       *string `json:"docDescription"`
	IssuerEdinetCode     *string `json:"issuerEdinetCode"`
	SubjectEdinetCode    *string `json:"subjectEdinetCode"`
	SubsidiaryEdinetCode *string `json:"subsidiaryEdinetCode"`
	CurrentReportReason  *string `json:"currentReportReason"`
	ParentDocID          *string `json:"parentDocID"`
	OpeDateTime          *string `json:"opeDateTime"`
	WithdrawalStatus     string  `json:"withdrawalStatus"`
	DocInfoEditStatus    string  `json:"docInfoEditStatus"`
	DisclosureStatus     string  `json:"disclosureStatus"`
	XBRLFlag             string  `json:"xbrlFlag"`
	PDFFlag              string  `json:"pdfFlag"`
	AttachDocFlag        string  `json:"attachDocFlag"`
	EnglishDocFlag       string  `json:"englishDocFlag"`
	CSVFlag              string  `json:"csvFlag"`
	LegalStatus          string  `json:"legalStatus"`
}

// normalize cleans the free-text fields in place.
func (m *FilingMetadata) normalize() {
	m.FilerName = CleanTextPtr(m.FilerName)
	m.DocDescription = CleanTextPtr(m.DocDescription)
	m.CurrentReportReason = CleanTextPtr(m.CurrentReportReason)
}

// ListResponse is the envelope of the daily listing endpoint.
type ListResponse struct {
	Metadata map[string]any   `json:"metadata"`
	Results  []FilingMetadata `json:"results"`
}

// Record is one row of a filing CSV keyed by header column. Values are
// nullable: empty cells and "NaN" normalize to nil during decoding.
type Record map[string]*string

// XBRL CSV column headers as they appear in EDINET archives.
const (
	ColElementID    = "要素ID"
	ColItemName     = "項目名"
	ColContextID    = "コンテキストID"
	ColRelativeYear = "相対年度"
	ColConsolidated = "連結・個別"
	ColPeriodKind   = "期間・時点"
	ColUnitID       = "ユニットID"
	ColUnit         = "単位"
	ColValue        = "値"
)

// File is one decoded CSV member of a filing archive.
type File struct {
	Filename string
	Records  []Record
}

// Filing pairs listing metadata with the decoded contents of its archive.
type Filing struct {
	Metadata FilingMetadata
	Files    []File
}

// Filenames lists the decoded members in archive order.
func (f *Filing) Filenames() []string {
	names := make([]string, len(f.Files))
	for i, file := range f.Files {
		names[i] = file.Filename
	}
	return names
}

// Data returns the records of every file concatenated in archive order.
func (f *Filing) Data() []Record {
	var records []Record
	for _, file := range f.Files {
		records = append(records, file.Records...)
	}
	return records
}
