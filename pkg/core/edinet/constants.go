package edinet

// EDINET API v2 endpoints. The listing host and the document host differ.
const (
	ListBaseURL     = "https://disclosure.edinet-fsa.go.jp/api/v2/documents.json"
	DocumentBaseURL = "https://api.edinet-fsa.go.jp/api/v2/documents"
)

// Listing request types. Type 2 includes the full metadata for each filing;
// type 1 returns counts only.
const (
	ListTypeCountOnly = "1"
	ListTypeMetadata  = "2"
)

// DocumentTypeCSV requests the CSV rendition of a filing archive.
const DocumentTypeCSV = "5"

// SupportedDocTypes maps EDINET document type codes to human-readable names.
// Filings outside this set are dropped during filtering.
var SupportedDocTypes = map[string]string{
	"030": "Securities Registration Statement",
	"120": "Securities Report",
	"140": "Quarterly Report",
	"160": "Semi-Annual Report",
	"180": "Extraordinary Report",
	"350": "Large Holding Report",
}
