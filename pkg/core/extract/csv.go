// Package extract turns EDINET CSV archives into decoded records. Archive
// members arrive in a mix of encodings (UTF-16 with and without BOM is the
// norm, Shift-JIS appears in older filings), so decoding tries a detector
// guess first and then a fixed candidate list until one parses as a table.
package extract

import (
	"encoding/csv"
	"strings"

	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"edinet_insights/pkg/core/edinet"
)

// candidateEncodings is the fallback order when the detector guess fails.
// The permissive single-byte charsets go last: they decode anything.
var candidateEncodings = []string{
	"utf-16",
	"utf-16le",
	"utf-16be",
	"utf-8",
	"shift-jis",
	"euc-jp",
	"iso-8859-1",
	"windows-1252",
}

func encodingByName(name string) encoding.Encoding {
	switch name {
	case "utf-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "utf-8":
		return unicode.UTF8
	case "shift-jis":
		return japanese.ShiftJIS
	case "euc-jp":
		return japanese.EUCJP
	case "iso-8859-1":
		return charmap.ISO8859_1
	case "windows-1252":
		return charmap.Windows1252
	}
	return nil
}

// detectorNames maps chardet charset names onto our candidate names.
var detectorNames = map[string]string{
	"utf-16le":     "utf-16",
	"utf-16be":     "utf-16be",
	"utf-8":        "utf-8",
	"shift_jis":    "shift-jis",
	"euc-jp":       "euc-jp",
	"iso-8859-1":   "iso-8859-1",
	"windows-1252": "windows-1252",
}

// Decoder decodes raw CSV bytes into records.
type Decoder struct {
	detector *chardet.Detector
	log      *zap.Logger
}

// NewDecoder builds a Decoder.
func NewDecoder(log *zap.Logger) *Decoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{detector: chardet.NewTextDetector(), log: log}
}

// Decode tries each candidate encoding until the bytes decode cleanly and
// parse as a tab-separated table. Returns nil when no candidate works; a
// single undecodable member is not worth failing a whole archive over.
func (d *Decoder) Decode(data []byte, filename string) []edinet.Record {
	if len(data) == 0 {
		return nil
	}
	for _, name := range d.orderedCandidates(data) {
		text, ok := decodeAs(data, name)
		if !ok {
			continue
		}
		records, ok := parseTSV(text)
		if !ok {
			continue
		}
		d.log.Debug("decoded archive member",
			zap.String("file", filename),
			zap.String("encoding", name),
			zap.Int("records", len(records)))
		return records
	}
	d.log.Warn("no encoding produced a readable table", zap.String("file", filename))
	return nil
}

// orderedCandidates puts the detector's best guess first, then the fixed
// list, deduplicated.
func (d *Decoder) orderedCandidates(data []byte) []string {
	sample := data
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	ordered := make([]string, 0, len(candidateEncodings)+1)
	seen := make(map[string]bool)
	if best, err := d.detector.DetectBest(sample); err == nil && best != nil {
		if name, ok := detectorNames[strings.ToLower(best.Charset)]; ok {
			ordered = append(ordered, name)
			seen[name] = true
		}
	}
	for _, name := range candidateEncodings {
		if !seen[name] {
			ordered = append(ordered, name)
			seen[name] = true
		}
	}
	return ordered
}

// decodeAs decodes data as the named encoding. Replacement runes or embedded
// NULs mean the encoding was wrong.
func decodeAs(data []byte, name string) (string, bool) {
	enc := encodingByName(name)
	if enc == nil {
		return "", false
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	text := string(decoded)
	if strings.ContainsRune(text, '�') || strings.ContainsRune(text, '\x00') {
		return "", false
	}
	return text, true
}

// parseTSV parses tab-separated text into records keyed by header column.
// A parse only counts when there is a header with at least two columns and
// at least one data row.
func parseTSV(text string) ([]edinet.Record, bool) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, false
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, false
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([]edinet.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(edinet.Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = normalizeCell(row[i])
			} else {
				rec[col] = nil
			}
		}
		records = append(records, rec)
	}
	return records, true
}

// normalizeCell maps empty cells and the literal "NaN" to nil.
func normalizeCell(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" || trimmed == "NaN" {
		return nil
	}
	return &v
}
