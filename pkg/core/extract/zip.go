package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"edinet_insights/pkg/core/edinet"
)

// ExtractionError reports that an archive yielded no usable CSV data.
type ExtractionError struct {
	DocID   string
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: document %s: %s", e.DocID, e.Message)
}

// Extractor unpacks filing archives and decodes their CSV members.
type Extractor struct {
	decoder *Decoder
	log     *zap.Logger
}

// NewExtractor builds an Extractor.
func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{decoder: NewDecoder(log), log: log}
}

// Extract decodes every usable CSV member of zipBytes into a Filing.
// Skipped members: macOS resource forks, auditor report files (jpaud
// prefix), and members no encoding can read. An archive where nothing
// survives is an ExtractionError.
func (e *Extractor) Extract(zipBytes []byte, meta edinet.FilingMetadata) (*edinet.Filing, error) {
	reader, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, &ExtractionError{DocID: meta.DocID, Message: fmt.Sprintf("not a zip archive: %v", err)}
	}

	var files []edinet.File
	for _, member := range reader.File {
		if !includeMember(member.Name) {
			continue
		}
		data, err := readMember(member)
		if err != nil {
			e.log.Warn("unreadable archive member",
				zap.String("doc_id", meta.DocID),
				zap.String("member", member.Name),
				zap.Error(err))
			continue
		}
		records := e.decoder.Decode(data, member.Name)
		if records == nil {
			continue
		}
		files = append(files, edinet.File{Filename: member.Name, Records: records})
	}

	if len(files) == 0 {
		return nil, &ExtractionError{DocID: meta.DocID, Message: "no decodable CSV members"}
	}
	return &edinet.Filing{Metadata: meta, Files: files}, nil
}

// includeMember keeps CSV members that are not macOS metadata and not
// auditor reports.
func includeMember(name string) bool {
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		return false
	}
	if strings.HasPrefix(name, "__MACOSX") || strings.Contains(name, "/__MACOSX/") {
		return false
	}
	if strings.HasPrefix(path.Base(name), "jpaud") {
		return false
	}
	return true
}

func readMember(member *zip.File) ([]byte, error) {
	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
