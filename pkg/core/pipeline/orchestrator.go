// Package pipeline wires the disclosure flow end to end: list filings,
// download archives, decode and process them, then run LLM analysis and
// optionally persist the results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"edinet_insights/pkg/core/analysis"
	"edinet_insights/pkg/core/edinet"
	"edinet_insights/pkg/core/extract"
	"edinet_insights/pkg/core/llm"
	"edinet_insights/pkg/core/processors"
	"edinet_insights/pkg/core/store"
)

// ProcessedFiling is one filing after extraction, processing, and analysis.
type ProcessedFiling struct {
	Metadata edinet.FilingMetadata                `json:"metadata"`
	Record   *processors.StructuredDocumentRecord `json:"record"`
	Analyses map[string]string                    `json:"analyses,omitempty"`
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	RunID     uuid.UUID          `json:"run_id"`
	StartedAt time.Time          `json:"started_at"`
	Listed    int                `json:"listed"`
	Matched   int                `json:"matched"`
	Processed []*ProcessedFiling `json:"processed"`
	Failed    []string           `json:"failed"`
}

// Options configures an Orchestrator. Provider, Tools, and Repo are optional;
// without a provider the pipeline stops after structured extraction.
type Options struct {
	Client        *edinet.Client
	Provider      llm.Provider
	Tools         []analysis.Tool
	Repo          *store.DisclosureRepo
	AnalysisLimit int
	Log           *zap.Logger
}

// Orchestrator drives the disclosure pipeline.
type Orchestrator struct {
	client        *edinet.Client
	extractor     *extract.Extractor
	provider      llm.Provider
	tools         []analysis.Tool
	repo          *store.DisclosureRepo
	analysisLimit int
	log           *zap.Logger
}

// New builds an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("pipeline: client is required")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	limit := opts.AnalysisLimit
	if limit <= 0 {
		limit = 5
	}
	return &Orchestrator{
		client:        opts.Client,
		extractor:     extract.NewExtractor(log),
		provider:      opts.Provider,
		tools:         opts.Tools,
		repo:          opts.Repo,
		analysisLimit: limit,
		log:           log,
	}, nil
}

// MostRecentFilings walks back from today one day at a time until a day has
// filings matching opts, up to maxDaysBack days. Useful around weekends and
// holidays when nothing gets filed.
func (o *Orchestrator) MostRecentFilings(ctx context.Context, maxDaysBack int, opts edinet.FilterOptions) ([]edinet.FilingMetadata, time.Time, error) {
	if maxDaysBack <= 0 {
		return nil, time.Time{}, fmt.Errorf("pipeline: maxDaysBack must be positive, got %d", maxDaysBack)
	}
	day := time.Now()
	for i := 0; i < maxDaysBack; i++ {
		filings, err := o.client.FilingsForDate(ctx, day)
		if err != nil {
			var authErr *edinet.AuthenticationError
			if errors.As(err, &authErr) {
				return nil, time.Time{}, err
			}
			if ctx.Err() != nil {
				return nil, time.Time{}, ctx.Err()
			}
			o.log.Warn("skipping date after repeated failures",
				zap.String("date", day.Format("2006-01-02")), zap.Error(err))
			day = day.AddDate(0, 0, -1)
			continue
		}
		if matched := edinet.FilterFilings(filings, opts); len(matched) > 0 {
			return matched, day, nil
		}
		day = day.AddDate(0, 0, -1)
	}
	return nil, time.Time{}, nil
}

// ProcessFiling downloads, extracts, and processes a single filing into a
// structured record.
func (o *Orchestrator) ProcessFiling(ctx context.Context, meta edinet.FilingMetadata) (*processors.StructuredDocumentRecord, error) {
	zipBytes, err := o.client.GetZipBytes(ctx, meta.DocID)
	if err != nil {
		return nil, err
	}
	filing, err := o.extractor.Extract(zipBytes, meta)
	if err != nil {
		return nil, err
	}
	docTypeCode := ""
	if meta.DocTypeCode != nil {
		docTypeCode = *meta.DocTypeCode
	}
	return processors.Process(filing.Files, meta.DocID, docTypeCode, o.log), nil
}

// Analyze runs every configured tool over a record. A failing tool is logged
// and omitted from the result rather than failing the filing.
func (o *Orchestrator) Analyze(ctx context.Context, rec *processors.StructuredDocumentRecord) map[string]string {
	if o.provider == nil || len(o.tools) == 0 {
		return nil
	}
	analyses := make(map[string]string)
	for _, tool := range o.tools {
		out, err := tool.Analyze(ctx, o.provider, rec)
		if err != nil {
			o.log.Warn("analysis tool failed",
				zap.String("tool", tool.Name()),
				zap.String("doc_id", rec.DocID),
				zap.Error(err))
			continue
		}
		analyses[tool.Name()] = out
	}
	return analyses
}

// Run executes the full pipeline: list the lookback window, filter, then
// process and analyze up to the analysis limit. Individual filing failures
// are recorded and skipped.
func (o *Orchestrator) Run(ctx context.Context, lookbackDays int, opts edinet.FilterOptions) (*RunResult, error) {
	result := &RunResult{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
	}
	o.log.Info("pipeline run started",
		zap.String("run_id", result.RunID.String()),
		zap.Int("lookback_days", lookbackDays))

	filings, err := o.client.ListRecentFilings(ctx, lookbackDays)
	if err != nil {
		return nil, err
	}
	result.Listed = len(filings)

	matched := edinet.FilterFilings(filings, opts)
	result.Matched = len(matched)
	if len(matched) > o.analysisLimit {
		matched = matched[:o.analysisLimit]
	}

	for _, meta := range matched {
		processed, err := o.processAndAnalyze(ctx, result.RunID, meta)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			o.log.Warn("filing failed", zap.String("doc_id", meta.DocID), zap.Error(err))
			result.Failed = append(result.Failed, meta.DocID)
			continue
		}
		result.Processed = append(result.Processed, processed)
	}

	o.log.Info("pipeline run finished",
		zap.String("run_id", result.RunID.String()),
		zap.Int("processed", len(result.Processed)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

func (o *Orchestrator) processAndAnalyze(ctx context.Context, runID uuid.UUID, meta edinet.FilingMetadata) (*ProcessedFiling, error) {
	rec, err := o.ProcessFiling(ctx, meta)
	if err != nil {
		return nil, err
	}
	processed := &ProcessedFiling{
		Metadata: meta,
		Record:   rec,
		Analyses: o.Analyze(ctx, rec),
	}
	if o.repo != nil {
		if err := o.repo.Save(ctx, runID, rec, processed.Analyses); err != nil {
			o.log.Warn("persisting record failed", zap.String("doc_id", rec.DocID), zap.Error(err))
		}
	}
	return processed, nil
}

// CompanyDateRange processes every filing by one company over a date range,
// optionally restricted to specific document type codes.
func (o *Orchestrator) CompanyDateRange(ctx context.Context, edinetCode string, start, end time.Time, docTypeCodes []string) ([]*ProcessedFiling, error) {
	if edinetCode == "" {
		return nil, fmt.Errorf("pipeline: EDINET code is required")
	}
	filings, err := o.client.ListFilings(ctx, start, end)
	if err != nil {
		return nil, err
	}
	matched := edinet.FilterFilings(filings, edinet.FilterOptions{
		EdinetCodes:  []string{edinetCode},
		DocTypeCodes: docTypeCodes,
	})

	runID := uuid.New()
	var out []*ProcessedFiling
	for _, meta := range matched {
		processed, err := o.processAndAnalyze(ctx, runID, meta)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			o.log.Warn("filing failed", zap.String("doc_id", meta.DocID), zap.Error(err))
			continue
		}
		out = append(out, processed)
	}
	return out, nil
}

// ProcessZipDirectory processes previously downloaded archives named
// {docID}-{docTypeCode}-{filerName}.zip. Files that do not match the naming
// scheme or fail to process are skipped with a warning. Non-empty
// docTypeCodes or docIDs narrow the run to matching archives.
func (o *Orchestrator) ProcessZipDirectory(ctx context.Context, dir string, docTypeCodes, docIDs []string) ([]*ProcessedFiling, error) {
	wantType := make(map[string]bool, len(docTypeCodes))
	for _, code := range docTypeCodes {
		wantType[code] = true
	}
	wantID := make(map[string]bool, len(docIDs))
	for _, id := range docIDs {
		wantID[id] = true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reading %s: %w", dir, err)
	}

	var out []*ProcessedFiling
	for _, entry := range entries {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".zip") {
			continue
		}
		meta, ok := metadataFromFilename(entry.Name())
		if !ok {
			o.log.Warn("skipping archive with unrecognized name", zap.String("file", entry.Name()))
			continue
		}
		if len(wantType) > 0 && !wantType[*meta.DocTypeCode] {
			continue
		}
		if len(wantID) > 0 && !wantID[meta.DocID] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			o.log.Warn("reading archive failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		filing, err := o.extractor.Extract(data, meta)
		if err != nil {
			o.log.Warn("extracting archive failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		rec := processors.Process(filing.Files, meta.DocID, *meta.DocTypeCode, o.log)
		out = append(out, &ProcessedFiling{
			Metadata: meta,
			Record:   rec,
			Analyses: o.Analyze(ctx, rec),
		})
	}
	return out, nil
}

// metadataFromFilename reverses the download naming scheme. Filer names may
// themselves contain hyphens, so only the first two separators count.
func metadataFromFilename(name string) (edinet.FilingMetadata, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return edinet.FilingMetadata{}, false
	}
	return edinet.FilingMetadata{
		DocID:       parts[0],
		DocTypeCode: &parts[1],
		FilerName:   &parts[2],
	}, true
}
