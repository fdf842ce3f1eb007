// Package edinet is a client for the EDINET disclosure API v2: daily filing
// listings, filtering, and document archive downloads, with a file cache in
// front of both endpoints.
package edinet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"edinet_insights/pkg/core/cache"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Message: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", s)}
	}
	return t, nil
}

// dayStart drops the time of day while keeping the calendar date in the
// value's own location. Truncate would round against UTC and shift dates
// east of Greenwich.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ClientConfig collects the knobs for a Client.
type ClientConfig struct {
	APIKey         string
	MaxRetries     int
	DelaySeconds   int
	TimeoutSeconds int
	DownloadDir    string
	CacheDir       string
	EnableCache    bool
	FilingsTTL     time.Duration
	DocumentsTTL   time.Duration

	// Endpoint overrides, empty for production.
	ListBaseURL     string
	DocumentBaseURL string
}

// Client talks to the EDINET API. Listing requests that fail with a transport
// error skip that date; an authentication failure aborts the whole range.
type Client struct {
	apiKey       string
	fetcher      *Fetcher
	cache        *cache.Store
	filingsTTL   time.Duration
	documentsTTL time.Duration
	downloadDir  string
	listBaseURL  string
	docBaseURL   string
	log          *zap.Logger
}

// NewClient builds a Client. The cache is optional; with EnableCache false
// every call goes to the network.
func NewClient(cfg ClientConfig, log *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &ValidationError{Message: "API key must not be empty"}
	}
	if log == nil {
		log = zap.NewNop()
	}
	fetcher, err := NewFetcher(
		cfg.MaxRetries,
		time.Duration(cfg.DelaySeconds)*time.Second,
		time.Duration(cfg.TimeoutSeconds)*time.Second,
		log,
	)
	if err != nil {
		return nil, err
	}

	c := &Client{
		apiKey:       cfg.APIKey,
		fetcher:      fetcher,
		filingsTTL:   cfg.FilingsTTL,
		documentsTTL: cfg.DocumentsTTL,
		downloadDir:  cfg.DownloadDir,
		listBaseURL:  ListBaseURL,
		docBaseURL:   DocumentBaseURL,
		log:          log,
	}
	if cfg.ListBaseURL != "" {
		c.listBaseURL = cfg.ListBaseURL
	}
	if cfg.DocumentBaseURL != "" {
		c.docBaseURL = cfg.DocumentBaseURL
	}
	if cfg.EnableCache {
		store, err := cache.New(cfg.CacheDir, cfg.FilingsTTL, log)
		if err != nil {
			return nil, err
		}
		c.cache = store
	}
	return c, nil
}

// ListFilings returns the filings submitted on each date in [start, end],
// inclusive, in date order. Dates that fail with transport or server errors
// are skipped with a warning; an authentication failure aborts immediately.
func (c *Client) ListFilings(ctx context.Context, start, end time.Time) ([]FilingMetadata, error) {
	start = dayStart(start)
	end = dayStart(end)
	if start.After(end) {
		return nil, &ValidationError{Message: fmt.Sprintf(
			"start date %s is after end date %s",
			start.Format(dateLayout), end.Format(dateLayout))}
	}

	var all []FilingMetadata
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		filings, err := c.FilingsForDate(ctx, d)
		if err != nil {
			var authErr *AuthenticationError
			if errors.As(err, &authErr) {
				return nil, err
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn("skipping date after repeated failures",
				zap.String("date", d.Format(dateLayout)),
				zap.Error(err))
			continue
		}
		all = append(all, filings...)
	}
	return all, nil
}

// ListRecentFilings lists the last lookbackDays days ending today.
func (c *Client) ListRecentFilings(ctx context.Context, lookbackDays int) ([]FilingMetadata, error) {
	if lookbackDays <= 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("lookback days must be positive, got %d", lookbackDays)}
	}
	end := time.Now()
	start := end.AddDate(0, 0, -(lookbackDays - 1))
	return c.ListFilings(ctx, start, end)
}

// FilingsForDate fetches one day's listing, cache first. Responses are cached
// whether or not they contain results so that empty days are not refetched.
func (c *Client) FilingsForDate(ctx context.Context, date time.Time) ([]FilingMetadata, error) {
	dateStr := date.Format(dateLayout)
	cacheKey := fmt.Sprintf("filings:%s:%s", dateStr, ListTypeMetadata)

	body, fromCache := c.cachedJSON(cacheKey, c.filingsTTL)
	if !fromCache {
		var err error
		body, err = c.fetcher.Fetch(ctx, c.listURL(dateStr))
		if err != nil {
			return nil, err
		}
		// Cached before classification so error-shaped bodies are not
		// refetched every run either.
		if c.cache != nil {
			c.cache.SetJSON(cacheKey, body)
		}
	}
	return parseListBody(body)
}

// parseListBody distinguishes a results payload from an auth error payload.
// A 200 response whose JSON body lacks the results key is how EDINET reports
// a bad subscription key.
func parseListBody(body []byte) ([]FilingMetadata, error) {
	var envelope struct {
		Results *json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("edinet: decoding listing response: %w", err)
	}
	if envelope.Results == nil {
		var apiErr struct {
			StatusCode int    `json:"statusCode"`
			Message    string `json:"message"`
		}
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = "response has no results"
		}
		return nil, &AuthenticationError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}

	var resp ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("edinet: decoding listing results: %w", err)
	}
	for i := range resp.Results {
		resp.Results[i].normalize()
	}
	return resp.Results, nil
}

// GetZipBytes returns the CSV archive for docID, cache first. An empty
// archive body is treated as a fetch failure.
func (c *Client) GetZipBytes(ctx context.Context, docID string) ([]byte, error) {
	if docID == "" {
		return nil, &ValidationError{Message: "document ID must not be empty"}
	}
	cacheKey := fmt.Sprintf("document:%s:%s", docID, DocumentTypeCSV)
	if c.cache != nil {
		if data, ok := c.cache.GetBinary(cacheKey, c.documentsTTL); ok {
			return data, nil
		}
	}

	data, err := c.fetcher.Fetch(ctx, c.documentURL(docID))
	if err != nil {
		return nil, &DocumentFetchError{DocID: docID, Err: err}
	}
	if len(data) == 0 {
		return nil, &DocumentFetchError{DocID: docID, Err: fmt.Errorf("empty response body")}
	}
	if c.cache != nil {
		c.cache.SetBinary(cacheKey, data)
	}
	return data, nil
}

// DownloadFilings saves each filing's archive under the download directory as
// {docID}-{docTypeCode}-{filerName}.zip. Filings missing any of those fields
// are skipped with a warning, as are files that already exist on disk.
// Failures do not stop the batch. Returns the paths written.
func (c *Client) DownloadFilings(ctx context.Context, filings []FilingMetadata) ([]string, error) {
	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("edinet: creating download directory: %w", err)
	}

	var saved []string
	for _, f := range filings {
		if ctx.Err() != nil {
			return saved, ctx.Err()
		}
		if f.DocID == "" || f.DocTypeCode == nil || f.FilerName == nil {
			c.log.Warn("skipping filing with incomplete metadata", zap.String("doc_id", f.DocID))
			continue
		}
		filename := fmt.Sprintf("%s-%s-%s.zip", f.DocID, *f.DocTypeCode, *f.FilerName)
		dest := filepath.Join(c.downloadDir, filename)
		if _, err := os.Stat(dest); err == nil {
			c.log.Debug("already downloaded", zap.String("file", filename))
			saved = append(saved, dest)
			continue
		}

		data, err := c.GetZipBytes(ctx, f.DocID)
		if err != nil {
			c.log.Warn("download failed", zap.String("doc_id", f.DocID), zap.Error(err))
			continue
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			c.log.Warn("saving archive failed", zap.String("file", filename), zap.Error(err))
			continue
		}
		c.log.Info("downloaded filing",
			zap.String("doc_id", f.DocID),
			zap.String("filer", *f.FilerName),
			zap.Int("bytes", len(data)))
		saved = append(saved, dest)
	}
	return saved, nil
}

// SaveBytes writes data to the download directory under filename.
func (c *Client) SaveBytes(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("edinet: creating download directory: %w", err)
	}
	dest := filepath.Join(c.downloadDir, filename)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("edinet: writing %s: %w", dest, err)
	}
	return dest, nil
}

// ClearCache drops every cached entry and returns the count removed.
func (c *Client) ClearCache() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.ClearAll()
}

// ClearExpiredCache drops entries older than the document TTL.
func (c *Client) ClearExpiredCache() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.ClearExpired(c.documentsTTL)
}

// CacheStats reports the cache state; zero stats when caching is disabled.
func (c *Client) CacheStats() cache.Stats {
	if c.cache == nil {
		return cache.Stats{}
	}
	return c.cache.Stats()
}

func (c *Client) cachedJSON(key string, ttl time.Duration) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.GetJSON(key, ttl)
}

func (c *Client) listURL(date string) string {
	q := url.Values{}
	q.Set("date", date)
	q.Set("type", ListTypeMetadata)
	q.Set("Subscription-Key", c.apiKey)
	return c.listBaseURL + "?" + q.Encode()
}

func (c *Client) documentURL(docID string) string {
	q := url.Values{}
	q.Set("type", DocumentTypeCSV)
	q.Set("Subscription-Key", c.apiKey)
	return fmt.Sprintf("%s/%s?%s", c.docBaseURL, docID, q.Encode())
}
