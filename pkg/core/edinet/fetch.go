package edinet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Fetcher issues HTTP GETs with fixed-delay retry. Any status in [400, 600)
// counts as retryable because EDINET intermittently returns 4xx for transient
// conditions; out-of-range statuses below 400 other than 200 fail immediately.
type Fetcher struct {
	client     *http.Client
	maxRetries int
	delay      time.Duration
	log        *zap.Logger
}

// NewFetcher validates the retry policy up front.
func NewFetcher(maxRetries int, delay, timeout time.Duration, log *zap.Logger) (*Fetcher, error) {
	if maxRetries < 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("maxRetries must be non-negative, got %d", maxRetries)}
	}
	if delay < 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("retry delay must be non-negative, got %v", delay)}
	}
	if timeout <= 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("timeout must be positive, got %v", timeout)}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		delay:      delay,
		log:        log,
	}, nil
}

func retryableStatus(code int) bool {
	return code >= 400 && code < 600
}

// Fetch GETs url and returns the response body. Retryable statuses and
// transport errors are retried up to maxRetries attempts with a fixed delay;
// context cancellation interrupts the wait.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastStatus int
	var lastErr error

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		body, status, err := f.once(ctx, url)
		if err == nil && status == http.StatusOK {
			return body, nil
		}
		if err != nil {
			lastErr = err
			f.log.Warn("request failed",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(err))
		} else {
			lastStatus = status
			if !retryableStatus(status) {
				return nil, &StatusError{URL: url, StatusCode: status}
			}
			f.log.Warn("retryable status",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Int("status", status))
		}
		if attempt < f.maxRetries {
			if err := f.sleep(ctx); err != nil {
				return nil, err
			}
		}
	}

	if lastErr != nil {
		return nil, &ConnectionError{URL: url, Attempts: f.maxRetries, Err: lastErr}
	}
	return nil, &RetryExceededError{URL: url, Attempts: f.maxRetries, LastStatus: lastStatus}
}

func (f *Fetcher) once(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (f *Fetcher) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.delay):
		return nil
	}
}
