package edinet

import "fmt"

// AuthenticationError signals a rejected API key. It aborts an entire
// multi-date listing because every subsequent request would fail the same way.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("edinet: authentication failed (status %d): %s", e.StatusCode, e.Message)
}

// ConnectionError wraps a transport-level failure after retries.
type ConnectionError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("edinet: connection to %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatusError reports a non-retryable or final HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("edinet: request to %s returned status %d", e.URL, e.StatusCode)
}

// RetryExceededError reports that every attempt returned a retryable status.
type RetryExceededError struct {
	URL        string
	Attempts   int
	LastStatus int
}

func (e *RetryExceededError) Error() string {
	return fmt.Sprintf("edinet: %s still failing with status %d after %d attempts", e.URL, e.LastStatus, e.Attempts)
}

// DocumentFetchError reports that a document archive could not be retrieved.
type DocumentFetchError struct {
	DocID string
	Err   error
}

func (e *DocumentFetchError) Error() string {
	return fmt.Sprintf("edinet: fetching document %s: %v", e.DocID, e.Err)
}

func (e *DocumentFetchError) Unwrap() error { return e.Err }

// ValidationError reports invalid caller input, detected before any network
// activity.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "edinet: " + e.Message
}
