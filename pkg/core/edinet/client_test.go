package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func listingBody(t *testing.T, filings []FilingMetadata) []byte {
	t.Helper()
	body, err := json.Marshal(ListResponse{
		Metadata: map[string]any{"status": "200"},
		Results:  filings,
	})
	require.NoError(t, err)
	return body
}

func newTestClient(t *testing.T, srv *httptest.Server, enableCache bool) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{
		APIKey:         "test-subscription-key",
		MaxRetries:     2,
		DelaySeconds:   0,
		TimeoutSeconds: 5,
		DownloadDir:    t.TempDir(),
		CacheDir:       t.TempDir(),
		EnableCache:    enableCache,
		FilingsTTL:     time.Hour,
		DocumentsTTL:   time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)
	c.listBaseURL = srv.URL + "/documents.json"
	c.docBaseURL = srv.URL + "/documents"
	return c
}

func TestListFilingsFetchesEachDate(t *testing.T) {
	var dates []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dates = append(dates, r.URL.Query().Get("date"))
		assert.Equal(t, "2", r.URL.Query().Get("type"))
		assert.Equal(t, "test-subscription-key", r.URL.Query().Get("Subscription-Key"))
		w.Write(listingBody(t, []FilingMetadata{{
			DocID:       fmt.Sprintf("S100%s", r.URL.Query().Get("date")),
			DocTypeCode: strPtr("160"),
			FilerName:   strPtr("テスト株式会社"),
		}}))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	start, _ := ParseDate("2024-06-01")
	end, _ := ParseDate("2024-06-03")

	filings, err := c.ListFilings(context.Background(), start, end)
	require.NoError(t, err)
	assert.Len(t, filings, 3)
	assert.Equal(t, []string{"2024-06-01", "2024-06-02", "2024-06-03"}, dates)
}

func TestListFilingsKeepsCallerCalendarDay(t *testing.T) {
	var dates []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dates = append(dates, r.URL.Query().Get("date"))
		w.Write(listingBody(t, nil))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	jst := time.FixedZone("JST", 9*60*60)
	day := time.Date(2024, 6, 1, 5, 0, 0, 0, jst)

	_, err := c.ListFilings(context.Background(), day, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-01"}, dates)
}

func TestListFilingsStartAfterEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	start, _ := ParseDate("2024-06-10")
	end, _ := ParseDate("2024-06-01")

	_, err := c.ListFilings(context.Background(), start, end)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestListFilingsAuthFailureAborts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"statusCode":401,"message":"Access denied due to invalid subscription key."}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	start, _ := ParseDate("2024-06-01")
	end, _ := ParseDate("2024-06-05")

	_, err := c.ListFilings(context.Background(), start, end)
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 401, authErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestListFilingsSkipsFailingDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date") == "2024-06-02" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(listingBody(t, []FilingMetadata{{
			DocID:       "S100OK",
			DocTypeCode: strPtr("180"),
		}}))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	start, _ := ParseDate("2024-06-01")
	end, _ := ParseDate("2024-06-03")

	filings, err := c.ListFilings(context.Background(), start, end)
	require.NoError(t, err)
	assert.Len(t, filings, 2)
}

func TestFilingsForDateUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write(listingBody(t, []FilingMetadata{{
			DocID:       "S100CACHED",
			DocTypeCode: strPtr("120"),
		}}))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, true)
	date, _ := ParseDate("2024-06-01")

	first, err := c.FilingsForDate(context.Background(), date)
	require.NoError(t, err)
	second, err := c.FilingsForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFilingsForDateNormalizesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listingBody(t, []FilingMetadata{{
			DocID:          "S100PAD",
			DocTypeCode:    strPtr("160"),
			FilerName:      strPtr("株式会社　　テスト"),
			DocDescription: strPtr("  半期報告書 　 (第1期)  "),
		}}))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	date, _ := ParseDate("2024-06-01")

	filings, err := c.FilingsForDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, filings, 1)
	assert.Equal(t, "株式会社 テスト", *filings[0].FilerName)
	assert.Equal(t, "半期報告書 (第1期)", *filings[0].DocDescription)
}

func TestListRecentFilingsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listingBody(t, nil))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	_, err := c.ListRecentFilings(context.Background(), 0)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestGetZipBytesCachesDocument(t *testing.T) {
	var calls atomic.Int32
	payload := []byte("PK\x03\x04archive")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/documents/S100DOC1", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("type"))
		w.Write(payload)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, true)
	first, err := c.GetZipBytes(context.Background(), "S100DOC1")
	require.NoError(t, err)
	second, err := c.GetZipBytes(context.Background(), "S100DOC1")
	require.NoError(t, err)

	assert.Equal(t, payload, first)
	assert.Equal(t, payload, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetZipBytesEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	_, err := c.GetZipBytes(context.Background(), "S100EMPTY")
	var fetchErr *DocumentFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "S100EMPTY", fetchErr.DocID)
}

func TestDownloadFilings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("zipdata"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	filings := []FilingMetadata{
		{DocID: "S100AAA1", DocTypeCode: strPtr("160"), FilerName: strPtr("テスト株式会社")},
		{DocID: "S100BBB2"}, // incomplete metadata, skipped
	}

	saved, err := c.DownloadFilings(context.Background(), filings)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "S100AAA1-160-テスト株式会社.zip", filepath.Base(saved[0]))

	data, err := os.ReadFile(saved[0])
	require.NoError(t, err)
	assert.Equal(t, "zipdata", string(data))
}

func TestDownloadFilingsSkipsExisting(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("zipdata"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	filings := []FilingMetadata{{DocID: "S100CCC3", DocTypeCode: strPtr("180"), FilerName: strPtr("会社")}}

	_, err := c.DownloadFilings(context.Background(), filings)
	require.NoError(t, err)
	_, err = c.DownloadFilings(context.Background(), filings)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownloadFilingsContinuesPastFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/documents/S100FAIL" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("zipdata"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false)
	filings := []FilingMetadata{
		{DocID: "S100FAIL", DocTypeCode: strPtr("160"), FilerName: strPtr("甲")},
		{DocID: "S100GOOD", DocTypeCode: strPtr("160"), FilerName: strPtr("乙")},
	}

	saved, err := c.DownloadFilings(context.Background(), filings)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Contains(t, saved[0], "S100GOOD")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = ParseDate("06/01/2024")
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientConfig{MaxRetries: 1, TimeoutSeconds: 5}, zap.NewNop())
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
