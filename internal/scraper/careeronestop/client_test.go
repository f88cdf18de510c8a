package careeronestop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/config"
	"jobscout/internal/scraper"
)

// fakeAPI serves canned result pages keyed by the start-row path segment.
type fakeAPI struct {
	mu       sync.Mutex
	jobs     []jobRecord
	jobCount int
	failFrom int //startRow at which to start returning 500s, -1 = never
	requests []*http.Request
	escaped  []string
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.escaped = append(f.escaped, r.URL.EscapedPath())
	f.mu.Unlock()

	//user/keyword/location/radius/sortCol/sortOrder/startRow/pageSize/days
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) != 9 {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}
	startRow, _ := strconv.Atoi(segments[6])
	pageSize, _ := strconv.Atoi(segments[7])

	if f.failFrom >= 0 && startRow >= f.failFrom {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	end := startRow + pageSize
	if startRow > len(f.jobs) {
		startRow = len(f.jobs)
	}
	if end > len(f.jobs) {
		end = len(f.jobs)
	}
	json.NewEncoder(w).Encode(searchResponse{Jobs: f.jobs[startRow:end], JobCount: f.jobCount})
}

func makeJobs(n int) []jobRecord {
	jobs := make([]jobRecord, n)
	for i := range jobs {
		jobs[i] = jobRecord{
			JvID:               fmt.Sprintf("jv-%d", i),
			JobTitle:           fmt.Sprintf("Designer %d", i),
			Company:            "Acme",
			Location:           "Phoenix, AZ",
			DescriptionSnippet: "snippet",
			URL:                fmt.Sprintf("https://jobs.example.com/%d", i),
		}
	}
	return jobs
}

func testConfig(baseURL string) config.CareerOneStop {
	return config.CareerOneStop{
		BaseURL:        baseURL,
		UserID:         "user123",
		Token:          "tok-abc",
		RadiusMiles:    25,
		Days:           30,
		SortColumn:     "0",
		SortOrder:      "0",
		PageSize:       2,
		MaxStartRow:    4,
		TimeoutSeconds: 5,
	}
}

func TestSearchJobsPaginatesAndMaps(t *testing.T) {
	api := &fakeAPI{jobs: makeJobs(5), jobCount: 5, failFrom: -1}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	listings, err := client.SearchJobs(context.Background(), "Graphic Designer", "Phoenix, AZ", 100, 0, 0)
	require.NoError(t, err)
	require.Len(t, listings, 5)

	first := listings[0]
	assert.Equal(t, "jv-0", first.JobID)
	assert.Equal(t, "Designer 0", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "Phoenix, AZ", first.Location)
	assert.Equal(t, "https://jobs.example.com/0", first.URL)
	assert.Equal(t, scraper.SourceCareerOneStop, first.Source)
	assert.Equal(t, "snippet", first.Snippet)

	require.Len(t, api.requests, 3, "5 results at page size 2 take 3 pages")
	for _, r := range api.requests {
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "1", r.URL.Query().Get("enableJobDescriptionSnippet"))
		assert.Equal(t, "0", r.URL.Query().Get("enableMetaData"))
	}

	//positional path segments, escaped
	assert.Equal(t, "/user123/Graphic%20Designer/Phoenix,%20AZ/100/0/0/0/2/30", api.escaped[0])
	assert.Equal(t, "/user123/Graphic%20Designer/Phoenix,%20AZ/100/0/0/2/2/30", api.escaped[1])
	assert.Equal(t, "/user123/Graphic%20Designer/Phoenix,%20AZ/100/0/0/4/2/30", api.escaped[2])
}

func TestSearchJobsStopsOnEmptyPage(t *testing.T) {
	//the provider claims 10 matches but only ever serves 2
	api := &fakeAPI{jobs: makeJobs(2), jobCount: 10, failFrom: -1}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	listings, err := client.SearchJobs(context.Background(), "Designer", "Phoenix, AZ", 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.Len(t, api.requests, 2)
}

func TestSearchJobsPartialOnServerError(t *testing.T) {
	api := &fakeAPI{jobs: makeJobs(6), jobCount: 10, failFrom: 2}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	listings, err := client.SearchJobs(context.Background(), "Designer", "Phoenix, AZ", 0, 0, 0)
	assert.ErrorContains(t, err, "fetching rows from 2")
	assert.Len(t, listings, 2, "pages fetched before the failure are kept")
}

func TestSearchJobsMissingCredentials(t *testing.T) {
	api := &fakeAPI{jobs: makeJobs(2), jobCount: 2, failFrom: -1}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Token = ""
	client := NewClient(cfg)

	listings, err := client.SearchJobs(context.Background(), "Designer", "Phoenix, AZ", 0, 0, 0)
	assert.NoError(t, err)
	assert.Nil(t, listings)
	assert.Empty(t, api.requests, "no request leaves the client without credentials")
}

func TestSearchJobsTruncatesToMaxResults(t *testing.T) {
	api := &fakeAPI{jobs: makeJobs(6), jobCount: 6, failFrom: -1}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	listings, err := client.SearchJobs(context.Background(), "Designer", "Phoenix, AZ", 0, 3, 0)
	require.NoError(t, err)
	assert.Len(t, listings, 3)
	assert.Len(t, api.requests, 2)
}

func TestSearchJobsHonorsMaxStartRow(t *testing.T) {
	api := &fakeAPI{jobs: makeJobs(10), jobCount: 10, failFrom: -1}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxStartRow = 2
	client := NewClient(cfg)

	listings, err := client.SearchJobs(context.Background(), "Designer", "Phoenix, AZ", 0, 100, 0)
	require.NoError(t, err)
	assert.Len(t, listings, 4, "rows 0 and 2 are the only reachable pages")
	assert.Len(t, api.requests, 2)
}

func TestSearchUsesConfigDefaults(t *testing.T) {
	api := &fakeAPI{jobs: makeJobs(1), jobCount: 1, failFrom: -1}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Search(context.Background(), scraper.SearchParams{Role: "Designer", City: "Phoenix, AZ"})
	require.NoError(t, err)

	require.Len(t, api.requests, 1)
	assert.Equal(t, "/user123/Designer/Phoenix,%20AZ/25/0/0/0/2/30", api.escaped[0], "zero radius falls back to the configured default")
}

func TestClientName(t *testing.T) {
	assert.Equal(t, "CareerOneStop", NewClient(config.CareerOneStop{}).Name())
}
