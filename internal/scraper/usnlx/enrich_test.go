package usnlx

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/scraper"
)

// fakeSession records extraction calls without touching a browser.
type fakeSession struct {
	panicOn  string
	delay    time.Duration
	active   *atomic.Int64
	maxSeen  *atomic.Int64
	released *atomic.Int64
}

func (f *fakeSession) extract(jobURL string) scraper.Detail {
	if f.active != nil {
		cur := f.active.Add(1)
		defer f.active.Add(-1)
		for {
			prev := f.maxSeen.Load()
			if cur <= prev || f.maxSeen.CompareAndSwap(prev, cur) {
				break
			}
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if jobURL == f.panicOn {
		panic("extraction blew up")
	}
	return scraper.Detail{Summary: "detail for " + jobURL}
}

func (f *fakeSession) release() {
	if f.released != nil {
		f.released.Add(1)
	}
}

func makeListings(n int) []scraper.Listing {
	listings := make([]scraper.Listing, n)
	for i := range listings {
		listings[i] = scraper.Listing{
			Title: fmt.Sprintf("Job %d", i),
			URL:   fmt.Sprintf("https://usnlx.com/x/job-%d/", i),
		}
	}
	return listings
}

func TestEnrichAllIsolatesPanics(t *testing.T) {
	listings := makeListings(10)
	victim := listings[4].URL

	factory := func() (detailSession, error) {
		return &fakeSession{panicOn: victim}, nil
	}

	enriched := enrichAll(context.Background(), factory, listings, 10)
	require.Len(t, enriched, 10, "one failing task never changes the output count")

	for i, e := range enriched {
		assert.Equal(t, listings[i].URL, e.URL, "input order is preserved")
		if e.URL == victim {
			assert.Equal(t, scraper.Detail{}, e.Detail, "the panicking job comes back unenriched")
		} else {
			assert.Equal(t, "detail for "+e.URL, e.Summary)
		}
	}
}

func TestEnrichAllSharedTimestamp(t *testing.T) {
	factory := func() (detailSession, error) { return &fakeSession{}, nil }

	enriched := enrichAll(context.Background(), factory, makeListings(5), 2)
	require.Len(t, enriched, 5)

	stamp := enriched[0].ScrapedAt
	assert.False(t, stamp.IsZero())
	for _, e := range enriched {
		assert.Equal(t, stamp, e.ScrapedAt, "the whole batch shares one timestamp")
	}
}

func TestEnrichAllFactoryFailure(t *testing.T) {
	factory := func() (detailSession, error) {
		return nil, errors.New("no more sessions")
	}

	listings := makeListings(6)
	enriched := enrichAll(context.Background(), factory, listings, 3)
	require.Len(t, enriched, 6)

	for i, e := range enriched {
		assert.Equal(t, listings[i].URL, e.URL)
		assert.Equal(t, scraper.Detail{}, e.Detail)
		assert.False(t, e.ScrapedAt.IsZero())
	}
}

func TestEnrichAllBoundsConcurrency(t *testing.T) {
	var active, maxSeen, released atomic.Int64
	factory := func() (detailSession, error) {
		return &fakeSession{
			delay:    20 * time.Millisecond,
			active:   &active,
			maxSeen:  &maxSeen,
			released: &released,
		}, nil
	}

	enrichAll(context.Background(), factory, makeListings(12), 3)

	assert.LessOrEqual(t, maxSeen.Load(), int64(3))
	assert.Equal(t, int64(3), released.Load(), "every worker releases its session")
}

func TestEnrichAllCapsWorkersAtListingCount(t *testing.T) {
	var released atomic.Int64
	factory := func() (detailSession, error) {
		return &fakeSession{released: &released}, nil
	}

	enriched := enrichAll(context.Background(), factory, makeListings(2), 8)
	assert.Len(t, enriched, 2)
	assert.Equal(t, int64(2), released.Load(), "no more sessions than listings")
}

func TestEnrichAllEmptyInput(t *testing.T) {
	var factoryCalls atomic.Int64
	factory := func() (detailSession, error) {
		factoryCalls.Add(1)
		return &fakeSession{}, nil
	}

	enriched := enrichAll(context.Background(), factory, nil, 4)
	assert.Empty(t, enriched)
	assert.Equal(t, int64(0), factoryCalls.Load())
}

func TestEnrichAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	factory := func() (detailSession, error) { return &fakeSession{}, nil }

	listings := makeListings(4)
	enriched := enrichAll(ctx, factory, listings, 2)
	require.Len(t, enriched, 4, "cancellation skips work, never drops records")
	for _, e := range enriched {
		assert.Equal(t, scraper.Detail{}, e.Detail)
	}
}
