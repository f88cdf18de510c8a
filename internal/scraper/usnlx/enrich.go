package usnlx

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"jobscout/internal/browser"
	"jobscout/internal/scraper"
)

const defaultDetailWorkers = 10

// detailSession is one isolated page a worker drives across many detail
// lookups. Sessions are opened lazily per worker and released when the
// worker drains.
type detailSession interface {
	extract(jobURL string) scraper.Detail
	release()
}

type sessionFactory func() (detailSession, error)

// browserSession adapts browser.Session to detailSession.
type browserSession struct {
	sess *browser.Session
}

func (b *browserSession) extract(jobURL string) scraper.Detail {
	return extractDetails(b.sess.Page(), jobURL)
}

func (b *browserSession) release() {
	b.sess.Close()
}

// enrichAll fans listings out over a worker pool and merges each listing
// with whatever detail fields its page yields. Results keep the input
// order and every record carries the same batch timestamp. Listings whose
// worker could not get a session come back unenriched rather than dropped.
func enrichAll(ctx context.Context, factory sessionFactory, listings []scraper.Listing, workers int) []scraper.Enriched {
	scrapedAt := time.Now()
	enriched := make([]scraper.Enriched, len(listings))
	for i, l := range listings {
		enriched[i] = scraper.Enriched{Listing: l, ScrapedAt: scrapedAt}
	}
	if len(listings) == 0 {
		return enriched
	}

	if workers < 1 {
		workers = defaultDetailWorkers
	}
	if workers > len(listings) {
		workers = len(listings)
	}
	log.Printf("🔍 Fetching details for %d jobs with %d workers...", len(listings), workers)

	type task struct {
		idx     int
		listing scraper.Listing
	}
	tasks := make(chan task)
	var completed atomic.Int64

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := factory()
			if err != nil {
				log.Printf("  ⚠️ Could not open detail session: %v", err)
				for range tasks { //leave these unenriched
				}
				return
			}
			defer sess.release()
			for t := range tasks {
				if ctx.Err() != nil {
					continue
				}
				//workers write disjoint indices, no lock needed
				enriched[t.idx].Detail = safeExtract(sess, t.listing.URL)
				log.Printf("  [%d/%d] %s...", completed.Add(1), len(listings), clip(t.listing.Title, 50))
			}
		}()
	}

	for i, l := range listings {
		tasks <- task{idx: i, listing: l}
	}
	close(tasks)
	wg.Wait()

	log.Printf("✅ Completed detail extraction for %d jobs", len(listings))
	return enriched
}

// safeExtract keeps a panicking page from taking the whole batch down.
func safeExtract(sess detailSession, jobURL string) (d scraper.Detail) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("  ⚠️ Detail extraction panicked for %s: %v", jobURL, r)
			d = scraper.Detail{}
		}
	}()
	return sess.extract(jobURL)
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
