// Scrapes the USNLX job board with a real browser: load the results page,
// click through every "Load more jobs" round, parse the cards, and
// optionally visit each job's detail page in parallel.

package usnlx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"jobscout/internal/browser"
	"jobscout/internal/config"
	"jobscout/internal/filter"
	"jobscout/internal/scraper"
	"jobscout/utils"
)

// USNLXScraper drives a browser against the USNLX job board.
type USNLXScraper struct {
	mgr   *browser.Manager
	cfg   config.USNLX
	shots *utils.ScreenshotDebugger
}

func NewUSNLXScraper(mgr *browser.Manager, cfg config.USNLX) *USNLXScraper {
	return &USNLXScraper{
		mgr:   mgr,
		cfg:   cfg,
		shots: utils.NewScreenshotDebugger(""),
	}
}

func (s *USNLXScraper) Name() string {
	return "USNLX"
}

// Search loads the results page for params, exhausts the "Load more jobs"
// button and returns the parsed listings, keyword-filtered when params
// carries keyword lists. Scrape failures degrade to an empty result; only
// failing to get a browser session comes back as an error.
func (s *USNLXScraper) Search(ctx context.Context, params scraper.SearchParams) ([]scraper.Listing, error) {
	sess, err := s.mgr.NewSession()
	if err != nil {
		return nil, fmt.Errorf("opening browser session: %w", err)
	}
	defer sess.Close()

	listings := s.collect(ctx, sess, params)
	if len(params.IncludeKeywords) > 0 || len(params.ExcludeKeywords) > 0 {
		before := len(listings)
		listings = filter.ByKeywords(listings, params.IncludeKeywords, params.ExcludeKeywords)
		log.Printf("🧹 Filtered to %d/%d matching listings", len(listings), before)
	}
	return listings, nil
}

// collect runs the scrape behind a recover boundary so a panic inside the
// driver degrades to zero listings instead of crashing the caller.
func (s *USNLXScraper) collect(ctx context.Context, sess *browser.Session, params scraper.SearchParams) (listings []scraper.Listing) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ USNLX scrape panicked: %v", r)
			listings = nil
		}
	}()

	searchURL := buildSearchURL(s.cfg.BaseURL, params)
	log.Printf("🔎 Searching USNLX: %s in %s", params.Role, params.City)

	pageHTML, err := loadAllListings(ctx, sess.Page(), searchURL, s.cfg)
	if err != nil {
		if errors.Is(err, errNoListings) {
			log.Printf("ℹ️ No results for %q in %q", params.Role, params.City)
			s.shots.CaptureAndLog(sess.Page(), "usnlx_no_results", "Capturing empty results page")
			return nil
		}
		log.Printf("❌ USNLX scrape failed: %v", err)
		return nil
	}

	listings = parseListings(pageHTML)
	log.Printf("✅ USNLX returned %d listings", len(listings))
	return listings
}

// Enrich visits each listing's detail page in parallel and merges in
// whatever fields were found there.
func (s *USNLXScraper) Enrich(ctx context.Context, listings []scraper.Listing) []scraper.Enriched {
	factory := func() (detailSession, error) {
		sess, err := s.mgr.NewSession()
		if err != nil {
			return nil, err
		}
		return &browserSession{sess: sess}, nil
	}
	return enrichAll(ctx, factory, listings, s.cfg.DetailWorkers)
}

// SearchDetailed is Search followed by Enrich: everything the board shows
// about each matching job in one call.
func (s *USNLXScraper) SearchDetailed(ctx context.Context, params scraper.SearchParams) ([]scraper.Enriched, error) {
	listings, err := s.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.Enrich(ctx, listings), nil
}

func buildSearchURL(base string, params scraper.SearchParams) string {
	q := url.Values{}
	q.Set("q", params.Role)
	q.Set("location", params.City)
	if params.RadiusMiles > 0 {
		q.Set("r", strconv.Itoa(params.RadiusMiles))
	}
	return base + "?" + q.Encode()
}
