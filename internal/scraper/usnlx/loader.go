package usnlx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"

	"jobscout/internal/config"
)

const (
	moreButtonSelector = `button[aria-label="Load more jobs"]`
	navTimeout         = 30 * time.Second

	//The board renders new cards with a short animation; clicking again
	//before it settles drops results.
	preClickPause  = 500 * time.Millisecond
	postClickPause = 1500 * time.Millisecond
)

// errNoListings marks a search that rendered no result cards at all. Callers
// treat it as an empty result set, not a failure.
var errNoListings = errors.New("no listings appeared")

// loadAllListings navigates to searchURL and clicks "Load more jobs" until
// the button disappears or cfg.MaxMoreClicks is reached, then returns the
// fully loaded page HTML.
func loadAllListings(ctx context.Context, page playwright.Page, searchURL string, cfg config.USNLX) (string, error) {
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(navTimeout.Milliseconds())),
	}); err != nil {
		return "", fmt.Errorf("❌ failed to goto %s: %w", searchURL, err)
	}

	//The result list is the only <li> content on the page, so its absence
	//within the wait window means the search came back empty.
	firstItem := page.Locator("li").First()
	if err := firstItem.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(cfg.Timeout().Milliseconds())),
	}); err != nil {
		return "", fmt.Errorf("%w: %v", errNoListings, err)
	}

	log.Println("📥 Loading all job listings...")
	clicks := 0
	for clicks < cfg.MaxMoreClicks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !clickLoadMore(page, cfg.Timeout()) {
			break
		}
		clicks++
		if clicks%5 == 0 {
			log.Printf("  Loaded %d+ jobs...", clicks*15)
		}
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("❌ failed to read page content: %w", err)
	}
	return html, nil
}

// clickLoadMore clicks the "Load more jobs" button once and waits for the
// new cards to render. It returns false when the button is gone, which is
// how the board signals that every job is on the page.
func clickLoadMore(page playwright.Page, timeout time.Duration) bool {
	button := page.Locator(moreButtonSelector)
	if err := button.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return false
	}
	if err := button.ScrollIntoViewIfNeeded(); err != nil {
		return false
	}
	time.Sleep(preClickPause)
	if err := button.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return false
	}
	time.Sleep(postClickPause)
	return true
}
