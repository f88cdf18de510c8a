// Client for the CareerOneStop Jobs API V2.
// Paginates by start row until the provider runs dry or the cap is hit.

package careeronestop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"jobscout/internal/config"
	"jobscout/internal/scraper"
)

// Client queries the CareerOneStop job search API. Safe for concurrent use.
type Client struct {
	cfg    config.CareerOneStop
	client *http.Client
}

func NewClient(cfg config.CareerOneStop) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *Client) Name() string {
	return "CareerOneStop"
}

// Search implements scraper.Scraper with the configured defaults for
// radius, posting window and result cap. Keyword filtering is left to the
// caller; the API has no keyword-list parameter.
func (c *Client) Search(ctx context.Context, params scraper.SearchParams) ([]scraper.Listing, error) {
	return c.SearchJobs(ctx, params.Role, params.City, params.RadiusMiles, c.cfg.MaxResults(), c.cfg.Days)
}

// SearchJobs pages through the API and returns up to maxResults listings.
// Zero or negative radius, maxResults and days fall back to the configured
// defaults. Without credentials it logs and returns nothing so the rest of
// the pipeline can still run. A mid-pagination failure returns the pages
// fetched so far alongside the error.
func (c *Client) SearchJobs(ctx context.Context, keyword, location string, radius, maxResults, days int) ([]scraper.Listing, error) {
	if c.cfg.UserID == "" || c.cfg.Token == "" {
		log.Println("⚠️ CareerOneStop credentials not set, skipping API search")
		return nil, nil
	}

	if radius <= 0 {
		radius = c.cfg.RadiusMiles
	}
	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults()
	}
	if days <= 0 {
		days = c.cfg.Days
	}

	log.Printf("🔎 Searching CareerOneStop: %s in %s", keyword, location)

	var listings []scraper.Listing
	for startRow := 0; startRow <= c.cfg.MaxStartRow && len(listings) < maxResults; startRow += c.cfg.PageSize {
		page, total, err := c.fetchPage(ctx, keyword, location, radius, days, startRow)
		if err != nil {
			return truncate(listings, maxResults), fmt.Errorf("fetching rows from %d: %w", startRow, err)
		}
		if len(page) == 0 {
			break
		}
		listings = append(listings, page...)
		if len(listings) >= total {
			break
		}
	}

	listings = truncate(listings, maxResults)
	log.Printf("✅ CareerOneStop returned %d listings", len(listings))
	return listings, nil
}

type jobRecord struct {
	JvID               string `json:"JvId"`
	JobTitle           string `json:"JobTitle"`
	Company            string `json:"Company"`
	Location           string `json:"Location"`
	DescriptionSnippet string `json:"DescriptionSnippet"`
	URL                string `json:"URL"`
}

type searchResponse struct {
	Jobs     []jobRecord `json:"Jobs"`
	JobCount int         `json:"JobCount"`
}

// fetchPage requests one page of results and maps it into the shared
// listing shape. The second return is the provider's total match count.
func (c *Client) fetchPage(ctx context.Context, keyword, location string, radius, days, startRow int) ([]scraper.Listing, int, error) {
	reqURL := c.buildURL(keyword, location, radius, days, startRow)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("requesting page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, 0, fmt.Errorf("decoding response: %w", err)
	}

	listings := make([]scraper.Listing, 0, len(parsed.Jobs))
	for _, job := range parsed.Jobs {
		listings = append(listings, scraper.Listing{
			JobID:    job.JvID,
			Title:    job.JobTitle,
			Company:  job.Company,
			Location: job.Location,
			URL:      job.URL,
			Source:   scraper.SourceCareerOneStop,
			Snippet:  job.DescriptionSnippet,
		})
	}
	return listings, parsed.JobCount, nil
}

// buildURL renders the positional-path request URL:
// {base}/{user}/{keyword}/{location}/{radius}/{sortCol}/{sortOrder}/{startRow}/{pageSize}/{days}
func (c *Client) buildURL(keyword, location string, radius, days, startRow int) string {
	return fmt.Sprintf("%s/%s/%s/%s/%d/%s/%s/%d/%d/%d?enableJobDescriptionSnippet=1&enableMetaData=0",
		c.cfg.BaseURL,
		c.cfg.UserID,
		url.PathEscape(keyword),
		url.PathEscape(location),
		radius,
		c.cfg.SortColumn,
		c.cfg.SortOrder,
		startRow,
		c.cfg.PageSize,
		days,
	)
}

func truncate(listings []scraper.Listing, max int) []scraper.Listing {
	if len(listings) > max {
		return listings[:max]
	}
	return listings
}
