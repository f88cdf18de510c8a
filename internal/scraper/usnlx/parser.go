package usnlx

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/scraper"
)

//origin used to absolutize relative listing hrefs
const siteOrigin = "https://usnlx.com"

//listing cards are anchors styled with this class triple
const cardSelector = "a.flex.px-2.py-4"

// parseListings extracts job summaries from a captured results page. Pure:
// feed it HTML, get listings back. Cards missing expected structure degrade
// to empty fields; one bad card never takes down the batch.
func parseListings(pageHTML string) []scraper.Listing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		log.Printf("⚠️ Could not parse results page: %v", err)
		return nil
	}

	var listings []scraper.Listing
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		listings = append(listings, parseCard(card))
	})
	return listings
}

func parseCard(card *goquery.Selection) scraper.Listing {
	title := strings.TrimSpace(card.Find("h2").First().Text())

	//company sits in a span inside the info line; location is whatever text
	//remains once the company is removed. Known quirk: a company name that
	//recurs inside the location text gets removed there too.
	var company, location string
	if info := card.Find("p").First(); info.Length() > 0 {
		company = strings.TrimSpace(info.Find("span").First().Text())
		if company != "" {
			full := strings.TrimSpace(info.Text())
			location = strings.TrimSpace(strings.ReplaceAll(full, company, ""))
		}
	}

	jobURL, _ := card.Attr("href")
	if jobURL != "" && !strings.HasPrefix(jobURL, "http") {
		jobURL = siteOrigin + jobURL
	}

	return scraper.Listing{
		JobID:    jobIDFromURL(jobURL),
		Title:    title,
		Company:  company,
		Location: location,
		URL:      jobURL,
		Source:   scraper.SourceUSNLX,
	}
}

// jobIDFromURL takes the trailing path segment of a listing URL, e.g.
// "job-abc-123" from "https://usnlx.com/x/job-abc-123/". Malformed URLs
// yield an empty ID, which callers tolerate.
func jobIDFromURL(jobURL string) string {
	parts := strings.Split(strings.TrimRight(jobURL, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
