// Collapses duplicate listings across sources and remembers which jobs
// watch mode has already reported.

package dedup

import (
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"jobscout/internal/scraper"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

//collapse case and whitespace so "Phoenix,  AZ" and "phoenix, az" key the same
func normalizeLocation(loc string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(loc)), " ")
}

type key struct {
	title    string
	company  string
	location string
}

func keyOf(l scraper.Listing) key {
	return key{
		title:    strings.ToLower(strings.TrimSpace(l.Title)),
		company:  strings.ToLower(strings.TrimSpace(l.Company)),
		location: normalizeLocation(l.Location),
	}
}

func (k key) complete() bool {
	return k.title != "" && k.company != "" && k.location != ""
}

// Deduplicate collapses listings sharing (title, company, location) down to
// the first occurrence. Listings missing any key part are dropped outright,
// even when otherwise unique.
func Deduplicate(listings []scraper.Listing) []scraper.Listing {
	seen := mapset.NewThreadUnsafeSet[key]()
	unique := make([]scraper.Listing, 0, len(listings))
	for _, l := range listings {
		k := keyOf(l)
		if !k.complete() {
			continue
		}
		if seen.Add(k) {
			unique = append(unique, l)
		}
	}
	return unique
}

// Tracker remembers listing URLs across runs so watch mode only reports
// jobs it has not shown before. Safe for concurrent use.
type Tracker struct {
	seen mapset.Set[string]
}

func NewTracker() *Tracker {
	return &Tracker{seen: mapset.NewSet[string]()}
}

// Unseen returns the listings whose URLs the tracker has not recorded yet,
// recording them as it goes. Listings without a URL cannot be tracked and
// always pass through.
func (t *Tracker) Unseen(listings []scraper.Listing) []scraper.Listing {
	fresh := make([]scraper.Listing, 0, len(listings))
	for _, l := range listings {
		if l.URL == "" {
			fresh = append(fresh, l)
			continue
		}
		if t.seen.Add(l.URL) {
			fresh = append(fresh, l)
		}
	}
	return fresh
}
