package filter

import (
	"jobscout/internal/scraper"
)

// ByKeywords filters listings by title keywords. Exclude wins: one exclude
// match drops the listing before include is even consulted. When include
// keywords are given, only listings matching at least one survive and carry
// their matches in MatchedKeywords; without them everything not excluded
// passes through.
func ByKeywords(listings []scraper.Listing, include, exclude []string) []scraper.Listing {
	filtered := make([]scraper.Listing, 0, len(listings))
	for _, l := range listings {
		if len(matchKeywords(l.Title, exclude)) > 0 {
			continue
		}
		if len(include) > 0 {
			matched := matchKeywords(l.Title, include)
			if len(matched) == 0 {
				continue
			}
			l.MatchedKeywords = matched
		}
		filtered = append(filtered, l)
	}
	return filtered
}
