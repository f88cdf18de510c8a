package output

import "jobscout/internal/scraper"

// ResultWriter defines how search results are presented or stored.
type ResultWriter interface {
	WriteJobs(jobs []scraper.Enriched) error
}
