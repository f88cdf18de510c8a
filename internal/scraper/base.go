// Shared record types and the interface all job sources implement
// Every source normalizes into the same Listing shape

package scraper

import (
	"context"
	"time"
)

// Source identifies where a listing came from.
type Source string

const (
	SourceCareerOneStop Source = "careeronestop"
	SourceUSNLX         Source = "usnlx"
)

// Listing is one job summary as returned by a source.
type Listing struct {
	JobID    string `json:"job_id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
	Source   Source `json:"source"`

	//short description fragment some sources return with the listing
	Snippet string `json:"description_snippet,omitempty"`

	//set by filter.ByKeywords when include keywords are given
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// EmploymentType classifies how a position is staffed.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "Full-time"
	EmploymentPartTime EmploymentType = "Part-time"
	EmploymentContract EmploymentType = "Contract"
)

// RemoteStatus classifies where the work happens.
type RemoteStatus string

const (
	RemoteStatusRemote RemoteStatus = "Remote"
	RemoteStatusHybrid RemoteStatus = "Hybrid"
	RemoteStatusOnSite RemoteStatus = "On-site"
)

// Detail holds fields pulled from a job's detail page. Everything is
// best-effort: the zero value means "not found", never an error.
type Detail struct {
	Summary        string         `json:"summary,omitempty"`
	PayRange       string         `json:"pay_range,omitempty"`
	EmploymentType EmploymentType `json:"employment_type,omitempty"`
	RemoteStatus   RemoteStatus   `json:"remote_status,omitempty"`
	Benefits       []string       `json:"benefits,omitempty"`
	Description    string         `json:"description,omitempty"`
	PostedDate     string         `json:"posted_date,omitempty"`
}

// Enriched is a Listing merged with whatever Detail fields were found,
// stamped with the time the batch was scraped.
type Enriched struct {
	Listing
	Detail
	ScrapedAt time.Time `json:"scraped_at"`
}

// SearchParams describes one search. Value object, never mutated.
type SearchParams struct {
	Role        string
	City        string
	RadiusMiles int
	//keyword lists are matched against listing titles by filter.ByKeywords
	IncludeKeywords []string
	ExcludeKeywords []string
}

//Scraper defines the interface that all job sources must implement
type Scraper interface {
	//Search runs one search and returns normalized listings
	Search(ctx context.Context, params SearchParams) ([]Listing, error)

	//Name is the source name (USNLX, CareerOneStop, ...)
	Name() string
}
