package usnlx

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jobscout/internal/scraper"
)

//detail pages render client-side after the document loads
const detailRenderPause = 2 * time.Second

//matched against the lowercased description, most specific first
var payPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+\s*-\s*\$[\d,]+\s*(?:per|/)\s*(?:year|hour|yr|hr)`),
	regexp.MustCompile(`\$[\d,]+k?\s*-\s*\$[\d,]+k?`),
	regexp.MustCompile(`salary:?\s*\$[\d,]+\s*-\s*\$[\d,]+`),
}

var benefitKeywords = []string{
	"health insurance", "401k", "pto", "paid time off",
	"dental", "vision", "retirement", "bonus",
}

// extractDetails navigates to a job's detail page and pulls out whatever
// fields it can. Failures are logged and yield an empty Detail so one bad
// page never sinks the batch.
func extractDetails(page playwright.Page, jobURL string) scraper.Detail {
	if _, err := page.Goto(jobURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(navTimeout.Milliseconds())),
	}); err != nil {
		log.Printf("  ⚠️ Could not load details for %s: %v", jobURL, err)
		return scraper.Detail{}
	}
	time.Sleep(detailRenderPause)

	pageHTML, err := page.Content()
	if err != nil {
		log.Printf("  ⚠️ Could not read details for %s: %v", jobURL, err)
		return scraper.Detail{}
	}
	return parseDetail(pageHTML)
}

// parseDetail extracts detail fields from a job page. Pure. Every field is
// its own attempt: the description-derived ones need a description block,
// but a page without one can still give up a summary or a posted date.
func parseDetail(pageHTML string) scraper.Detail {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		log.Printf("  ⚠️ Failed to parse detail page: %v", err)
		return scraper.Detail{}
	}

	var detail scraper.Detail
	if descSel := findDescription(doc); descSel != nil {
		detail.Description = blockText(descSel)
		lower := strings.ToLower(detail.Description)
		detail.EmploymentType = classifyEmployment(lower)
		detail.RemoteStatus = classifyRemote(lower)
		detail.PayRange = findPayRange(lower)
		detail.Benefits = findBenefits(lower)
	}
	detail.Summary = findSummary(doc, detail.Description)
	detail.PostedDate = findPostedDate(doc)
	return detail
}

// findDescription locates the description block: the tagged div, the
// anchored div, then any div with a substantial amount of text.
func findDescription(doc *goquery.Document) *goquery.Selection {
	if sel := doc.Find("div.job-description").First(); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find("div#job-description").First(); sel.Length() > 0 {
		return sel
	}
	var fallback *goquery.Selection
	doc.Find("div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if utf8.RuneCountInString(strings.TrimSpace(s.Text())) > 200 {
			fallback = s
			return false
		}
		return true
	})
	return fallback
}

// blockText flattens a selection into line-per-text-node form, so block
// elements come out newline-separated instead of mashed together.
func blockText(sel *goquery.Selection) string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(lines, "\n")
}

func classifyEmployment(lower string) scraper.EmploymentType {
	switch {
	case strings.Contains(lower, "full-time") || strings.Contains(lower, "full time"):
		return scraper.EmploymentFullTime
	case strings.Contains(lower, "part-time") || strings.Contains(lower, "part time"):
		return scraper.EmploymentPartTime
	case strings.Contains(lower, "contract"):
		return scraper.EmploymentContract
	}
	return ""
}

func classifyRemote(lower string) scraper.RemoteStatus {
	switch {
	case strings.Contains(lower, "remote") && !strings.Contains(lower, "not remote"):
		if strings.Contains(lower, "hybrid") {
			return scraper.RemoteStatusHybrid
		}
		return scraper.RemoteStatusRemote
	case strings.Contains(lower, "on-site") || strings.Contains(lower, "onsite") || strings.Contains(lower, "in-office"):
		return scraper.RemoteStatusOnSite
	}
	return ""
}

func findPayRange(lower string) string {
	for _, re := range payPatterns {
		if m := re.FindString(lower); m != "" {
			return m
		}
	}
	return ""
}

func findBenefits(lower string) []string {
	//cases.Caser carries state; detail workers run this concurrently
	caser := cases.Title(language.English)
	var found []string
	for _, kw := range benefitKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, caser.String(kw))
		}
	}
	return found
}

// findSummary prefers the page's own summary elements, taken verbatim, and
// falls back to the first substantial description line, clipped at 300.
func findSummary(doc *goquery.Document, description string) string {
	if s := strings.TrimSpace(doc.Find("p.job-summary").First().Text()); s != "" {
		return s
	}
	if s := strings.TrimSpace(doc.Find("div.summary").First().Text()); s != "" {
		return s
	}
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= 50 {
			continue
		}
		if runes := []rune(line); len(runes) > 300 {
			return string(runes[:300]) + "..."
		}
		return line
	}
	return ""
}

// findPostedDate pulls datePosted from the first JSON-LD block that has
// one. Malformed blocks are skipped, not errors.
func findPostedDate(doc *goquery.Document) string {
	var posted string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if v, ok := data["datePosted"].(string); ok && v != "" {
			posted = v
			return false
		}
		return true
	})
	return posted
}
