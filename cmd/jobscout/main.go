package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"jobscout/internal/browser"
	"jobscout/internal/config"
	"jobscout/internal/dedup"
	"jobscout/internal/filter"
	"jobscout/internal/output"
	"jobscout/internal/scraper"
	"jobscout/internal/scraper/careeronestop"
	"jobscout/internal/scraper/usnlx"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	searchName := flag.String("search", "", "name of a preset search from the config file")
	role := flag.String("role", "", "job role or title to search for")
	city := flag.String("city", "", `city to search in, e.g. "Phoenix, AZ"`)
	radius := flag.Int("radius", 0, "search radius in miles")
	source := flag.String("source", "all", "where to search: usnlx, api or all")
	details := flag.Bool("details", false, "visit each job's detail page for pay, benefits and more")
	outPath := flag.String("out", "", "write results to this JSON file")
	every := flag.Duration("every", 0, "keep running, repeating the search at this interval")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if *source != "usnlx" && *source != "api" && *source != "all" {
		log.Fatalf("❌ Unknown source %q (want usnlx, api or all)", *source)
	}

	params, err := resolveParams(cfg, *searchName, *role, *city, *radius)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	writers := buildWriters(cfg, *outPath)

	log.Printf("🚀 Starting jobscout: %s in %s", params.Role, params.City)

	if *every <= 0 {
		if err := runSearch(cfg, params, *source, *details, writers, nil); err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Println("🏁 Done.")
		return
	}

	//watch mode: rerun on a schedule, report only jobs not seen before
	tracker := dedup.NewTracker()
	run := func() {
		if err := runSearch(cfg, params, *source, *details, writers, tracker); err != nil {
			log.Printf("❌ Search run failed: %v", err)
		}
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", *every), run); err != nil {
		log.Fatalf("❌ Failed to schedule runs: %v", err)
	}
	c.Start()
	log.Printf("⏰ Watching every %s. Ctrl+C to stop.", *every)
	run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	c.Stop()
	log.Println("🏁 Stopped.")
}

// resolveParams merges a named preset with flag overrides, or builds params
// from flags alone.
func resolveParams(cfg *config.Config, searchName, role, city string, radius int) (scraper.SearchParams, error) {
	var params scraper.SearchParams

	if searchName != "" {
		preset, ok := cfg.Searches[searchName]
		if !ok {
			names := make([]string, 0, len(cfg.Searches))
			for name := range cfg.Searches {
				names = append(names, name)
			}
			sort.Strings(names)
			return params, fmt.Errorf("search %q not found in config (have: %s)", searchName, strings.Join(names, ", "))
		}
		params = preset.Params()
	}

	//flags override preset values
	if role != "" {
		params.Role = role
	}
	if city != "" {
		params.City = city
	}
	if radius > 0 {
		params.RadiusMiles = radius
	}

	if params.Role == "" || params.City == "" {
		return params, fmt.Errorf("need either -search or both -role and -city")
	}
	return params, nil
}

func buildWriters(cfg *config.Config, outPath string) []output.ResultWriter {
	writers := []output.ResultWriter{output.NewConsolePrinter()}

	if outPath == "" {
		outPath = cfg.Output.JSONPath
	}
	if outPath != "" {
		writers = append(writers, output.NewJSONWriter(outPath))
	}

	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		tg, err := output.NewTelegramWriter(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			log.Println("🤖 Telegram notifications enabled.")
			writers = append(writers, tg)
		}
	}
	return writers
}

// runSearch executes one full search cycle: query the selected sources,
// filter, dedup across sources, optionally enrich, and hand the results to
// every writer. A non-nil tracker suppresses jobs reported on earlier runs.
func runSearch(cfg *config.Config, params scraper.SearchParams, source string, details bool, writers []output.ResultWriter, tracker *dedup.Tracker) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var apiListings, boardListings []scraper.Listing

	if source == "api" || source == "all" {
		client := careeronestop.NewClient(cfg.CareerOneStop)
		listings, err := client.Search(ctx, params)
		if err != nil {
			log.Printf("⚠️ CareerOneStop search incomplete: %v", err)
		}
		//the API takes no keyword parameters, so filter here
		if len(params.IncludeKeywords) > 0 || len(params.ExcludeKeywords) > 0 {
			listings = filter.ByKeywords(listings, params.IncludeKeywords, params.ExcludeKeywords)
		}
		apiListings = listings
	}

	var board *usnlx.USNLXScraper
	if source == "usnlx" || source == "all" {
		mgr, err := browser.NewManager(cfg.Browser.Driver())
		if err != nil {
			return fmt.Errorf("starting browser: %w", err)
		}
		defer mgr.Close()

		board = usnlx.NewUSNLXScraper(mgr, cfg.USNLX)
		listings, err := board.Search(ctx, params)
		if err != nil {
			return fmt.Errorf("searching USNLX: %w", err)
		}
		boardListings = listings
	}

	all := dedup.Deduplicate(append(apiListings, boardListings...))
	log.Printf("📦 %d unique listings across sources", len(all))

	if tracker != nil {
		before := len(all)
		all = tracker.Unseen(all)
		log.Printf("🔍 %d of %d listings are new", len(all), before)
	}

	var results []scraper.Enriched
	switch {
	case details && board != nil:
		//only board listings have detail pages the extractor understands
		var boardSide, apiSide []scraper.Listing
		for _, l := range all {
			if l.Source == scraper.SourceUSNLX {
				boardSide = append(boardSide, l)
			} else {
				apiSide = append(apiSide, l)
			}
		}
		results = append(toEnriched(apiSide), board.Enrich(ctx, boardSide)...)
	case details:
		log.Println("ℹ️ -details applies to USNLX listings, skipping.")
		fallthrough
	default:
		results = toEnriched(all)
	}

	for _, w := range writers {
		if err := w.WriteJobs(results); err != nil {
			log.Printf("⚠️ Failed to write results: %v", err)
		}
	}
	return nil
}

// toEnriched wraps plain listings so writers see one shape whether or not
// details were fetched.
func toEnriched(listings []scraper.Listing) []scraper.Enriched {
	scrapedAt := time.Now()
	enriched := make([]scraper.Enriched, 0, len(listings))
	for _, l := range listings {
		enriched = append(enriched, scraper.Enriched{Listing: l, ScrapedAt: scrapedAt})
	}
	return enriched
}
