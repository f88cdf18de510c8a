// Load envs from .env
// Load YAML config
// Apply env overrides
// Provide default values

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jobscout/internal/browser"
	"jobscout/internal/scraper"
)

// Config is the full runtime configuration. Every knob has a default; the
// YAML file and environment variables only override what they mention.
type Config struct {
	Browser       Browser           `yaml:"browser"`
	USNLX         USNLX             `yaml:"usnlx"`
	CareerOneStop CareerOneStop     `yaml:"careeronestop"`
	Telegram      Telegram          `yaml:"telegram"`
	Output        Output            `yaml:"output"`
	Searches      map[string]Search `yaml:"searches"`
}

// Browser selects and tunes the automation engine.
type Browser struct {
	Engine      string `yaml:"engine"` //"chromium" (default), "chrome" or "firefox"
	Headless    bool   `yaml:"headless"`
	CookiesPath string `yaml:"cookies_path"` //optional cookie jar JSON
}

// Driver converts the section into the browser package's config.
func (b Browser) Driver() browser.Config {
	return browser.Config{
		Engine:      b.Engine,
		Headless:    b.Headless,
		CookiesPath: b.CookiesPath,
	}
}

// USNLX tunes the job-board scraper.
type USNLX struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` //per element wait, not a global deadline
	MaxMoreClicks  int    `yaml:"max_more_clicks"`
	DetailWorkers  int    `yaml:"detail_workers"`
}

// Timeout is the bounded wait applied to each element lookup.
func (u USNLX) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// CareerOneStop configures the jobs API client. UserID and Token come from
// the CAREERONESTOP_USER_ID / CAREERONESTOP_TOKEN env vars; without them the
// client skips API searches instead of failing.
type CareerOneStop struct {
	BaseURL        string `yaml:"base_url"`
	UserID         string `yaml:"user_id"`
	Token          string `yaml:"-"`
	RadiusMiles    int    `yaml:"radius_miles"`
	Days           int    `yaml:"days"` //only jobs posted within this window
	SortColumn     string `yaml:"sort_column"`
	SortOrder      string `yaml:"sort_order"`
	PageSize       int    `yaml:"page_size"`
	MaxStartRow    int    `yaml:"max_start_row"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (c CareerOneStop) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MaxResults is the default result cap: one full page past the last
// reachable start row.
func (c CareerOneStop) MaxResults() int {
	return c.MaxStartRow + c.PageSize
}

// Telegram enables the Telegram result writer when both fields are set.
type Telegram struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// Output controls where results are written besides the console.
type Output struct {
	JSONPath string `yaml:"json_path"` //empty = no JSON file
}

// Search is a named, reusable set of search parameters.
type Search struct {
	Role            string   `yaml:"role"`
	City            string   `yaml:"city"`
	RadiusMiles     int      `yaml:"radius_miles"`
	IncludeKeywords []string `yaml:"include_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// Params converts the preset into the value object the scrapers take.
func (s Search) Params() scraper.SearchParams {
	return scraper.SearchParams{
		Role:            s.Role,
		City:            s.City,
		RadiusMiles:     s.RadiusMiles,
		IncludeKeywords: s.IncludeKeywords,
		ExcludeKeywords: s.ExcludeKeywords,
	}
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Browser: Browser{
			Engine:   "chromium",
			Headless: true,
		},
		USNLX: USNLX{
			BaseURL:        "https://usnlx.com/jobs/",
			TimeoutSeconds: 10,
			MaxMoreClicks:  50,
			DetailWorkers:  10,
		},
		CareerOneStop: CareerOneStop{
			BaseURL:        "https://api.careeronestop.org/v1/jobsearch",
			RadiusMiles:    25,
			Days:           30,
			SortColumn:     "0",
			SortOrder:      "0",
			PageSize:       250,
			MaxStartRow:    500,
			TimeoutSeconds: 15,
		},
	}
}

// Load builds the config from defaults, then the YAML file at path, then
// environment variables, in that order. A missing file is only a warning;
// the defaults are enough to run the board scraper.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v. Using defaults.", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	//Override with env vars
	if userID := os.Getenv("CAREERONESTOP_USER_ID"); userID != "" {
		cfg.CareerOneStop.UserID = userID
	}
	if token := os.Getenv("CAREERONESTOP_TOKEN"); token != "" {
		cfg.CareerOneStop.Token = token
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}

	//Backstop nonsensical values rather than failing
	if cfg.USNLX.DetailWorkers < 1 {
		cfg.USNLX.DetailWorkers = Default().USNLX.DetailWorkers
	}
	if cfg.USNLX.MaxMoreClicks < 0 {
		cfg.USNLX.MaxMoreClicks = 0
	}
	if cfg.USNLX.TimeoutSeconds < 1 {
		cfg.USNLX.TimeoutSeconds = Default().USNLX.TimeoutSeconds
	}
	if cfg.CareerOneStop.PageSize < 1 {
		cfg.CareerOneStop.PageSize = Default().CareerOneStop.PageSize
	}

	return cfg, nil
}
