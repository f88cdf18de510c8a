// Owns the browser engine lifecycle
// One Manager per search run, one Session per worker

package browser

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// ErrUnavailable marks environment-level failures: the Playwright driver or
// the browser binary itself cannot be brought up. Callers treat it as fatal
// for the whole search, unlike every scraping-level error.
var ErrUnavailable = errors.New("browser engine unavailable")

// Config selects and tunes the browser engine.
type Config struct {
	Engine      string //"chromium" (default), "chrome" or "firefox"
	Headless    bool
	CookiesPath string //optional cookie jar JSON loaded into every session
}

//flags for running chromium inside containers/CI
var chromiumArgs = []string{
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
}

// Manager owns the Playwright runtime and one launched browser. Sessions
// handed out by NewSession are isolated contexts of that browser.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     Config

	closeOnce sync.Once
	closeErr  error
}

// NewManager starts the Playwright driver and launches the configured
// engine. Failures wrap ErrUnavailable.
func NewManager(cfg Config) (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: starting playwright driver: %w", ErrUnavailable, err)
	}

	var b playwright.Browser
	switch cfg.Engine {
	case "firefox":
		b, err = pw.Firefox.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(cfg.Headless),
		})
	case "", "chromium", "chrome":
		opts := playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(cfg.Headless),
			Args:     chromiumArgs,
		}
		if cfg.Engine == "chrome" {
			//branded Chrome install instead of bundled chromium
			opts.Channel = playwright.String("chrome")
		}
		b, err = pw.Chromium.Launch(opts)
	default:
		pw.Stop()
		return nil, fmt.Errorf("%w: unknown engine %q", ErrUnavailable, cfg.Engine)
	}
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("%w: launching %s: %w", ErrUnavailable, cfg.Engine, err)
	}

	return &Manager{pw: pw, browser: b, cfg: cfg}, nil
}

// NewSession opens an isolated browser context with a single page. Sessions
// are not safe for concurrent navigation; give each worker its own.
func (m *Manager) NewSession() (*Session, error) {
	ctx, err := m.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("%w: creating browser context: %w", ErrUnavailable, err)
	}

	if m.cfg.CookiesPath != "" {
		cookies, err := LoadCookies(m.cfg.CookiesPath)
		if err != nil {
			log.Printf("⚠️ Could not load cookies from %s: %v. Continuing.", m.cfg.CookiesPath, err)
		} else if err := ctx.AddCookies(cookies); err != nil {
			log.Printf("⚠️ Could not apply cookies: %v. Continuing.", err)
		}
	}

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: opening page: %w", ErrUnavailable, err)
	}

	return &Session{ctx: ctx, page: page}, nil
}

// Close tears down the browser and stops the driver. Safe to call more than
// once; later calls return the first result.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		if err := m.browser.Close(); err != nil {
			m.closeErr = err
		}
		if err := m.pw.Stop(); err != nil && m.closeErr == nil {
			m.closeErr = err
		}
	})
	return m.closeErr
}

// Session is one isolated browser context holding a single page.
type Session struct {
	ctx  playwright.BrowserContext
	page playwright.Page

	closeOnce sync.Once
	closeErr  error
}

// Page exposes the session's page for navigation.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Close releases the session. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.ctx.Close()
	})
	return s.closeErr
}
