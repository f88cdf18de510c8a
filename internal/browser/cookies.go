package browser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"
)

//Cookie represents a browser cookie loaded from a JSON jar file
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

//LoadCookies reads a JSON cookie jar and converts it for BrowserContext.AddCookies
func LoadCookies(path string) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cookie jar: %w", err)
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parsing cookie jar: %w", err)
	}

	pwCookies := make([]playwright.OptionalCookie, len(cookies))
	for i, c := range cookies {
		pwCookies[i] = c.ToPlaywright()
	}
	return pwCookies, nil
}

func (c Cookie) ToPlaywright() playwright.OptionalCookie {
	pc := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(c.Path),
	}

	if c.Expires > 0 {
		pc.Expires = playwright.Float(c.Expires)
	}

	if c.HTTPOnly {
		pc.HttpOnly = playwright.Bool(true)
	}

	if c.Secure {
		pc.Secure = playwright.Bool(true)
	}

	switch c.SameSite {
	case "Lax":
		pc.SameSite = playwright.SameSiteAttributeLax
	case "Strict":
		pc.SameSite = playwright.SameSiteAttributeStrict
	case "None":
		pc.SameSite = playwright.SameSiteAttributeNone
	}

	return pc
}
