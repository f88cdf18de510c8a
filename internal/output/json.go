package output

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"jobscout/internal/scraper"
)

// JSONWriter saves jobs to a pretty-printed JSON file, creating parent
// directories as needed.
type JSONWriter struct {
	Path string
}

func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{Path: path}
}

func (jw *JSONWriter) WriteJobs(jobs []scraper.Enriched) error {
	if len(jobs) == 0 {
		log.Println("ℹ️ No jobs to save.")
		return nil
	}

	if dir := filepath.Dir(jw.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling jobs: %w", err)
	}
	if err := os.WriteFile(jw.Path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", jw.Path, err)
	}

	log.Printf("📁 Saved %d jobs to %s", len(jobs), jw.Path)
	return nil
}
