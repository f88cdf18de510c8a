package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/scraper"
)

func TestJSONWriterCreatesDirsAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jobs.json")
	jw := NewJSONWriter(path)

	require.NoError(t, jw.WriteJobs(sampleEnriched()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []scraper.Enriched
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Senior Graphic Designer", decoded[0].Title)
	assert.Equal(t, scraper.EmploymentFullTime, decoded[0].EmploymentType)
	assert.Equal(t, []string{"graphic"}, decoded[0].MatchedKeywords)
	assert.False(t, decoded[0].ScrapedAt.IsZero())

	//unset detail fields are omitted, not written as empty strings
	assert.Contains(t, string(data), `"scraped_at"`)
	assert.NotContains(t, string(data), `"remote_status"`)
}

func TestJSONWriterSkipsEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")

	require.NoError(t, NewJSONWriter(path).WriteJobs(nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file for an empty batch")
}
