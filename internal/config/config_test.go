package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  port: 9090
job_titles: [" developer ", "developer", "programador"]
tools_technologies: [python]
locations: [Quito]
sources:
  remoteok:
    enabled: true
scraping:
  workers_api: 4
`

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 4, cfg.Scraping.WorkersAPI)
	assert.Equal(t, 2, cfg.Scraping.WorkersScrape, "scrape workers default to min(2, workers_api)")
	assert.Equal(t, 50, cfg.Scraping.MaxJobsPerSource)
	assert.Equal(t, "data/jobs.db", cfg.DataStorage.SQLitePath)
}

func TestNormalizeAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	out, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK(), "errors: %v", res.Errors)
	assert.Equal(t, []string{"developer", "programador"}, out.JobTitles, "trimmed and deduped")
}

func TestValidateRejectsEmptyKeywordPools(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
	assert.Contains(t, res.Errors[0], "no keywords configured")
}
