package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
profile:
  name: "test"
filters:
  title_keywords: ["developer relations", " DevRel ", "developer relations"]
  exclude_keywords: ["intern"]
  location:
    remote_only: true
scoring:
  min_score: 50
scraping:
  request_delay: 1.5
sources:
  lever:
    enabled: true
    companies:
      - { name: "Acme", slug: "acme" }
  html_boards:
    enabled: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAndNormalize(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	cfg, v := NormalizeAndValidate(cfg)
	require.True(t, v.OK(), "errors: %v", v.Errors)

	assert.Equal(t, "test", cfg.Profile.Name)
	assert.Equal(t, []string{"developer relations", "DevRel"}, cfg.Filters.TitleKeywords,
		"keywords are trimmed and deduped")
	assert.True(t, cfg.Filters.Location.RemoteOnly)
	assert.Equal(t, 1.5, cfg.Scraping.RequestDelay)

	// defaults filled in
	assert.Equal(t, 35, cfg.Scoring.TitleWeight)
	assert.Equal(t, 30, cfg.Scoring.KeywordWeight)
	assert.Equal(t, 15, cfg.Scoring.LocationWeight)
	assert.Equal(t, 20, cfg.Scoring.RecencyWeight)
	assert.Equal(t, 30, cfg.Scoring.RecencyHorizonDays)
	assert.Equal(t, 20, cfg.Scoring.MaxResults)
}

func TestValidateRejectsBadWeights(t *testing.T) {
	var cfg Config
	cfg.Scoring.TitleWeight = 50
	cfg.Scoring.KeywordWeight = 50
	cfg.Scoring.LocationWeight = 50
	cfg.Scoring.RecencyWeight = 50

	_, v := NormalizeAndValidate(cfg)
	require.False(t, v.OK())
	assert.Contains(t, v.Errors[0], "weights must sum to 100")
}

func TestValidateRejectsBadMinScore(t *testing.T) {
	var cfg Config
	cfg.Scoring.MinScore = 150

	_, v := NormalizeAndValidate(cfg)
	require.False(t, v.OK())
}

func TestValidateWarnsOnConflictingLocations(t *testing.T) {
	var cfg Config
	cfg.Filters.Location.Preferred = []string{"Berlin"}
	cfg.Filters.Location.Excluded = []string{"berlin"}

	_, v := NormalizeAndValidate(cfg)
	assert.True(t, v.OK(), "a conflict is a warning, not an error")
	require.NotEmpty(t, v.Warnings)
}

func TestValidateHTMLSiteFields(t *testing.T) {
	var cfg Config
	cfg.Sources.HTMLBoards.Enabled = true
	cfg.Sources.HTMLBoards.Sites = []HTMLSite{{Name: "incomplete"}}

	_, v := NormalizeAndValidate(cfg)
	require.False(t, v.OK())
}

func TestEnsureUserConfig(t *testing.T) {
	dataDir := t.TempDir()
	defaultPath := writeConfig(t, sampleYAML)

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	// second call returns the existing copy untouched
	require.NoError(t, os.WriteFile(userPath, []byte("profile:\n  name: edited\n"), 0o644))
	again, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)

	cfg, err := Load(again)
	require.NoError(t, err)
	assert.Equal(t, "edited", cfg.Profile.Name)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JOBSCOUT_DATA_DIR", "/var/lib/jobscout")
	t.Setenv("JOBSCOUT_WEBHOOK_URL", "https://hooks.example/abc")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/jobscout", e.DataDir)
	assert.Equal(t, "https://hooks.example/abc", e.WebhookURL)
}
