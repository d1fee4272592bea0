package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/newsbot/internal/types"
)

func TestDefaultConfigValidatesAfterFinalize(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Finalize(cfg))
	require.NoError(t, Validate(cfg))

	require.Equal(t, "https://www.aljazeera.com/", cfg.Site.BaseURL)
	require.Equal(t, "visible", cfg.Site.SearchWait)
	require.Equal(t, 10*time.Second, cfg.Browser.StepTimeout)
}

func TestApplyPresetKeepsExplicitValues(t *testing.T) {
	site := SiteConfig{
		Preset:       "yahoo",
		SearchPhrase: "budget",
		Selectors:    Selectors{Title: "h1"},
	}
	require.NoError(t, ApplyPreset(&site))

	require.Equal(t, "budget", site.SearchPhrase)
	require.Equal(t, "h1", site.Selectors.Title)
	require.Equal(t, "https://news.yahoo.com/", site.BaseURL)
	require.Equal(t, "xpath=//time[@itemprop='datePublished']", site.Selectors.Date)
	require.Empty(t, site.Selectors.Article)
}

func TestApplyPresetUnknown(t *testing.T) {
	site := SiteConfig{Preset: "nope"}
	require.Error(t, ApplyPreset(&site))
}

func TestPresetNamesSorted(t *testing.T) {
	require.Equal(t, []string{"aljazeera", "yahoo"}, PresetNames())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsbot.yaml")
	yaml := `
site:
  preset: ""
  base_url: https://news.example.com/
  search_phrase: tariffs
  selectors:
    search_input: id=q
    article: article.card
    title: h2
browser:
  driver: static
  step_timeout: 3s
output:
  format: csv
  path: out.csv
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	require.Equal(t, "https://news.example.com/", cfg.Site.BaseURL)
	require.Equal(t, "tariffs", cfg.Site.SearchPhrase)
	require.Equal(t, "article.card", cfg.Site.Selectors.Article)
	require.Equal(t, "clickable", cfg.Site.SearchWait)
	require.Equal(t, "static", cfg.Browser.Driver)
	require.Equal(t, 3*time.Second, cfg.Browser.StepTimeout)
	require.Equal(t, "csv", cfg.Output.Format)
	require.Equal(t, "bots_logs.log", cfg.Logging.File)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NEWSBOT_SITE_SEARCH_PHRASE", "elections")
	t.Setenv("NEWSBOT_BROWSER_DRIVER", "static")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "elections", cfg.Site.SearchPhrase)
	require.Equal(t, "static", cfg.Browser.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		mutate func(*Config)
	}{
		{"missing base url", "site.base_url", func(c *Config) { c.Site.BaseURL = "" }},
		{"bad scheme", "site.category_url", func(c *Config) { c.Site.CategoryURL = "ftp://example.com" }},
		{"bad search wait", "site.search_wait", func(c *Config) { c.Site.SearchWait = "present" }},
		{"bad driver", "browser.driver", func(c *Config) { c.Browser.Driver = "selenium" }},
		{"zero step timeout", "browser.step_timeout", func(c *Config) { c.Browser.StepTimeout = 0 }},
		{"negative deadline", "browser.run_deadline", func(c *Config) { c.Browser.RunDeadline = -time.Second }},
		{"bad format", "output.format", func(c *Config) { c.Output.Format = "ods" }},
		{"bad log level", "logging.level", func(c *Config) { c.Logging.Level = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			require.NoError(t, Finalize(cfg))
			tt.mutate(cfg)

			var cfgErr *types.ConfigError
			require.ErrorAs(t, Validate(cfg), &cfgErr)
			require.Equal(t, tt.key, cfgErr.Key)
		})
	}
}
