package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/IshaanNene/newsbot/internal/types"
)

func invalid(key, format string, args ...any) error {
	return &types.ConfigError{Key: key, Err: fmt.Errorf(format, args...)}
}

// Validate checks the configuration for invalid values. The first problem
// is returned as a *types.ConfigError naming the offending key.
func Validate(cfg *Config) error {
	if cfg.Site.BaseURL == "" {
		return invalid("site.base_url", "required (set it or pick a preset)")
	}
	for _, f := range []struct{ key, raw string }{
		{"site.base_url", cfg.Site.BaseURL},
		{"site.category_url", cfg.Site.CategoryURL},
		{"site.article_url", cfg.Site.ArticleURL},
	} {
		if f.raw == "" {
			continue
		}
		if err := ValidateURL(f.raw); err != nil {
			return &types.ConfigError{Key: f.key, Err: err}
		}
	}
	if cfg.Site.SearchWait != "clickable" && cfg.Site.SearchWait != "visible" {
		return invalid("site.search_wait", "must be 'clickable' or 'visible', got %q", cfg.Site.SearchWait)
	}

	if cfg.Browser.Driver != "rod" && cfg.Browser.Driver != "static" {
		return invalid("browser.driver", "must be 'rod' or 'static', got %q", cfg.Browser.Driver)
	}
	if cfg.Browser.StepTimeout <= 0 {
		return invalid("browser.step_timeout", "must be > 0")
	}
	if cfg.Browser.PageLoadTimeout <= 0 {
		return invalid("browser.page_load_timeout", "must be > 0")
	}
	if cfg.Browser.RunDeadline < 0 {
		return invalid("browser.run_deadline", "must be >= 0")
	}

	if cfg.Output.Format != "xlsx" && cfg.Output.Format != "csv" {
		return invalid("output.format", "%q is not supported (valid: xlsx, csv)", cfg.Output.Format)
	}
	if cfg.Output.Path == "" {
		return invalid("output.path", "required")
	}
	if cfg.Output.ImageTimeout <= 0 {
		return invalid("output.image_timeout", "must be > 0")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return invalid("logging.level", "must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if !validLogLevels[cfg.Logging.ConsoleLevel] {
		return invalid("logging.console_level", "must be debug/info/warn/error, got %q", cfg.Logging.ConsoleLevel)
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a navigation target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL must have a host")
	}
	return nil
}
