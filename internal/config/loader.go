package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults, then
// fills the site section from its preset.
// Priority (highest to lowest): env vars > config file > preset > defaults.
// CLI flags are applied by the caller on the returned Config.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("NEWSBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("newsbot")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newsbot"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize applies the site preset and the defaults that depend on it.
// It is safe to call more than once, e.g. after CLI overrides change the preset.
func Finalize(cfg *Config) error {
	if err := ApplyPreset(&cfg.Site); err != nil {
		return err
	}
	if cfg.Site.SearchWait == "" {
		cfg.Site.SearchWait = "clickable"
	}
	return nil
}

// setDefaults registers default values in viper. Every key is registered,
// even empty ones, so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("site.preset", cfg.Site.Preset)
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("site.category_url", cfg.Site.CategoryURL)
	v.SetDefault("site.article_url", cfg.Site.ArticleURL)
	v.SetDefault("site.search_phrase", cfg.Site.SearchPhrase)
	v.SetDefault("site.search_wait", cfg.Site.SearchWait)
	v.SetDefault("site.selectors.search_input", "")
	v.SetDefault("site.selectors.category_link", "")
	v.SetDefault("site.selectors.article", "")
	v.SetDefault("site.selectors.title", "")
	v.SetDefault("site.selectors.date", "")
	v.SetDefault("site.selectors.description", "")
	v.SetDefault("site.selectors.image", "")
	v.SetDefault("site.selectors.image_attribute", "")

	v.SetDefault("browser.driver", cfg.Browser.Driver)
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.bin", cfg.Browser.Bin)
	v.SetDefault("browser.user_agent", cfg.Browser.UserAgent)
	v.SetDefault("browser.step_timeout", cfg.Browser.StepTimeout)
	v.SetDefault("browser.page_load_timeout", cfg.Browser.PageLoadTimeout)
	v.SetDefault("browser.run_deadline", cfg.Browser.RunDeadline)

	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.path", cfg.Output.Path)
	v.SetDefault("output.image_dir", cfg.Output.ImageDir)
	v.SetDefault("output.image_timeout", cfg.Output.ImageTimeout)
	v.SetDefault("output.mongo_uri", cfg.Output.MongoURI)
	v.SetDefault("output.mongo_database", cfg.Output.MongoDatabase)
	v.SetDefault("output.mongo_collection", cfg.Output.MongoCollection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console_level", cfg.Logging.ConsoleLevel)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.color", cfg.Logging.Color)
}
