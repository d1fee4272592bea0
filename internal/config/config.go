package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for newsbot.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"    yaml:"site"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SiteConfig describes the target site and its selector set.
type SiteConfig struct {
	Preset       string    `mapstructure:"preset"        yaml:"preset"`
	BaseURL      string    `mapstructure:"base_url"      yaml:"base_url"`
	CategoryURL  string    `mapstructure:"category_url"  yaml:"category_url"`
	ArticleURL   string    `mapstructure:"article_url"   yaml:"article_url"`
	SearchPhrase string    `mapstructure:"search_phrase" yaml:"search_phrase"`
	SearchWait   string    `mapstructure:"search_wait"   yaml:"search_wait"` // clickable, visible
	Selectors    Selectors `mapstructure:"selectors"     yaml:"selectors"`
}

// Selectors is the per-site selector set. Each value accepts an optional
// kind prefix: css=, id=, class=, xpath=. Title, date, description and
// image are looked up inside each article; an XPath starting with / is
// read relative to the article (//time acts as .//time).
type Selectors struct {
	SearchInput    string `mapstructure:"search_input"    yaml:"search_input"`
	CategoryLink   string `mapstructure:"category_link"   yaml:"category_link"`
	Article        string `mapstructure:"article"         yaml:"article"`
	Title          string `mapstructure:"title"           yaml:"title"`
	Date           string `mapstructure:"date"            yaml:"date"`
	Description    string `mapstructure:"description"     yaml:"description"`
	Image          string `mapstructure:"image"           yaml:"image"`
	ImageAttribute string `mapstructure:"image_attribute" yaml:"image_attribute"`
}

// BrowserConfig controls the browser driver.
type BrowserConfig struct {
	Driver          string        `mapstructure:"driver"            yaml:"driver"` // rod, static
	Headless        bool          `mapstructure:"headless"          yaml:"headless"`
	Stealth         bool          `mapstructure:"stealth"           yaml:"stealth"`
	Bin             string        `mapstructure:"bin"               yaml:"bin"`
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	StepTimeout     time.Duration `mapstructure:"step_timeout"      yaml:"step_timeout"`
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout" yaml:"page_load_timeout"`
	RunDeadline     time.Duration `mapstructure:"run_deadline"      yaml:"run_deadline"`
}

// OutputConfig controls the exported table, images and the optional mirror.
type OutputConfig struct {
	Format          string        `mapstructure:"format"           yaml:"format"` // xlsx, csv
	Path            string        `mapstructure:"path"             yaml:"path"`
	ImageDir        string        `mapstructure:"image_dir"        yaml:"image_dir"`
	ImageTimeout    time.Duration `mapstructure:"image_timeout"    yaml:"image_timeout"`
	MongoURI        string        `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string        `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string        `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `mapstructure:"level"         yaml:"level"`
	ConsoleLevel string `mapstructure:"console_level" yaml:"console_level"`
	File         string `mapstructure:"file"          yaml:"file"`
	Color        bool   `mapstructure:"color"         yaml:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Preset: "aljazeera",
		},
		Browser: BrowserConfig{
			Driver:          "rod",
			Headless:        true,
			StepTimeout:     10 * time.Second,
			PageLoadTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			Format:          "xlsx",
			Path:            "news_data.xlsx",
			ImageDir:        ".",
			ImageTimeout:    60 * time.Second,
			MongoDatabase:   "newsbot",
			MongoCollection: "articles",
		},
		Logging: LoggingConfig{
			Level:        "debug",
			ConsoleLevel: "info",
			File:         "bots_logs.log",
		},
	}
}
