package config

import (
	"fmt"
	"sort"
)

// presets reproduce the site variants newsbot was first written against.
// Selectors are tied to one snapshot of each site's markup.
var presets = map[string]SiteConfig{
	"aljazeera": {
		BaseURL:      "https://www.aljazeera.com/",
		SearchPhrase: "Donald Trump",
		SearchWait:   "visible",
		Selectors: Selectors{
			SearchInput:    "id=header-search__input",
			CategoryLink:   ".menu-level a",
			Article:        ".article-mezzoti",
			Title:          ".top-sec-item > h2",
			Date:           ".release-date",
			Description:    ".description",
			Image:          ".lazyimg.lazyimage source",
			ImageAttribute: "data-srcset",
		},
	},
	"yahoo": {
		BaseURL:      "https://news.yahoo.com/",
		CategoryURL:  "https://yahoo.com/news/politics/",
		ArticleURL:   "https://www.yahoo.com/news/netanyahu-says-9-chilling-words-151443025.html",
		SearchPhrase: "Netanyahu",
		SearchWait:   "clickable",
		Selectors: Selectors{
			SearchInput:    "id=ybar-sbq",
			Title:          "class=caas-title-wrapper",
			Date:           "xpath=//time[@itemprop='datePublished']",
			Description:    "class=caas-body",
			Image:          "class=caas-img",
			ImageAttribute: "src",
		},
	},
}

// Preset returns the named built-in site configuration.
func Preset(name string) (SiteConfig, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames returns the built-in preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset fills every empty site field from the configured preset.
// Explicitly configured values always win.
func ApplyPreset(site *SiteConfig) error {
	if site.Preset == "" {
		return nil
	}
	p, ok := presets[site.Preset]
	if !ok {
		return fmt.Errorf("unknown site preset %q (known: %v)", site.Preset, PresetNames())
	}

	fill(&site.BaseURL, p.BaseURL)
	fill(&site.CategoryURL, p.CategoryURL)
	fill(&site.ArticleURL, p.ArticleURL)
	fill(&site.SearchPhrase, p.SearchPhrase)
	fill(&site.SearchWait, p.SearchWait)

	s, ps := &site.Selectors, p.Selectors
	fill(&s.SearchInput, ps.SearchInput)
	fill(&s.CategoryLink, ps.CategoryLink)
	fill(&s.Article, ps.Article)
	fill(&s.Title, ps.Title)
	fill(&s.Date, ps.Date)
	fill(&s.Description, ps.Description)
	fill(&s.Image, ps.Image)
	fill(&s.ImageAttribute, ps.ImageAttribute)
	return nil
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
