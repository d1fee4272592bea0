// Package scraper runs the fixed scrape sequence against one site: open the
// home page, search, move to a category, extract every article, export.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/IshaanNene/newsbot/internal/browser"
	"github.com/IshaanNene/newsbot/internal/config"
	"github.com/IshaanNene/newsbot/internal/media"
	"github.com/IshaanNene/newsbot/internal/observability"
	"github.com/IshaanNene/newsbot/internal/storage"
	"github.com/IshaanNene/newsbot/internal/types"
)

// ImageDownloader saves an image URL to disk and returns the file name.
type ImageDownloader interface {
	DownloadImage(ctx context.Context, rawURL string) (string, error)
}

// Scraper drives one run against one site.
type Scraper struct {
	site   config.SiteConfig
	driver browser.Driver
	images ImageDownloader
	store  storage.Storage
	stats  *observability.RunStats
	logger *slog.Logger
}

// New creates a Scraper. Run always closes driver; store is closed only by a
// successful export, so an aborted run writes no output.
func New(site config.SiteConfig, driver browser.Driver, images ImageDownloader, store storage.Storage, logger *slog.Logger) *Scraper {
	return &Scraper{
		site:   site,
		driver: driver,
		images: images,
		store:  store,
		stats:  observability.NewRunStats(logger),
		logger: logger.With("component", "scraper"),
	}
}

// SetStats replaces the run counters, e.g. to share them with the downloader.
func (s *Scraper) SetStats(stats *observability.RunStats) {
	s.stats = stats
}

// Stats returns the run counters.
func (s *Scraper) Stats() *observability.RunStats {
	return s.stats
}

// Run executes open, search, select category, extract and export once.
// Navigation and lookup failures are logged and the run goes on with
// whatever page is loaded. A failed image download or export aborts the run.
// The driver is closed on every path, including panics.
func (s *Scraper) Run(ctx context.Context) (err error) {
	s.logger.Info("starting news bot",
		"site", s.site.BaseURL,
		"search_phrase", s.site.SearchPhrase,
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", types.ErrRunPanicked, r)
		}
		if err != nil {
			s.logger.Error("an error occurred during the bot execution", "error", err)
		}
		if cerr := s.driver.Close(); cerr != nil {
			s.logger.Warn("failed to close browser", "error", cerr)
		}
	}()

	s.step(s.OpenSite(ctx, s.site.BaseURL))
	s.step(s.Search(ctx, s.site.SearchPhrase))
	s.step(s.SelectCategory(ctx))

	records, err := s.Extract(ctx)
	if err != nil {
		return err
	}
	return s.Export(records)
}

func (s *Scraper) step(err error) {
	if err != nil {
		s.stats.StepsFailed.Add(1)
	}
}

// OpenSite navigates to rawURL. The error is logged here; callers may ignore it.
func (s *Scraper) OpenSite(ctx context.Context, rawURL string) error {
	s.logger.Info("opening website", "url", rawURL)
	if err := s.driver.Navigate(ctx, rawURL); err != nil {
		s.logger.Error("failed to open website", "url", rawURL, "error", err)
		return err
	}
	return nil
}

// Search types term into the configured search input and submits it.
func (s *Scraper) Search(ctx context.Context, term string) error {
	if term == "" || s.site.Selectors.SearchInput == "" {
		s.logger.Info("search skipped", "reason", "no search phrase or input selector")
		return nil
	}
	sel := browser.ParseSelector(s.site.Selectors.SearchInput)

	var (
		input browser.Element
		err   error
	)
	if s.site.SearchWait == "visible" {
		input, err = s.driver.WaitVisible(ctx, sel)
	} else {
		input, err = s.driver.WaitClickable(ctx, sel)
	}
	if err != nil {
		s.logger.Error("error during search", "selector", sel.String(), "error", err)
		return &types.ElementError{Step: "search", Selector: sel.String(), Err: err}
	}

	if err := input.Input(term); err != nil {
		s.logger.Error("error during search", "step", "input", "error", err)
		return fmt.Errorf("search input: %w", err)
	}
	if err := input.Submit(ctx); err != nil {
		s.logger.Error("error during search", "step", "submit", "error", err)
		return fmt.Errorf("search submit: %w", err)
	}

	s.logger.Info("search successful", "term", term, "url", s.driver.CurrentURL())
	return nil
}

// SelectCategory moves to the category listing, either by a fixed URL or
// by following the configured category link.
func (s *Scraper) SelectCategory(ctx context.Context) error {
	switch {
	case s.site.CategoryURL != "":
		s.logger.Info("attempting to select news category", "url", s.site.CategoryURL)
		if err := s.driver.Navigate(ctx, s.site.CategoryURL); err != nil {
			s.logger.Error("error selecting news category", "error", err)
			return err
		}

	case s.site.Selectors.CategoryLink != "":
		sel := browser.ParseSelector(s.site.Selectors.CategoryLink)
		s.logger.Info("attempting to select news category", "selector", sel.String())

		link, err := s.driver.WaitVisible(ctx, sel)
		if err != nil {
			s.logger.Error("error selecting news category", "error", err)
			return &types.ElementError{Step: "category", Selector: sel.String(), Err: err}
		}
		href, ok, err := link.Attribute("href")
		if err != nil || !ok || href == "" {
			s.logger.Error("error selecting news category", "reason", "link has no href", "error", err)
			return &types.ElementError{Step: "category", Selector: sel.String(), Err: types.ErrElementNotFound}
		}
		target := s.resolve(href)
		if err := s.driver.Navigate(ctx, target); err != nil {
			s.logger.Error("error selecting news category", "url", target, "error", err)
			return err
		}

	default:
		s.logger.Debug("no news category configured")
		return nil
	}

	s.logger.Info("news category selected successfully", "url", s.driver.CurrentURL())
	return nil
}

// LocateArticles returns the article containers matching rawSel in
// document order, possibly none.
func (s *Scraper) LocateArticles(ctx context.Context, rawSel string) []browser.Element {
	sel := browser.ParseSelector(rawSel)
	articles, err := s.driver.FindElements(ctx, sel)
	if err != nil {
		s.logger.Warn("failed to locate articles", "selector", sel.String(), "error", err)
		return nil
	}
	s.logger.Info("articles located", "selector", sel.String(), "count", len(articles))
	return articles
}

// Extract reads every article on the current page (or on the configured
// article page) into records. Only an image download failure is returned.
func (s *Scraper) Extract(ctx context.Context) ([]types.ArticleRecord, error) {
	s.logger.Info("extracting news data")

	if s.site.ArticleURL != "" {
		s.step(s.OpenSite(ctx, s.site.ArticleURL))
	}

	// A nil container means the page itself is the single article.
	containers := []browser.Element{nil}
	if s.site.Selectors.Article != "" {
		containers = s.LocateArticles(ctx, s.site.Selectors.Article)
	}
	s.stats.ArticlesFound.Add(int64(len(containers)))

	records := make([]types.ArticleRecord, 0, len(containers))
	for i, c := range containers {
		rec, err := s.extractRecord(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("article %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Scraper) extractRecord(ctx context.Context, container browser.Element) (types.ArticleRecord, error) {
	sels := s.site.Selectors
	title := s.ExtractField(ctx, container, sels.Title)
	date := s.ExtractField(ctx, container, sels.Date)
	description := s.ExtractField(ctx, container, sels.Description)

	attr := sels.ImageAttribute
	if attr == "" {
		attr = "src"
	}
	imageURL := s.ExtractAttribute(ctx, container, sels.Image, attr)

	filename, err := s.images.DownloadImage(ctx, imageURL)
	if err != nil {
		return types.ArticleRecord{}, err
	}

	return types.ArticleRecord{
		Title:             title,
		PublishedDate:     date,
		Description:       description,
		ImageFilename:     filename,
		SearchPhraseCount: CountSearchPhrase(s.site.SearchPhrase, title, description),
		ContainsMoney:     ClassifyMoneyMention(title, description),
	}, nil
}

// ExtractField returns the whitespace-normalized text of the element
// matching rawSel inside container (nil: the page), or "" when it does not
// show up within the wait.
func (s *Scraper) ExtractField(ctx context.Context, container browser.Element, rawSel string) string {
	if rawSel == "" {
		return ""
	}
	sel := browser.ParseSelector(rawSel)

	var (
		el  browser.Element
		err error
	)
	if container == nil {
		el, err = s.driver.WaitVisible(ctx, sel)
	} else {
		el, err = container.FindElement(ctx, sel)
	}
	if err != nil {
		s.stats.FieldsMissing.Add(1)
		s.logger.Warn("element not found or not visible", "selector", sel.String(), "error", err)
		return ""
	}

	text, err := el.Text()
	if err != nil {
		s.stats.FieldsMissing.Add(1)
		s.logger.Warn("failed to read element text", "selector", sel.String(), "error", err)
		return ""
	}
	return normalizeSpace(text)
}

// ExtractAttribute returns attribute name of the element matching rawSel
// inside container (nil: the page), or "" when absent. URL-valued
// attributes are resolved against the current page; for srcset values the
// first candidate is used.
func (s *Scraper) ExtractAttribute(ctx context.Context, container browser.Element, rawSel, name string) string {
	if rawSel == "" || name == "" {
		return ""
	}
	sel := browser.ParseSelector(rawSel)

	var (
		el  browser.Element
		err error
	)
	if container == nil {
		el, err = s.driver.FindElement(ctx, sel)
	} else {
		el, err = container.FindElement(ctx, sel)
	}
	if err != nil {
		s.stats.FieldsMissing.Add(1)
		s.logger.Warn("element not found", "selector", sel.String(), "attribute", name, "error", err)
		return ""
	}

	v, ok, err := el.Attribute(name)
	if err != nil || !ok {
		s.stats.FieldsMissing.Add(1)
		s.logger.Warn("attribute not present", "selector", sel.String(), "attribute", name, "error", err)
		return ""
	}

	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, "srcset") {
		v = media.FirstSrcsetURL(v)
	}
	if isURLAttribute(lower) {
		v = s.resolve(v)
	}
	return strings.TrimSpace(v)
}

// Export hands records to the store and closes it, which writes the output
// once. Nothing is persisted before this point. When Store fails the store
// is left unclosed, so no partial output is written.
func (s *Scraper) Export(records []types.ArticleRecord) error {
	if err := s.store.Store(records); err != nil {
		s.logger.Error("failed to buffer records, nothing written", "backend", s.store.Name(), "error", err)
		return fmt.Errorf("store records: %w", err)
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("export records: %w", err)
	}
	s.stats.RecordsExported.Add(int64(len(records)))
	s.logger.Info("news data saved", "backend", s.store.Name(), "records", len(records))
	return nil
}

func isURLAttribute(name string) bool {
	switch name {
	case "src", "href", "data-src", "srcset", "data-srcset", "data-lazy-src", "poster":
		return true
	}
	return false
}

// resolve makes ref absolute against the current page URL.
func (s *Scraper) resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	base, err := url.Parse(s.driver.CurrentURL())
	if err != nil || !base.IsAbs() {
		return ref
	}
	return base.ResolveReference(u).String()
}
