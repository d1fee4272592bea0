// Package browser abstracts the controlled browser behind a small
// capability interface so the scrape routine can run against go-rod, a
// static HTTP+DOM driver, or a test fake.
package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/newsbot/internal/config"
)

// Driver is the page-level capability set the scraper relies on. Every
// lookup is bounded by the driver's step timeout and by ctx.
type Driver interface {
	// Navigate loads url, bounded by the page load timeout.
	Navigate(ctx context.Context, url string) error

	// FindElement waits for the first element matching sel to be present.
	FindElement(ctx context.Context, sel Selector) (Element, error)

	// FindElements waits for at least one match and returns all of them in
	// document order. No match within the wait yields an empty slice.
	FindElements(ctx context.Context, sel Selector) ([]Element, error)

	// WaitVisible waits for the first match to be visible.
	WaitVisible(ctx context.Context, sel Selector) (Element, error)

	// WaitClickable waits for the first match to be visible and interactable.
	WaitClickable(ctx context.Context, sel Selector) (Element, error)

	// CurrentURL is the URL of the loaded page, after redirects.
	CurrentURL() string

	// Close releases the page and the browser process.
	Close() error
}

// Element is a handle to a node on the current page.
type Element interface {
	Text() (string, error)

	// Attribute returns the named attribute and whether it was present.
	Attribute(name string) (string, bool, error)

	// FindElement waits for a descendant matching sel.
	FindElement(ctx context.Context, sel Selector) (Element, error)

	Input(text string) error

	// Submit submits the form the element belongs to.
	Submit(ctx context.Context) error
}

// New builds the driver named by cfg.Browser.Driver.
func New(cfg *config.Config, logger *slog.Logger) (Driver, error) {
	switch cfg.Browser.Driver {
	case "rod":
		return NewRodDriver(&cfg.Browser, logger)
	case "static":
		return NewStaticDriver(&cfg.Browser, logger), nil
	default:
		return nil, fmt.Errorf("unsupported browser driver: %s", cfg.Browser.Driver)
	}
}
