package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/newsbot/internal/config"
	"github.com/IshaanNene/newsbot/internal/types"
)

// RodDriver implements Driver on a single Chromium page controlled by Rod.
type RodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	cfg      *config.BrowserConfig
	logger   *slog.Logger
	closed   bool
}

// NewRodDriver launches Chromium and opens the page the run will drive.
func NewRodDriver(cfg *config.BrowserConfig, logger *slog.Logger) (*RodDriver, error) {
	d := &RodDriver{
		cfg:    cfg,
		logger: logger.With("component", "rod_driver"),
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	d.launcher = l

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	d.browser = browser

	var page *rod.Page
	if cfg.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	d.page = page

	if cfg.UserAgent != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent})
		if err != nil {
			d.logger.Warn("failed to set user agent", "error", err)
		}
	}

	d.logger.Info("browser ready",
		"headless", cfg.Headless,
		"stealth", cfg.Stealth,
		"step_timeout", cfg.StepTimeout,
	)
	return d, nil
}

// Navigate loads url and waits for the load event.
func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	if d.closed {
		return types.ErrDriverClosed
	}
	p := d.page.Context(ctx).Timeout(d.cfg.PageLoadTimeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	d.logger.Debug("page loaded", "url", url)
	return nil
}

// FindElement waits up to the step timeout for sel to be present.
func (d *RodDriver) FindElement(ctx context.Context, sel Selector) (Element, error) {
	el, err := d.find(ctx, sel)
	if err != nil {
		return nil, err
	}
	return d.wrap(el.CancelTimeout()), nil
}

// FindElements waits for a first match, then returns every match.
func (d *RodDriver) FindElements(ctx context.Context, sel Selector) ([]Element, error) {
	first, err := d.find(ctx, sel)
	if err != nil {
		if types.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	first.CancelTimeout()

	p := d.page.Context(ctx)
	var els rod.Elements
	if sel.IsXPath() {
		els, err = p.ElementsX(sel.Value)
	} else {
		els, err = p.Elements(sel.CSS())
	}
	if err != nil {
		return nil, &types.ElementError{Selector: sel.String(), Err: err}
	}

	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, d.wrap(el))
	}
	return out, nil
}

// WaitVisible waits for sel to be present and visible.
func (d *RodDriver) WaitVisible(ctx context.Context, sel Selector) (Element, error) {
	el, err := d.find(ctx, sel)
	if err != nil {
		return nil, err
	}
	if err := el.WaitVisible(); err != nil {
		el.CancelTimeout()
		return nil, notFound(sel, fmt.Errorf("not visible: %w", err))
	}
	return d.wrap(el.CancelTimeout()), nil
}

// WaitClickable waits for sel to be visible and not covered by another element.
func (d *RodDriver) WaitClickable(ctx context.Context, sel Selector) (Element, error) {
	el, err := d.find(ctx, sel)
	if err != nil {
		return nil, err
	}
	if err := el.WaitVisible(); err != nil {
		el.CancelTimeout()
		return nil, notFound(sel, fmt.Errorf("not visible: %w", err))
	}
	if _, err := el.WaitInteractable(); err != nil {
		el.CancelTimeout()
		return nil, notFound(sel, fmt.Errorf("not interactable: %w", err))
	}
	return d.wrap(el.CancelTimeout()), nil
}

// CurrentURL returns the URL of the page.
func (d *RodDriver) CurrentURL() string {
	if d.closed || d.page == nil {
		return ""
	}
	info, err := d.page.Info()
	if err != nil || info == nil {
		return ""
	}
	return info.URL
}

// Close shuts down the page, the browser and the launched process.
// It is safe to call more than once.
func (d *RodDriver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var firstErr error
	if d.page != nil {
		if err := d.page.Close(); err != nil {
			firstErr = err
		}
	}
	if d.browser != nil {
		if err := d.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.launcher != nil {
		d.launcher.Kill()
	}
	d.logger.Debug("browser closed")
	return firstErr
}

// find returns the first match still bound to the step timeout; callers
// must CancelTimeout on it.
func (d *RodDriver) find(ctx context.Context, sel Selector) (*rod.Element, error) {
	if d.closed {
		return nil, types.ErrDriverClosed
	}
	if sel.IsZero() {
		return nil, &types.ElementError{Selector: sel.String(), Err: types.ErrEmptySelector}
	}

	p := d.page.Context(ctx).Timeout(d.cfg.StepTimeout)
	var (
		el  *rod.Element
		err error
	)
	if sel.IsXPath() {
		el, err = p.ElementX(sel.Value)
	} else {
		el, err = p.Element(sel.CSS())
	}
	if err != nil {
		p.CancelTimeout()
		return nil, notFound(sel, err)
	}
	return el, nil
}

func (d *RodDriver) wrap(el *rod.Element) Element {
	return &rodElement{el: el, d: d}
}

type rodElement struct {
	el *rod.Element
	d  *RodDriver
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attribute(name string) (string, bool, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *rodElement) FindElement(ctx context.Context, sel Selector) (Element, error) {
	if sel.IsZero() {
		return nil, &types.ElementError{Selector: sel.String(), Err: types.ErrEmptySelector}
	}
	scoped := e.el.Context(ctx).Timeout(e.d.cfg.StepTimeout)

	var (
		el  *rod.Element
		err error
	)
	if sel.IsXPath() {
		el, err = scoped.ElementX(sel.Scoped().Value)
	} else {
		el, err = scoped.Element(sel.CSS())
	}
	if err != nil {
		scoped.CancelTimeout()
		return nil, notFound(sel, err)
	}
	return e.d.wrap(el.CancelTimeout()), nil
}

func (e *rodElement) Input(text string) error {
	if err := e.el.SelectAllText(); err != nil {
		e.d.logger.Debug("select all text failed", "error", err)
	}
	return e.el.Input(text)
}

// Submit presses Enter in the element and waits for the resulting navigation.
func (e *rodElement) Submit(ctx context.Context) error {
	p := e.d.page.Context(ctx).Timeout(e.d.cfg.PageLoadTimeout)
	defer p.CancelTimeout()

	wait := p.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := e.el.Context(ctx).Focus(); err != nil {
		return fmt.Errorf("focus: %w", err)
	}
	if err := p.Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	wait()
	return nil
}

func notFound(sel Selector, err error) error {
	return &types.ElementError{
		Selector: sel.String(),
		Err:      fmt.Errorf("%w: %v", types.ErrElementNotFound, err),
	}
}
