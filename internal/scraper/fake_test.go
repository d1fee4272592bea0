package scraper

import (
	"context"
	"fmt"

	"github.com/IshaanNene/newsbot/internal/browser"
	"github.com/IshaanNene/newsbot/internal/types"
)

// fakeDriver serves one static set of elements keyed by selector string,
// whatever URL was navigated to.
type fakeDriver struct {
	url         string
	navigations []string
	failNav     map[string]bool
	elements    map[string]*fakeElement
	lists       map[string][]*fakeElement
	visibleOnly map[string]bool
	closed      int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		failNav:     map[string]bool{},
		elements:    map[string]*fakeElement{},
		lists:       map[string][]*fakeElement{},
		visibleOnly: map[string]bool{},
	}
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.navigations = append(d.navigations, url)
	if d.failNav[url] {
		return fmt.Errorf("navigate %s: timeout", url)
	}
	d.url = url
	return nil
}

func (d *fakeDriver) FindElement(_ context.Context, sel browser.Selector) (browser.Element, error) {
	if el, ok := d.elements[sel.String()]; ok {
		return el, nil
	}
	return nil, &types.ElementError{Selector: sel.String(), Err: types.ErrElementNotFound}
}

func (d *fakeDriver) FindElements(_ context.Context, sel browser.Selector) ([]browser.Element, error) {
	var out []browser.Element
	for _, el := range d.lists[sel.String()] {
		out = append(out, el)
	}
	return out, nil
}

func (d *fakeDriver) WaitVisible(ctx context.Context, sel browser.Selector) (browser.Element, error) {
	return d.FindElement(ctx, sel)
}

func (d *fakeDriver) WaitClickable(ctx context.Context, sel browser.Selector) (browser.Element, error) {
	if d.visibleOnly[sel.String()] {
		return nil, &types.ElementError{Selector: sel.String(), Err: types.ErrElementNotFound}
	}
	return d.FindElement(ctx, sel)
}

func (d *fakeDriver) CurrentURL() string { return d.url }

func (d *fakeDriver) Close() error {
	d.closed++
	return nil
}

type fakeElement struct {
	text      string
	attrs     map[string]string
	children  map[string]*fakeElement
	typed     []string
	submitted int
	onSubmit  func()
}

func (e *fakeElement) Text() (string, error) { return e.text, nil }

func (e *fakeElement) Attribute(name string) (string, bool, error) {
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *fakeElement) FindElement(_ context.Context, sel browser.Selector) (browser.Element, error) {
	if el, ok := e.children[sel.String()]; ok {
		return el, nil
	}
	return nil, &types.ElementError{Selector: sel.String(), Err: types.ErrElementNotFound}
}

func (e *fakeElement) Input(text string) error {
	e.typed = append(e.typed, text)
	return nil
}

func (e *fakeElement) Submit(context.Context) error {
	e.submitted++
	if e.onSubmit != nil {
		e.onSubmit()
	}
	return nil
}

// key renders a raw selector the way the fake indexes it.
func key(raw string) string {
	return browser.ParseSelector(raw).String()
}

// fakeImages records requested URLs and hands out fixed names.
type fakeImages struct {
	urls []string
	err  error
}

func (f *fakeImages) DownloadImage(_ context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", nil
	}
	f.urls = append(f.urls, rawURL)
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("picture_2024050113040%d.jpg", len(f.urls)), nil
}

// memStorage keeps records in memory.
type memStorage struct {
	records  []types.ArticleRecord
	closed   bool
	storeErr error
}

func (m *memStorage) Store(r []types.ArticleRecord) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.records = append(m.records, r...)
	return nil
}
func (m *memStorage) Close() error { m.closed = true; return nil }
func (m *memStorage) Name() string { return "memory" }
