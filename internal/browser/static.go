package browser

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/antchfx/htmlquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"github.com/IshaanNene/newsbot/internal/config"
	"github.com/IshaanNene/newsbot/internal/types"
)

// StaticDriver implements Driver without a browser: pages are fetched over
// HTTP and queried as a parsed DOM. Nothing executes JavaScript, so visible
// means "present and not hidden" and clickable means visible.
type StaticDriver struct {
	client *resty.Client
	cfg    *config.BrowserConfig
	logger *slog.Logger

	doc    *html.Node
	url    *url.URL
	values map[*html.Node]string
	closed bool
}

// NewStaticDriver creates a driver backed by a resty client.
func NewStaticDriver(cfg *config.BrowserConfig, logger *slog.Logger) *StaticDriver {
	client := resty.New().
		SetTimeout(cfg.PageLoadTimeout).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetHeader("Accept-Encoding", "gzip, deflate, br")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &StaticDriver{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "static_driver"),
		values: make(map[*html.Node]string),
	}
}

// Navigate fetches url and replaces the current document.
func (d *StaticDriver) Navigate(ctx context.Context, rawURL string) error {
	if d.closed {
		return types.ErrDriverClosed
	}
	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	return d.load(rawURL, resp)
}

func (d *StaticDriver) load(rawURL string, resp *resty.Response) error {
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return fmt.Errorf("navigate %s: status %d", rawURL, resp.StatusCode())
	}

	reader, err := decompressReader(resp.Header().Get("Content-Encoding"), body)
	if err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	doc, err := html.Parse(reader)
	if err != nil {
		return fmt.Errorf("parse %s: %w", rawURL, err)
	}

	final, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		final = raw.Request.URL
	}

	d.doc = doc
	d.url = final
	d.values = make(map[*html.Node]string)
	d.logger.Debug("page loaded", "url", final.String(), "status", resp.StatusCode())
	return nil
}

// FindElement returns the first match in the current document.
func (d *StaticDriver) FindElement(ctx context.Context, sel Selector) (Element, error) {
	nodes, err := d.query(ctx, d.doc, sel)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, notFound(sel, fmt.Errorf("no match in %s", d.CurrentURL()))
	}
	return d.wrap(nodes[0]), nil
}

// FindElements returns every match in document order.
func (d *StaticDriver) FindElements(ctx context.Context, sel Selector) ([]Element, error) {
	nodes, err := d.query(ctx, d.doc, sel)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out, nil
}

// WaitVisible returns the first match that is not hidden.
func (d *StaticDriver) WaitVisible(ctx context.Context, sel Selector) (Element, error) {
	nodes, err := d.query(ctx, d.doc, sel)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if !isHidden(n) {
			return d.wrap(n), nil
		}
	}
	return nil, notFound(sel, fmt.Errorf("no visible match in %s", d.CurrentURL()))
}

// WaitClickable is WaitVisible; a static DOM has no layout to obstruct it.
func (d *StaticDriver) WaitClickable(ctx context.Context, sel Selector) (Element, error) {
	return d.WaitVisible(ctx, sel)
}

// CurrentURL returns the final URL of the last loaded page.
func (d *StaticDriver) CurrentURL() string {
	if d.url == nil {
		return ""
	}
	return d.url.String()
}

// Close drops the document. It is safe to call more than once.
func (d *StaticDriver) Close() error {
	d.closed = true
	d.doc = nil
	return nil
}

func (d *StaticDriver) query(ctx context.Context, root *html.Node, sel Selector) ([]*html.Node, error) {
	if d.closed {
		return nil, types.ErrDriverClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, notFound(sel, err)
	}
	if sel.IsZero() {
		return nil, &types.ElementError{Selector: sel.String(), Err: types.ErrEmptySelector}
	}
	if root == nil {
		return nil, nil
	}

	if sel.IsXPath() {
		nodes, err := htmlquery.QueryAll(root, sel.Value)
		if err != nil {
			return nil, &types.ElementError{Selector: sel.String(), Err: err}
		}
		return nodes, nil
	}
	return goquery.NewDocumentFromNode(root).Find(sel.CSS()).Nodes, nil
}

func (d *StaticDriver) wrap(n *html.Node) Element {
	return &staticElement{node: n, d: d}
}

type staticElement struct {
	node *html.Node
	d    *StaticDriver
}

func (e *staticElement) Text() (string, error) {
	return goquery.NewDocumentFromNode(e.node).Text(), nil
}

func (e *staticElement) Attribute(name string) (string, bool, error) {
	v, ok := goquery.NewDocumentFromNode(e.node).Attr(name)
	return v, ok, nil
}

func (e *staticElement) FindElement(ctx context.Context, sel Selector) (Element, error) {
	nodes, err := e.d.query(ctx, e.node, sel.Scoped())
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, notFound(sel, fmt.Errorf("no match inside container"))
	}
	return e.d.wrap(nodes[0]), nil
}

func (e *staticElement) Input(text string) error {
	e.d.values[e.node] = text
	return nil
}

// Submit serializes the enclosing form and loads its response.
func (e *staticElement) Submit(ctx context.Context) error {
	form := e.node
	for form != nil && !(form.Type == html.ElementNode && form.Data == "form") {
		form = form.Parent
	}
	if form == nil {
		return types.ErrNoForm
	}

	fs := goquery.NewDocumentFromNode(form)
	action, _ := fs.Attr("action")
	method, _ := fs.Attr("method")

	target, err := e.d.resolve(action)
	if err != nil {
		return fmt.Errorf("form action %q: %w", action, err)
	}
	values := e.d.formValues(fs.Selection)

	req := e.d.client.R().SetContext(ctx).SetDoNotParseResponse(true)
	var resp *resty.Response
	if strings.EqualFold(method, "post") {
		resp, err = req.SetFormDataFromValues(values).Post(target.String())
	} else {
		target.RawQuery = values.Encode()
		resp, err = req.Get(target.String())
	}
	if err != nil {
		return fmt.Errorf("submit %s: %w", target, err)
	}
	return e.d.load(target.String(), resp)
}

func (d *StaticDriver) resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	if d.url == nil {
		return u, nil
	}
	return d.url.ResolveReference(u), nil
}

func (d *StaticDriver) formValues(form *goquery.Selection) url.Values {
	values := url.Values{}
	form.Find("input[name], textarea[name], select[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		node := s.Get(0)
		if typed, ok := d.values[node]; ok {
			values.Add(name, typed)
			return
		}

		switch goquery.NodeName(s) {
		case "textarea":
			values.Add(name, s.Text())
		case "select":
			opt := s.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = s.Find("option").First()
			}
			if v, ok := opt.Attr("value"); ok {
				values.Add(name, v)
			} else if opt.Length() > 0 {
				values.Add(name, strings.TrimSpace(opt.Text()))
			}
		default:
			typ := strings.ToLower(s.AttrOr("type", "text"))
			switch typ {
			case "submit", "button", "image", "reset", "file":
				return
			case "checkbox", "radio":
				if _, checked := s.Attr("checked"); !checked {
					return
				}
				values.Add(name, s.AttrOr("value", "on"))
				return
			}
			values.Add(name, s.AttrOr("value", ""))
		}
	})
	return values
}

// isHidden reports whether n or an ancestor is hidden by markup alone.
func isHidden(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		for _, a := range cur.Attr {
			switch a.Key {
			case "hidden":
				return true
			case "type":
				if cur.Data == "input" && strings.EqualFold(a.Val, "hidden") {
					return true
				}
			case "style":
				style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
				if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
					return true
				}
			}
		}
	}
	return false
}

// decompressReader wraps body according to its Content-Encoding.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(encoding string, body io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip":
		return gzip.NewReader(body)
	case "deflate":
		return flate.NewReader(body), nil
	case "br":
		return brotli.NewReader(body), nil
	default:
		return body, nil
	}
}
