package browser

import (
	"fmt"
	"strings"
)

// SelectorKind is the lookup strategy of a Selector.
type SelectorKind string

const (
	KindCSS   SelectorKind = "css"
	KindID    SelectorKind = "id"
	KindClass SelectorKind = "class"
	KindXPath SelectorKind = "xpath"
)

// Selector locates elements on a page.
type Selector struct {
	Kind  SelectorKind
	Value string
}

// ParseSelector reads "kind=value". Without a known prefix the value is CSS,
// unless it starts with "/" or "(" in which case it is XPath.
func ParseSelector(raw string) Selector {
	raw = strings.TrimSpace(raw)
	if kind, value, ok := strings.Cut(raw, "="); ok {
		switch SelectorKind(strings.ToLower(kind)) {
		case KindCSS, KindID, KindClass, KindXPath:
			return Selector{Kind: SelectorKind(strings.ToLower(kind)), Value: strings.TrimSpace(value)}
		}
	}
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "(") {
		return Selector{Kind: KindXPath, Value: raw}
	}
	return Selector{Kind: KindCSS, Value: raw}
}

// IsZero reports whether the selector is empty.
func (s Selector) IsZero() bool {
	return s.Value == ""
}

// IsXPath reports whether the selector must be evaluated as XPath.
func (s Selector) IsXPath() bool {
	return s.Kind == KindXPath
}

// Scoped returns the selector to evaluate inside a container element. An
// absolute XPath such as //time would search the whole document from any
// context node, so it is made relative (.//time). Other selectors are
// already scoped to the container.
func (s Selector) Scoped() Selector {
	if s.IsXPath() && strings.HasPrefix(s.Value, "/") {
		return Selector{Kind: KindXPath, Value: "." + s.Value}
	}
	return s
}

// CSS renders id and class selectors as CSS. "class=a b" matches elements
// carrying both classes. XPath selectors are returned unchanged.
func (s Selector) CSS() string {
	switch s.Kind {
	case KindID:
		return fmt.Sprintf(`[id=%q]`, s.Value)
	case KindClass:
		fields := strings.Fields(s.Value)
		if len(fields) == 0 {
			return ""
		}
		return "." + strings.Join(fields, ".")
	default:
		return s.Value
	}
}

func (s Selector) String() string {
	return string(s.Kind) + "=" + s.Value
}
