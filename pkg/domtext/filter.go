package domtext

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Filter decides whether an element's subtree takes part in matching. It is
// consulted once per element before its children are visited. An error
// aborts aggregation.
type Filter func(el *html.Node) (bool, error)

// IncludeAll is the default filter.
func IncludeAll(*html.Node) (bool, error) {
	return true, nil
}

// Predicate adapts an infallible predicate.
func Predicate(fn func(el *html.Node) bool) Filter {
	return func(el *html.Node) (bool, error) {
		return fn(el), nil
	}
}

// ExcludeElements returns a filter that skips elements with any of the given
// tag names. Names are compared case-insensitively.
func ExcludeElements(names ...string) Filter {
	excluded := make(map[string]struct{}, len(names))
	for _, name := range names {
		excluded[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return func(el *html.Node) (bool, error) {
		if el.Type != html.ElementNode {
			return true, nil
		}
		_, skip := excluded[strings.ToLower(el.Data)]
		return !skip, nil
	}
}

// And combines two filters; an element is included only if both include it.
// A nil filter includes everything.
func (f Filter) And(other Filter) Filter {
	switch {
	case f == nil:
		return other
	case other == nil:
		return f
	}
	return func(el *html.Node) (bool, error) {
		ok, err := f(el)
		if err != nil || !ok {
			return ok, err
		}
		return other(el)
	}
}

// FilterError wraps an error returned by a Filter.
type FilterError struct {
	Element *html.Node
	Err     error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("element filter failed on <%s>: %v", e.Element.Data, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}
