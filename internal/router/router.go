// Package router owns the top-level route table: an ordered list of path bindings
// built once at startup and resolved first-match-wins on every request.
// The table never changes after New returns, so a single *Table is shared by all
// request goroutines without locking.
package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MatchKind selects how a binding's pattern is compared against a request path.
type MatchKind int

const (
	// Exact matches only the identical path.
	Exact MatchKind = iota
	// Prefix matches every path that starts with the pattern, the pattern included.
	Prefix
)

func (k MatchKind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// ErrInvalidBinding is returned by New when a binding cannot be registered.
var ErrInvalidBinding = errors.New("invalid route binding")

// Binding associates a path pattern with the handler (or delegated sub-router)
// serving matching requests.
type Binding struct {
	Name    string
	Pattern string
	Match   MatchKind
	Target  http.Handler
}

// Handle builds an exact-match binding.
func Handle(name, pattern string, target http.Handler) Binding {
	return Binding{Name: name, Pattern: pattern, Match: Exact, Target: target}
}

// Mount builds a prefix binding that delegates a whole subtree to target.
// The request is forwarded with its path untouched.
func Mount(name, prefix string, target http.Handler) Binding {
	return Binding{Name: name, Pattern: prefix, Match: Prefix, Target: target}
}

// Matches reports whether path resolves to this binding.
func (b Binding) Matches(path string) bool {
	switch b.Match {
	case Exact:
		return path == b.Pattern
	case Prefix:
		return strings.HasPrefix(path, b.Pattern)
	default:
		return false
	}
}

func (b Binding) validate() error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return fmt.Errorf("%w: name must not be empty (pattern %q)", ErrInvalidBinding, b.Pattern)
	case !strings.HasPrefix(b.Pattern, "/"):
		return fmt.Errorf("%w: %s: pattern %q must start with /", ErrInvalidBinding, b.Name, b.Pattern)
	case b.Target == nil:
		return fmt.Errorf("%w: %s: target must not be nil", ErrInvalidBinding, b.Name)
	}
	switch b.Match {
	case Exact:
	case Prefix:
		if !strings.HasSuffix(b.Pattern, "/") {
			return fmt.Errorf("%w: %s: prefix pattern %q must end with /", ErrInvalidBinding, b.Name, b.Pattern)
		}
	default:
		return fmt.Errorf("%w: %s: unknown match kind %d", ErrInvalidBinding, b.Name, int(b.Match))
	}
	return nil
}

// Option customizes a Table at construction time.
type Option func(*Table)

// WithNotFound replaces the handler used when no binding matches.
func WithNotFound(h http.Handler) Option {
	return func(t *Table) {
		if h != nil {
			t.notFound = h
		}
	}
}

// WithAppendSlash makes unmatched paths redirect to their slash-terminated form
// when that form would match a binding.
func WithAppendSlash(enabled bool) Option {
	return func(t *Table) { t.appendSlash = enabled }
}

// Table is the immutable, ordered route table. It implements http.Handler.
type Table struct {
	bindings    []Binding
	notFound    http.Handler
	appendSlash bool
}

// New validates and freezes the given bindings in declared order.
// Duplicate patterns are accepted; the earliest binding wins and the later ones
// are reported by Shadowed.
func New(bindings []Binding, opts ...Option) (*Table, error) {
	t := &Table{
		bindings: make([]Binding, 0, len(bindings)),
		notFound: http.NotFoundHandler(),
	}
	for _, b := range bindings {
		if err := b.validate(); err != nil {
			return nil, err
		}
		t.bindings = append(t.bindings, b)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Len returns the number of bindings.
func (t *Table) Len() int { return len(t.bindings) }

// Bindings returns a copy of the bindings in evaluation order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Match returns the first binding whose pattern matches path.
func (t *Table) Match(path string) (Binding, bool) {
	for _, b := range t.bindings {
		if b.Matches(path) {
			return b, true
		}
	}
	return Binding{}, false
}

// RouteName returns the name of the binding serving path, or "" when none does.
func (t *Table) RouteName(path string) string {
	if b, ok := t.Match(path); ok {
		return b.Name
	}
	return ""
}

// Shadowed lists bindings that can never be selected because an earlier binding
// already matches every path they would.
func (t *Table) Shadowed() []Binding {
	var out []Binding
	for i, b := range t.bindings {
		for _, prev := range t.bindings[:i] {
			if !prev.Matches(b.Pattern) {
				continue
			}
			if b.Match == Exact || prev.Match == Prefix {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// ServeHTTP dispatches r to the first matching binding.
func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if b, ok := t.Match(path); ok {
		b.Target.ServeHTTP(w, r)
		return
	}
	if t.appendSlash && !strings.HasSuffix(path, "/") {
		if _, ok := t.Match(path + "/"); ok {
			redirectWithSlash(w, r)
			return
		}
	}
	t.notFound.ServeHTTP(w, r)
}

func redirectWithSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	code := http.StatusPermanentRedirect
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		code = http.StatusMovedPermanently
	}
	http.Redirect(w, r, target, code)
}
