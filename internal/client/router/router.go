package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrTooManyRedirects is returned when navigation does not settle.
var ErrTooManyRedirects = errors.New("too many redirects")

const maxHops = 8

// Router resolves paths against an immutable routing table.
type Router struct {
	routes []Route
}

// New copies routes into a Router.
func New(routes []Route) (*Router, error) {
	cp := make([]Route, len(routes))
	copy(cp, routes)
	for _, r := range cp {
		if r.Path == "" {
			return nil, errEmptyPath
		}
	}
	return &Router{routes: cp}, nil
}

// Routes returns a copy of the table.
func (r *Router) Routes() []Route {
	cp := make([]Route, len(r.routes))
	copy(cp, r.routes)
	return cp
}

// Resolve matches raw (path plus optional query) against the table. It does
// not follow static redirects.
func (r *Router) Resolve(raw string) Match {
	if raw == "" {
		raw = "/"
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	path, rawQuery, _ := strings.Cut(raw, "?")

	m := Match{FullPath: raw, Path: path, Query: map[string]string{}}
	// ParseQuery keeps the well-formed pairs when it reports an error;
	// malformed pairs are dropped.
	values, _ := url.ParseQuery(rawQuery)
	for k, v := range values {
		m.Query[k] = v[0]
	}
	for i := range r.routes {
		if params, ok := matchPattern(r.routes[i].Path, path); ok {
			m.Route = &r.routes[i]
			m.Params = params
			return m
		}
	}
	return m
}

// Lookup returns the route with the given name.
func (r *Router) Lookup(name string) (Route, bool) {
	for _, rt := range r.routes {
		if rt.Name == name {
			return rt, true
		}
	}
	return Route{}, false
}

// Navigate resolves raw, applies static redirects and the guard until the
// transition is allowed, and returns the final match. hasToken is consulted
// on every hop.
func (r *Router) Navigate(raw string, hasToken func() bool) (Match, error) {
	current := raw
	for hop := 0; hop < maxHops; hop++ {
		m := r.Resolve(current)
		if m.Route != nil && m.Route.Redirect != "" {
			current = m.Route.Redirect
			continue
		}
		d := Guard(m, hasToken())
		if d.Outcome == Allow {
			return m, nil
		}
		current = d.Target
	}
	return Match{}, fmt.Errorf("navigate %q: %w", raw, ErrTooManyRedirects)
}

// SafeRedirect returns raw when it is a local absolute path, and DefaultPath
// otherwise. It keeps a crafted redirect parameter from sending the user to
// another host or back to Login.
func SafeRedirect(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return DefaultPath
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DefaultPath
	}
	if strings.TrimRight(u.Path, "/") == LoginPath {
		return DefaultPath
	}
	return raw
}
