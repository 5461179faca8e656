// Package router holds the declarative routing table of the client and the
// navigation guard that gates every transition on session-token presence.
package router

import (
	"errors"
	"strings"
)

// Route names.
const (
	NameDashboard     = "Dashboard"
	NameLogin         = "Login"
	NamePatients      = "Patients"
	NamePatientDetail = "PatientDetail"
	NameProfile       = "Profile"
	NameChat          = "Chat"
	NameChatRoom      = "ChatRoom"
	NameHistory       = "History"
)

const (
	LoginPath = "/login"
	// DefaultPath is where an authenticated user lands.
	DefaultPath = "/patients"
)

// Route is one entry of the routing table. A route with Redirect set is a
// static alias resolved before the guard runs.
type Route struct {
	Path     string
	Name     string
	Title    string
	Public   bool
	Redirect string
}

// DefaultRoutes is the client's routing table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Redirect: LoginPath},
		{Path: "/dashboard", Name: NameDashboard, Title: "Dashboard"},
		{Path: LoginPath, Name: NameLogin, Title: "Sign in", Public: true},
		{Path: DefaultPath, Name: NamePatients, Title: "Patients"},
		{Path: "/patients/:id", Name: NamePatientDetail, Title: "Patient"},
		{Path: "/profile", Name: NameProfile, Title: "Profile"},
		{Path: "/chat", Name: NameChat, Title: "Chat"},
		{Path: "/chat/:id", Name: NameChatRoom, Title: "Chat room"},
		{Path: "/history", Name: NameHistory, Title: "History"},
	}
}

// Match is a resolved navigation target.
type Match struct {
	// Route is nil when no table entry matched.
	Route *Route
	// FullPath is the requested path including its query string.
	FullPath string
	Path     string
	Params   map[string]string
	// Query holds the first value of each query key. Malformed pairs are
	// left out.
	Query map[string]string
}

// Public reports whether the matched route is public. Unmatched paths are
// protected.
func (m Match) Public() bool { return m.Route != nil && m.Route.Public }

// IsLogin reports whether the target is the Login route.
func (m Match) IsLogin() bool { return m.Route != nil && m.Route.Name == NameLogin }

// Name returns the matched route name, or "".
func (m Match) Name() string {
	if m.Route == nil {
		return ""
	}
	return m.Route.Name
}

var errEmptyPath = errors.New("empty route path")

// matchPattern matches path against a pattern with ":name" segments.
func matchPattern(pattern, path string) (map[string]string, bool) {
	ps := splitPath(pattern)
	xs := splitPath(path)
	if len(ps) != len(xs) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			if xs[i] == "" {
				return nil, false
			}
			params[seg[1:]] = xs[i]
			continue
		}
		if seg != xs[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
