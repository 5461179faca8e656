package router

import "net/url"

// Outcome of a guard evaluation.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Redirect {
		return "redirect"
	}
	return "allow"
}

// Decision is the result of Guard. Target is set for Redirect.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Guard decides whether a transition to target may proceed. It is pure and
// is evaluated on every transition.
//
//   - public target: an authenticated user heading to Login is sent to
//     DefaultPath, everyone else passes.
//   - protected target (including unmatched paths): without a token the user
//     is sent to Login with the full target path in the redirect query
//     parameter; with a token the user passes.
func Guard(target Match, hasToken bool) Decision {
	if target.Public() {
		if hasToken && target.IsLogin() {
			return Decision{Outcome: Redirect, Target: DefaultPath}
		}
		return Decision{Outcome: Allow}
	}
	if !hasToken {
		return Decision{Outcome: Redirect, Target: LoginRedirect(target.FullPath)}
	}
	return Decision{Outcome: Allow}
}

// LoginRedirect returns the Login path carrying fullPath as its redirect
// parameter, e.g. "/login?redirect=%2Fpatients".
func LoginRedirect(fullPath string) string {
	return LoginPath + "?redirect=" + url.QueryEscape(fullPath)
}
