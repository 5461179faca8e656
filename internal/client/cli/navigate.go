package cli

import (
	"context"

	"github.com/medml/medcli/internal/client/router"
)

// Navigate opens path: static redirects and the guard are applied first,
// then the resulting route is rendered. The guard sees the token as it is
// at the moment of each hop.
func (a *App) Navigate(ctx context.Context, path string) error {
	m, err := a.router.Navigate(path, func() bool { return a.isLoggedIn(ctx) })
	if err != nil {
		return a.fail(err)
	}
	a.setCurrent(m)
	a.logger.Debug(ctx, "navigated", "requested", path, "route", m.Name(), "path", m.FullPath)
	return a.render(ctx, m)
}

func (a *App) render(ctx context.Context, m router.Match) error {
	switch m.Name() {
	case router.NameLogin:
		return a.loginForm(ctx, m)
	case router.NameDashboard:
		return a.showDashboard(ctx)
	case router.NamePatients:
		return a.showPatients(ctx, m)
	case router.NamePatientDetail:
		return a.showPatient(ctx, m)
	case router.NameHistory:
		return a.showHistory(ctx, m)
	case router.NameProfile:
		return a.showProfile(ctx)
	case router.NameChat:
		return a.showChat(ctx)
	case router.NameChatRoom:
		return a.showRoom(ctx, m)
	default:
		a.printer.Warning("Nothing to show at %s", m.Path)
		return nil
	}
}

// guardAction checks that the user may be on path before an action runs
// there. A signed-out user is not sent through the login form; the action
// is refused instead.
func (a *App) guardAction(ctx context.Context, path string) bool {
	d := router.Guard(a.router.Resolve(path), a.isLoggedIn(ctx))
	if d.Outcome == router.Redirect {
		a.printer.Warning("Please log in first (login)")
		return false
	}
	return true
}
