package cli

import (
	"context"

	"github.com/medml/medcli/internal/client/router"
	"github.com/medml/medcli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// loginForm is the Login page: it prompts for credentials and, on success,
// forwards to the page named by the redirect query parameter (or the
// default page).
func (a *App) loginForm(ctx context.Context, m router.Match) error {
	a.printer.Header("Sign in")

	username, err := getSimpleText(a.reader, "Username", a.printer.Out())
	if err != nil {
		return err
	}
	password, err := getPassword(a.printer.Out())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return a.fail(err)
	}
	a.logger.Info(ctx, "signed in", "username", u.Username)
	a.printer.Success("Signed in as %s", u.Username)

	return a.Navigate(ctx, router.SafeRedirect(m.Query["redirect"]))
}

// Register prompts for a username, an email and a password and creates the
// account. The backend signs the new user in right away.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.printer.Out())
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email (optional)", a.printer.Out())
	if err != nil {
		return err
	}
	password, err := getPassword(a.printer.Out())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Register(ctx, username, email, password)
	if err != nil {
		return a.fail(err)
	}
	a.printer.Success("Account %s created", u.Username)
	return a.Navigate(ctx, router.DefaultPath)
}

// Logout drops the session and returns to the login page without prompting.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.setCurrent(a.router.Resolve(router.LoginPath))
	a.printer.Success("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.auth.CurrentUser(ctx)
	if err != nil {
		a.printer.Info("Not logged in")
		return nil
	}
	if u.Username == "" {
		a.printer.Info("Logged in")
		return nil
	}
	if u.Email != "" {
		a.printer.Info("%s <%s>", u.Username, u.Email)
	} else {
		a.printer.Info("%s", u.Username)
	}
	return nil
}
