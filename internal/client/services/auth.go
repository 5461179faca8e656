// Package services contains application services for the medcli client.
// This file defines the authentication service: login, register, logout,
// the current-user lookup and the backend liveness check.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/medml/medcli/internal/client/models"
	"github.com/medml/medcli/internal/common"
)

// ErrNotLoggedIn is returned when an operation needs a session and there is
// none.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthBackend is the subset of the API client used for authentication.
type AuthBackend interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error)
	Ping(ctx context.Context) error
}

// SessionStore persists the token and user summary.
type SessionStore interface {
	SaveLogin(ctx context.Context, token string, u *models.UserSummary) error
	HasToken(ctx context.Context) bool
	StoredUser(ctx context.Context) *models.UserSummary
	Clear(ctx context.Context)
}

// ProfileCache is cleared on logout so the next user does not see the
// previous profile.
type ProfileCache interface {
	Clear()
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login/Register: authenticate against the backend and persist the
//     session token together with the user summary.
//   - Logout: drop token, stored user and cached profile. Never fails.
//   - CurrentUser: stored user summary, or ErrNotLoggedIn.
//   - Ping: check backend liveness.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (*models.UserSummary, error)
	Register(ctx context.Context, username, email string, password []byte) (*models.UserSummary, error)
	Logout(ctx context.Context)
	CurrentUser(ctx context.Context) (*models.UserSummary, error)
	Ping(ctx context.Context) error
}

type authService struct {
	backend AuthBackend
	store   SessionStore
	cache   ProfileCache
}

// NewAuthService constructs an AuthService bound to the given backend,
// session store and profile cache.
func NewAuthService(backend AuthBackend, store SessionStore, cache ProfileCache) AuthService {
	return &authService{backend: backend, store: store, cache: cache}
}

// Login authenticates and saves the session. The password buffer is wiped
// once the request body has been built.
func (a *authService) Login(ctx context.Context, username string, password []byte) (*models.UserSummary, error) {
	creds := models.Credentials{Username: username, Password: string(password)}
	common.WipeByteArray(password)

	res, err := a.backend.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.saveSession(ctx, res)
}

// Register creates the account. The backend answers with a token, so a
// successful registration also signs the user in.
func (a *authService) Register(ctx context.Context, username, email string, password []byte) (*models.UserSummary, error) {
	reg := models.Registration{Username: username, Email: email, Password: string(password)}
	common.WipeByteArray(password)

	res, err := a.backend.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return a.saveSession(ctx, res)
}

func (a *authService) saveSession(ctx context.Context, res *models.AuthResult) (*models.UserSummary, error) {
	u := res.Summary()
	// the previous user's profile must not leak into this session
	a.cache.Clear()
	if err := a.store.SaveLogin(ctx, res.Token, u); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return u, nil
}

func (a *authService) Logout(ctx context.Context) {
	a.store.Clear(ctx)
	a.cache.Clear()
}

func (a *authService) CurrentUser(ctx context.Context) (*models.UserSummary, error) {
	if !a.store.HasToken(ctx) {
		return nil, ErrNotLoggedIn
	}
	if u := a.store.StoredUser(ctx); u != nil {
		return u, nil
	}
	// token without a readable user summary: still signed in, identity unknown
	return &models.UserSummary{}, nil
}

// Ping proxies a liveness check to the backend.
func (a *authService) Ping(ctx context.Context) error {
	return a.backend.Ping(ctx)
}
