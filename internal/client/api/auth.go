package api

import (
	"context"
	"net/http"

	"github.com/medml/medcli/internal/client/models"
)

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/auth/login/", Body: JSONBody{Value: creds}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/auth/register/", Body: JSONBody{Value: reg}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the identity bound to the current token.
func (c *Client) Me(ctx context.Context) (*models.Identity, error) {
	var out models.Identity
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/auth/me/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/auth/profile/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends only the fields set in upd and returns the stored
// profile.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	var out models.Profile
	if err := c.Do(ctx, Request{Method: http.MethodPut, Path: "/api/v1/auth/profile/", Body: JSONBody{Value: upd}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
