// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jeranaias/quizbot-tui/internal/model"
)

// =============================================================================
// ACCOUNT ENDPOINTS
// =============================================================================

// tokenResponse is the login/register exchange envelope.
type tokenResponse struct {
	AccessToken string   `json:"access_token"`
	User        wireUser `json:"user"`
}

// wireUser is the backend's user profile shape.
type wireUser struct {
	ID        wireID `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func (u wireUser) toModel() model.User {
	return model.User{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

// Register creates an account and returns the signed-in identity. The
// client's token is updated so subsequent calls are authenticated.
func (c *Client) Register(ctx context.Context, name, email, password string) (model.Identity, error) {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}

	var resp tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/register", body, &resp, false); err != nil {
		return model.Identity{}, err
	}
	return c.adoptToken(resp)
}

// Login exchanges credentials for a signed-in identity. The client's
// token is updated so subsequent calls are authenticated.
func (c *Client) Login(ctx context.Context, email, password string) (model.Identity, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", body, &resp, false); err != nil {
		return model.Identity{}, err
	}
	return c.adoptToken(resp)
}

// CurrentUser fetches the profile for the current bearer token.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	var resp wireUser
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &resp, true); err != nil {
		return model.User{}, err
	}
	return resp.toModel(), nil
}

// adoptToken validates an auth exchange response and switches the client
// onto the new token.
func (c *Client) adoptToken(resp tokenResponse) (model.Identity, error) {
	id := model.Identity{
		Token: resp.AccessToken,
		User:  resp.User.toModel(),
	}
	if !id.Valid() {
		return model.Identity{}, fmt.Errorf("auth response missing token or profile")
	}
	c.SetToken(id.Token)
	return id, nil
}
