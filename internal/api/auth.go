package api

import (
	"context"
	"net/http"
	"net/url"

	"faros-cli/internal/model"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type,omitempty"`
	User        model.User `json:"user"`
}

// Login exchanges credentials for a bearer token. The caller is responsible
// for installing the token into the session on success.
func (c *Client) Login(ctx context.Context, in LoginRequest) (LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &out); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}

// SearchUsers finds collaborators to share with.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	q := url.Values{}
	q.Set("query", query)
	var out []model.User
	if err := c.do(ctx, http.MethodGet, "/users/search", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
