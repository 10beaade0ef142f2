package api

import (
	"context"
	"net/http"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Register creates a new account. It does not log the user in.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil,
		registerRequest{Username: username, Password: password}, nil)
}

// Login authenticates and installs the returned bearer token on the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil,
		registerRequest{Username: username, Password: password}, &out)
	if err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

// Logout drops the local token. The backend keeps no session state.
func (c *Client) Logout() {
	c.SetToken("")
}
