package client

import (
	"context"
	"net/http"
)

// RestoreSession returns the stored user if the server still accepts its
// token. A rejected token is cleared from the store and (nil, nil) is
// returned. Transport failures are returned as errors and leave the store
// untouched.
func (c *Client) RestoreSession(ctx context.Context) (*User, error) {
	u, err := c.tokens.Load()
	if err != nil || u == nil || u.Token == "" {
		return nil, err
	}

	if _, err := c.CheckAuth(ctx); err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			return nil, c.tokens.Clear()
		}
		return nil, err
	}
	return u, nil
}
