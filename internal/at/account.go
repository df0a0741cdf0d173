package at

import (
	"context"
	"fmt"
	"net/url"
)

// ApplicationBalance fetches the application-level balance from the user
// data endpoint as raw JSON.
func (c *Client) ApplicationBalance(ctx context.Context) (string, error) {
	q := url.Values{"username": {c.username}}
	resp, err := c.get(ctx, c.apiBase+"/version1/user?"+q.Encode())
	if err != nil {
		return "", fmt.Errorf("fetching application balance: %w", err)
	}
	return resp, nil
}
