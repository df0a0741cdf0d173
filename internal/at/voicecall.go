package at

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sautihq/sauti/internal/redact"
)

// Call places an outbound voice call. The clientRequestID travels through
// the provider and comes back on the voice callback, which is the only way
// the static callback endpoint can identify the session the call belongs to.
func (c *Client) Call(ctx context.Context, from, to, clientRequestID string) (string, error) {
	c.log.Info().
		Str("from", from).
		Str("to", redact.PhoneNumber(to)).
		Str("clientRequestId", clientRequestID).
		Msg("placing call")

	form := url.Values{
		"username": {c.username},
		"from":     {from},
		"to":       {to},
	}
	if clientRequestID != "" {
		form.Set("clientRequestId", clientRequestID)
	}
	resp, err := c.postForm(ctx, c.voiceBase+"/call", form)
	if err != nil {
		return "", fmt.Errorf("placing call: %w", err)
	}
	return resp, nil
}
