package at

import (
	"context"
	"fmt"

	"github.com/sautihq/sauti/internal/redact"
)

// ErrUSSDUnsupported reports the provider-side limitation on push USSD.
// The USSD product handles inbound interactive sessions; the public API has
// no documented way to push an outgoing USSD code to a handset.
var ErrUSSDUnsupported = fmt.Errorf(
	"USSD service not available for sending outgoing codes; the provider's USSD product handles inbound sessions only")

// SendUSSD reports the push-USSD limitation. It performs no network call:
// there is no endpoint to reach, and callers get a stable, explicit answer
// instead of a provider 404.
func (c *Client) SendUSSD(ctx context.Context, phoneNumber, code string) (string, error) {
	c.log.Warn().
		Str("to", redact.PhoneNumber(phoneNumber)).
		Str("code", code).
		Msg("push ussd requested but not supported by provider API")
	return "", ErrUSSDUnsupported
}
