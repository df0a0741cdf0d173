package at

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sautihq/sauti/internal/redact"
)

// airtimeRecipient is one entry in the airtime send request.
type airtimeRecipient struct {
	PhoneNumber string `json:"phoneNumber"`
	Amount      string `json:"amount"` // "KES 10"
}

// SendAirtime tops up a phone number with airtime worth amount units of the
// given currency. Returns the provider's raw JSON response.
func (c *Client) SendAirtime(ctx context.Context, phoneNumber, currencyCode, amount string) (string, error) {
	recipients, err := json.Marshal([]airtimeRecipient{{
		PhoneNumber: phoneNumber,
		Amount:      fmt.Sprintf("%s %s", currencyCode, amount),
	}})
	if err != nil {
		return "", fmt.Errorf("encoding recipients: %w", err)
	}

	c.log.Info().
		Str("to", redact.PhoneNumber(phoneNumber)).
		Str("amount", amount).
		Str("currency", currencyCode).
		Msg("sending airtime")

	form := url.Values{
		"username":   {c.username},
		"recipients": {string(recipients)},
	}
	resp, err := c.postForm(ctx, c.apiBase+"/version1/airtime/send", form)
	if err != nil {
		return "", fmt.Errorf("sending airtime: %w", err)
	}
	return resp, nil
}
