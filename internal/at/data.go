package at

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sautihq/sauti/internal/redact"
)

// ErrInsufficientBalance reports that the wallet cannot cover a purchase.
var ErrInsufficientBalance = fmt.Errorf("insufficient wallet balance")

// dataRecipient is one entry in a mobile data bundle request.
type dataRecipient struct {
	PhoneNumber string            `json:"phoneNumber"`
	Quantity    int               `json:"quantity"`
	Unit        string            `json:"unit"`     // "MB" | "GB"
	Validity    string            `json:"validity"` // "Day" | "Week" | "Month"
	Metadata    map[string]string `json:"metadata"`
}

// dataRequest is the mobile data bundle purchase payload.
type dataRequest struct {
	Username    string          `json:"username"`
	ProductName string          `json:"productName"`
	Recipients  []dataRecipient `json:"recipients"`
}

// SendMobileData buys a data bundle for a phone number. The wallet balance
// is checked first; a data purchase against an empty wallet fails with a
// confusing provider error, so refusing up front gives a clearer outcome.
func (c *Client) SendMobileData(ctx context.Context, phoneNumber string, quantity int, unit, validity string) (string, error) {
	balance, err := c.walletBalanceValue(ctx)
	if err != nil {
		return "", fmt.Errorf("checking wallet balance: %w", err)
	}
	if balance <= 0 {
		return "", fmt.Errorf("%w: %.2f", ErrInsufficientBalance, balance)
	}

	c.log.Info().
		Str("to", redact.PhoneNumber(phoneNumber)).
		Int("quantity", quantity).
		Str("unit", unit).
		Str("validity", validity).
		Msg("sending mobile data")

	payload := dataRequest{
		Username:    c.username,
		ProductName: c.dataProduct,
		Recipients: []dataRecipient{{
			PhoneNumber: phoneNumber,
			Quantity:    quantity,
			Unit:        unit,
			Validity:    validity,
			Metadata: map[string]string{
				"phoneNumber": phoneNumber,
				"product":     c.dataProduct,
				"quantity":    strconv.Itoa(quantity),
				"unit":        unit,
				"validity":    validity,
			},
		}},
	}
	resp, err := c.postJSON(ctx, c.bundlesBase+"/mobile/data/request", payload)
	if err != nil {
		return "", fmt.Errorf("sending mobile data: %w", err)
	}
	return resp, nil
}

// walletBalanceResponse is the wallet balance query response.
type walletBalanceResponse struct {
	Status  string `json:"status"`
	Balance string `json:"balance"` // "KES 1234.56"
}

// WalletBalance fetches the current wallet balance as raw JSON.
func (c *Client) WalletBalance(ctx context.Context) (string, error) {
	q := url.Values{"username": {c.username}}
	resp, err := c.get(ctx, c.bundlesBase+"/query/wallet/balance?"+q.Encode())
	if err != nil {
		return "", fmt.Errorf("fetching wallet balance: %w", err)
	}
	return resp, nil
}

// walletBalanceValue parses the numeric balance out of the "KES 1234.56"
// wallet response.
func (c *Client) walletBalanceValue(ctx context.Context) (float64, error) {
	raw, err := c.WalletBalance(ctx)
	if err != nil {
		return 0, err
	}

	var parsed walletBalanceResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return 0, fmt.Errorf("parsing wallet balance: %w", err)
	}
	if parsed.Status != "Success" {
		return 0, fmt.Errorf("wallet balance query returned status %q", parsed.Status)
	}

	fields := strings.Fields(parsed.Balance)
	if len(fields) != 2 {
		return 0, fmt.Errorf("unexpected balance format %q", parsed.Balance)
	}
	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing balance %q: %w", parsed.Balance, err)
	}
	return value, nil
}
