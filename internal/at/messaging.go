package at

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sautihq/sauti/internal/redact"
)

// SendSMS delivers a text message to a phone number.
func (c *Client) SendSMS(ctx context.Context, phoneNumber, message string) (string, error) {
	c.log.Info().
		Str("to", redact.PhoneNumber(phoneNumber)).
		Int("length", len(message)).
		Msg("sending sms")

	form := url.Values{
		"username": {c.username},
		"to":       {phoneNumber},
		"message":  {message},
	}
	resp, err := c.postForm(ctx, c.apiBase+"/version1/messaging", form)
	if err != nil {
		return "", fmt.Errorf("sending sms: %w", err)
	}
	return resp, nil
}

// whatsAppBody is the message portion of a WhatsApp send request.
type whatsAppBody struct {
	Message string `json:"message,omitempty"`
}

// whatsAppRequest is the WhatsApp send payload.
type whatsAppRequest struct {
	Username    string       `json:"username"`
	WaNumber    string       `json:"waNumber"`
	PhoneNumber string       `json:"phoneNumber"`
	Body        whatsAppBody `json:"body"`
}

// SendWhatsApp delivers a WhatsApp text message from the account's
// provisioned WhatsApp number.
func (c *Client) SendWhatsApp(ctx context.Context, phoneNumber, message string) (string, error) {
	if c.waNumber == "" {
		return "", fmt.Errorf("no WhatsApp sender number configured")
	}

	c.log.Info().
		Str("to", redact.PhoneNumber(phoneNumber)).
		Str("from", redact.PhoneNumber(c.waNumber)).
		Msg("sending whatsapp message")

	payload := whatsAppRequest{
		Username:    c.username,
		WaNumber:    c.waNumber,
		PhoneNumber: phoneNumber,
		Body:        whatsAppBody{Message: message},
	}
	resp, err := c.postJSON(ctx, c.chatBase+"/whatsapp/message/send", payload)
	if err != nil {
		return "", fmt.Errorf("sending whatsapp message: %w", err)
	}
	return resp, nil
}
