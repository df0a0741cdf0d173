package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sautihq/sauti/internal/validate"
	"github.com/sautihq/sauti/internal/voice"
)

// CommsAPI is the slice of the provider client the tools need.
// Satisfied by *at.Client.
type CommsAPI interface {
	SendAirtime(ctx context.Context, phoneNumber, currencyCode, amount string) (string, error)
	SendSMS(ctx context.Context, phoneNumber, message string) (string, error)
	SendUSSD(ctx context.Context, phoneNumber, code string) (string, error)
	SendMobileData(ctx context.Context, phoneNumber string, quantity int, unit, validity string) (string, error)
	WalletBalance(ctx context.Context) (string, error)
	SendWhatsApp(ctx context.Context, phoneNumber, message string) (string, error)
	Call(ctx context.Context, from, to, clientRequestID string) (string, error)
}

// VoiceInitiator is the slice of the call initiator the tools need.
// Satisfied by *voice.Initiator.
type VoiceInitiator interface {
	CallWithText(ctx context.Context, from, to, message string, voiceType voice.VoiceType) (voice.CallResult, error)
	CallWithAudio(ctx context.Context, from, to, audioURL string) (voice.CallResult, error)
}

// RegisterCommsTools registers every communication operation on the
// registry. defaultCallerID is used when a voice operation omits
// from_number.
func RegisterCommsTools(r *Registry, api CommsAPI, initiator VoiceInitiator, defaultCallerID string) {
	r.Register(&airtimeTool{api: api})
	r.Register(&messageTool{api: api})
	r.Register(&ussdTool{api: api})
	r.Register(&mobileDataTool{api: api})
	r.Register(&walletBalanceTool{api: api})
	r.Register(&voiceCallTool{api: api, defaultFrom: defaultCallerID})
	r.Register(&voiceTextTool{initiator: initiator, defaultFrom: defaultCallerID})
	r.Register(&voiceAudioTool{initiator: initiator, defaultFrom: defaultCallerID})
	r.Register(&whatsAppTool{api: api})
}

// requireArgs reports the first missing argument.
func requireArgs(args map[string]string, keys ...string) error {
	for _, k := range keys {
		if args[k] == "" {
			return fmt.Errorf("missing required argument %q", k)
		}
	}
	return nil
}

// fromNumber resolves the caller ID for voice operations.
func fromNumber(args map[string]string, fallback string) (string, error) {
	from := args["from_number"]
	if from == "" {
		from = fallback
	}
	if from == "" {
		return "", fmt.Errorf("missing required argument \"from_number\" and no default caller ID configured")
	}
	return from, nil
}

type airtimeTool struct{ api CommsAPI }

func (t *airtimeTool) Name() string { return "send_airtime" }
func (t *airtimeTool) Description() string {
	return "Send airtime to a phone number in international format"
}
func (t *airtimeTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"phone_number": {"type": "string", "description": "The phone number in international format"},
			"currency_code": {"type": "string", "description": "The 3-letter ISO currency code"},
			"amount": {"type": "string", "description": "The amount of airtime to send"}
		},
		"required": ["phone_number", "currency_code", "amount"]
	}`)
}

func (t *airtimeTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	if err := requireArgs(args, "phone_number", "currency_code", "amount"); err != nil {
		return "", err
	}
	if err := validate.PhoneNumber(args["phone_number"]); err != nil {
		return "", fmt.Errorf("phone_number: %w", err)
	}
	if err := validate.CurrencyCode(args["currency_code"]); err != nil {
		return "", fmt.Errorf("currency_code: %w", err)
	}
	if err := validate.Amount(args["amount"]); err != nil {
		return "", fmt.Errorf("amount: %w", err)
	}
	return t.api.SendAirtime(ctx, args["phone_number"], args["currency_code"], args["amount"])
}

type messageTool struct{ api CommsAPI }

func (t *messageTool) Name() string { return "send_message" }
func (t *messageTool) Description() string {
	return "Send an SMS message to a phone number in international format"
}
func (t *messageTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"phone_number": {"type": "string", "description": "The phone number in international format"},
			"message": {"type": "string", "description": "The message to send"}
		},
		"required": ["phone_number", "message"]
	}`)
}

func (t *messageTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	if err := requireArgs(args, "phone_number", "message"); err != nil {
		return "", err
	}
	if err := validate.PhoneNumber(args["phone_number"]); err != nil {
		return "", fmt.Errorf("phone_number: %w", err)
	}
	return t.api.SendSMS(ctx, args["phone_number"], args["message"])
}

type ussdTool struct{ api CommsAPI }

func (t *ussdTool) Name() string { return "send_ussd" }
func (t *ussdTool) Description() string {
	return "Dial a USSD code such as *123# on a phone number"
}
func (t *ussdTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"phone_number": {"type": "string", "description": "The phone number in international format"},
			"code": {"type": "string", "description": "The USSD code to dial, e.g. *123#"}
		},
		"required": ["phone_number", "code"]
	}`)
}

func (t *ussdTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	if err := requireArgs(args, "phone_number", "code"); err != nil {
		return "", err
	}
	if err := validate.PhoneNumber(args["phone_number"]); err != nil {
		return "", fmt.Errorf("phone_number: %w", err)
	}
	if err := validate.USSDCode(args["code"]); err != nil {
		return "", fmt.Errorf("code: %w", err)
	}
	return t.api.SendUSSD(ctx, args["phone_number"], args["code"])
}

type mobileDataTool struct{ api CommsAPI }

func (t *mobileDataTool) Name() string { return "send_mobile_data" }
func (t *mobileDataTool) Description() string {
	return "Send a mobile data bundle to a phone number"
}
func (t *mobileDataTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"phone_number": {"type": "string", "description": "The phone number in international format"},
			"bundle": {"type": "string", "description": "The data bundle amount, e.g. 50, 100MB or 1GB"},
			"plan": {"type": "string", "description": "The plan duration: daily, weekly or monthly"}
		},
		"required": ["phone_number", "bundle", "plan"]
	}`)
}

func (t *mobileDataTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	if err := requireArgs(args, "phone_number", "bundle", "plan"); err != nil {
		return "", err
	}
	if err := validate.PhoneNumber(args["phone_number"]); err != nil {
		return "", fmt.Errorf("phone_number: %w", err)
	}
	quantity, unit, err := validate.Bundle(args["bundle"])
	if err != nil {
		return "", fmt.Errorf("bundle: %w", err)
	}
	validity, err := validate.Plan(args["plan"])
	if err != nil {
		return "", fmt.Errorf("plan: %w", err)
	}
	return t.api.SendMobileData(ctx, args["phone_number"], quantity, unit, validity)
}

type walletBalanceTool struct{ api CommsAPI }

func (t *walletBalanceTool) Name() string { return "get_wallet_balance" }
func (t *walletBalanceTool) Description() string {
	return "Fetch the current account wallet balance"
}
func (t *walletBalanceTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *walletBalanceTool) Execute(ctx context.Context, _ map[string]string) (string, error) {
	return t.api.WalletBalance(ctx)
}

type voiceCallTool struct {
	api         CommsAPI
	defaultFrom string
}

func (t *voiceCallTool) Name() string { return "make_voice_call" }
func (t *voiceCallTool) Description() string {
	return "Place a plain voice call between two numbers"
}
func (t *voiceCallTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"from_number": {"type": "string", "description": "The caller ID in international format"},
			"to_number": {"type": "string", "description": "The recipient phone number in international format"}
		},
		"required": ["to_number"]
	}`)
}

func (t *voiceCallTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	if err := requireArgs(args, "to_number"); err != nil {
		return "", err
	}
	from, err := fromNumber(args, t.defaultFrom)
	if err != nil {
		return "", err
	}
	if err := validate.PhoneNumber(from); err != nil {
		return "", fmt.Errorf("from_number: %w", err)
	}
	if err := validate.PhoneNumber(args["to_number"]); err != nil {
		return "", fmt.Errorf("to_number: %w", err)
	}
	return t.api.Call(ctx, from, args["to_number"], "")
}

type voiceTextTool struct {
	initiator   VoiceInitiator
	defaultFrom string
}

func (t *voiceTextTool) Name() string { return "make_voice_call_with_text" }
func (t *voiceTextTool) Description() string {
	return "Place a voice call that reads a message aloud with text-to-speech"
}
func (t *voiceTextTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"from_number": {"type": "string", "description": "The caller ID in international format"},
			"to_number": {"type": "string", "description": "The recipient phone number in international format"},
			"message": {"type": "string", "description": "The text to be spoken during the call"},
			"voice_type": {"type": "string", "enum": ["man", "woman"], "description": "The text-to-speech voice"}
		},
		"required": ["to_number", "message"]
	}`)
}

func (t *voiceTextTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	if err := requireArgs(args, "to_number", "message"); err != nil {
		return "", err
	}
	from, err := fromNumber(args, t.defaultFrom)
	if err != nil {
		return "", err
	}
	result, err := t.initiator.CallWithText(ctx, from, args["to_number"], args["message"],
		voice.ParseVoiceType(args["voice_type"]))
	if err != nil {
		return "", err
	}
	return marshalResult(result)
}

type voiceAudioTool struct {
	initiator   VoiceInitiator
	defaultFrom string
}

func (t *voiceAudioTool) Name() string { return "make_voice_call_and_play_audio" }
func (t *voiceAudioTool) Description() string {
	return "Place a voice call that plays an audio file from a URL"
}
func (t *voiceAudioTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"from_number": {"type": "string", "description": "The caller ID in international format"},
			"to_number": {"type": "string", "description": "The recipient phone number in international format"},
			"audio_url": {"type": "string", "description": "The public HTTP(S) URL of the audio file to play"}
		},
		"required": ["to_number", "audio_url"]
	}`)
}

func (t *voiceAudioTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	if err := requireArgs(args, "to_number", "audio_url"); err != nil {
		return "", err
	}
	from, err := fromNumber(args, t.defaultFrom)
	if err != nil {
		return "", err
	}
	result, err := t.initiator.CallWithAudio(ctx, from, args["to_number"], args["audio_url"])
	if err != nil {
		return "", err
	}
	return marshalResult(result)
}

type whatsAppTool struct{ api CommsAPI }

func (t *whatsAppTool) Name() string { return "send_whatsapp_message" }
func (t *whatsAppTool) Description() string {
	return "Send a WhatsApp message to a phone number"
}
func (t *whatsAppTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"phone_number": {"type": "string", "description": "The recipient phone number in international format"},
			"message": {"type": "string", "description": "The message to send"}
		},
		"required": ["phone_number", "message"]
	}`)
}

func (t *whatsAppTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	if err := requireArgs(args, "phone_number", "message"); err != nil {
		return "", err
	}
	if err := validate.PhoneNumber(args["phone_number"]); err != nil {
		return "", fmt.Errorf("phone_number: %w", err)
	}
	return t.api.SendWhatsApp(ctx, args["phone_number"], args["message"])
}

func marshalResult(result voice.CallResult) (string, error) {
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(out), nil
}
