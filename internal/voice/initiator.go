package voice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sautihq/sauti/internal/logging"
	"github.com/sautihq/sauti/internal/redact"
	"github.com/sautihq/sauti/internal/validate"
)

// Dialer places an outbound call with the provider. The clientRequestID is
// echoed back to the callback webhook, which is how the session id crosses
// the provider boundary even though the callback URL itself is static.
type Dialer interface {
	Call(ctx context.Context, from, to, clientRequestID string) (string, error)
}

// CallResult reports a placed call back to the dispatcher.
type CallResult struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"` // raw provider response body
}

// CallRecorder persists placed calls for later inspection. May be nil.
type CallRecorder interface {
	RecordCall(ctx context.Context, sessionID, toNumber, kind string)
}

// Seeder makes a session visible to a callback handler before the call is
// dialed. In-process callers seed the MemoryStore the handler reads from;
// one-shot commands seed the running gateway through a RemoteSeeder, since
// their own memory is invisible to the server answering the webhook.
type Seeder interface {
	Seed(ctx context.Context, s Session) error
}

// SeederFunc adapts a function to the Seeder interface.
type SeederFunc func(ctx context.Context, s Session) error

func (f SeederFunc) Seed(ctx context.Context, s Session) error { return f(ctx, s) }

// Initiator bridges "make this call and say this" into a stored session
// plus an outbound call request.
type Initiator struct {
	seeder   Seeder
	dialer   Dialer
	recorder CallRecorder
	log      *logging.Logger
}

// NewInitiator creates a call initiator. recorder may be nil.
func NewInitiator(seeder Seeder, dialer Dialer, recorder CallRecorder, log *logging.Logger) *Initiator {
	return &Initiator{seeder: seeder, dialer: dialer, recorder: recorder, log: log.Sub("voice")}
}

// CallWithText stores a text-to-speech session and places the call.
// The session is stored BEFORE the call request goes out: a fast-answering
// callback must never race ahead of the store.
func (i *Initiator) CallWithText(ctx context.Context, from, to, message string, voiceType VoiceType) (CallResult, error) {
	if err := validatePair(from, to); err != nil {
		return CallResult{}, err
	}
	if message == "" {
		return CallResult{}, fmt.Errorf("message is required")
	}

	s := Session{
		ID:       uuid.NewString(),
		ToNumber: to,
		Message:  message,
		Voice:    ParseVoiceType(string(voiceType)),
	}
	return i.place(ctx, from, s)
}

// CallWithAudio stores a play-audio session and places the call.
func (i *Initiator) CallWithAudio(ctx context.Context, from, to, audioURL string) (CallResult, error) {
	if err := validatePair(from, to); err != nil {
		return CallResult{}, err
	}
	if err := validate.AudioURL(audioURL); err != nil {
		return CallResult{}, err
	}

	s := Session{
		ID:       uuid.NewString(),
		ToNumber: to,
		AudioURL: audioURL,
	}
	return i.place(ctx, from, s)
}

func (i *Initiator) place(ctx context.Context, from string, s Session) (CallResult, error) {
	// Seed before dialing, and abort if seeding fails: a paid call whose
	// session no handler can find plays only the fallback greeting.
	if err := i.seeder.Seed(ctx, s); err != nil {
		return CallResult{}, fmt.Errorf("storing session: %w", err)
	}

	i.log.Info().
		Str("sessionId", s.ID).
		Str("to", redact.PhoneNumber(s.ToNumber)).
		Str("from", from).
		Bool("audio", s.AudioURL != "").
		Msg("placing voice call")

	resp, err := i.dialer.Call(ctx, from, s.ToNumber, s.ID)
	if err != nil {
		// The session stays stored but orphaned; expiry reclaims it.
		// No automatic retry: a blind retry of a paid call is unsafe.
		i.log.Error().Str("sessionId", s.ID).Err(err).Msg("call placement failed")
		return CallResult{}, fmt.Errorf("placing call: %w", err)
	}

	if i.recorder != nil {
		kind := "say"
		if s.AudioURL != "" {
			kind = "play"
		}
		i.recorder.RecordCall(ctx, s.ID, s.ToNumber, kind)
	}

	return CallResult{SessionID: s.ID, Response: resp}, nil
}

func validatePair(from, to string) error {
	if err := validate.PhoneNumber(from); err != nil {
		return fmt.Errorf("from_number: %w", err)
	}
	if err := validate.PhoneNumber(to); err != nil {
		return fmt.Errorf("to_number: %w", err)
	}
	return nil
}
