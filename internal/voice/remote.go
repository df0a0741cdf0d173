package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sautihq/sauti/internal/logging"
	"github.com/sautihq/sauti/internal/redact"
)

// RemoteSeeder stores sessions on a running gateway over HTTP. A one-shot
// command places calls from its own process while the provider's webhook is
// answered by the long-running server; posting the session to the server's
// /voice/store and /voice/play endpoints is what makes it retrievable by
// that server's callback handler.
type RemoteSeeder struct {
	baseURL    string
	httpClient *http.Client
	log        *logging.Logger
}

// NewRemoteSeeder creates a seeder targeting the gateway at baseURL.
func NewRemoteSeeder(baseURL string, log *logging.Logger) *RemoteSeeder {
	return &RemoteSeeder{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.Sub("voice"),
	}
}

type remoteSeedRequest struct {
	SessionID string `json:"session_id"`
	ToNumber  string `json:"to_number"`
	Message   string `json:"message,omitempty"`
	AudioURL  string `json:"audio_url,omitempty"`
	VoiceType string `json:"voice_type,omitempty"`
}

// Seed posts the session to the gateway. Errors carry the gateway's
// response body, since a failure here aborts the caller's dial.
func (r *RemoteSeeder) Seed(ctx context.Context, s Session) error {
	endpoint := r.baseURL + "/voice/store"
	payload := remoteSeedRequest{
		SessionID: s.ID,
		ToNumber:  s.ToNumber,
		Message:   s.Message,
		VoiceType: string(s.Voice),
	}
	if s.AudioURL != "" {
		endpoint = r.baseURL + "/voice/play"
		payload = remoteSeedRequest{
			SessionID: s.ID,
			ToNumber:  s.ToNumber,
			AudioURL:  s.AudioURL,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storing session on gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway rejected session: %s: %s",
			resp.Status, strings.TrimSpace(string(b)))
	}

	r.log.Debug().
		Str("sessionId", s.ID).
		Str("to", redact.PhoneNumber(s.ToNumber)).
		Bool("audio", s.AudioURL != "").
		Msg("session seeded on gateway")
	return nil
}
