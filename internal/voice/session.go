// Package voice implements the voice-callback session protocol: a call
// initiator stores what the call should say under an opaque session id, and
// the provider's webhook retrieves it moments later on an unrelated HTTP
// request. The store is the only channel between the two flows.
package voice

import (
	"context"
	"sort"
	"sync"
	"time"
)

// VoiceType selects the provider's text-to-speech voice.
type VoiceType string

const (
	VoiceWoman VoiceType = "woman"
	VoiceMan   VoiceType = "man"
)

// ParseVoiceType normalizes a voice selection, defaulting to woman for
// anything unknown rather than erroring.
func ParseVoiceType(s string) VoiceType {
	if s == string(VoiceMan) {
		return VoiceMan
	}
	return VoiceWoman
}

// Session correlates an outbound call with the provider's later callback.
// Exactly one of Message or AudioURL is set.
type Session struct {
	ID        string    `json:"session_id"`
	ToNumber  string    `json:"to_number"`
	Message   string    `json:"message,omitempty"`
	AudioURL  string    `json:"audio_url,omitempty"`
	Voice     VoiceType `json:"voice_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store holds live sessions keyed by session id.
//
// Lookups for unknown or expired ids are not errors; the callback handler
// turns them into fallback markup. Put must be fully visible before it
// returns, since the provider may invoke the callback immediately after the
// call is placed.
type Store interface {
	// Put inserts or overwrites a session, stamping CreatedAt.
	Put(s Session)

	// Get returns the session if present and not expired.
	Get(id string) (Session, bool)

	// GetByNumber returns the newest live session for a destination number.
	// Used as a fallback when the provider does not echo the session id.
	GetByNumber(number string) (Session, bool)

	// List returns all live sessions, newest first.
	List() []Session

	// Len returns the number of live sessions.
	Len() int

	// Sweep removes sessions older than the TTL as of now and reports how
	// many it removed. Put and Get also sweep lazily, so calling Sweep is
	// optional.
	Sweep(now time.Time) int
}

// MemoryStore is a mutex-guarded in-memory Store with age-based expiry and
// a cap on live sessions. Expired entries are swept lazily on access, so no
// background goroutine is needed.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	maxLive  int
	sessions map[string]Session

	now func() time.Time // overridable in tests
}

// NewMemoryStore creates a store. ttl must be positive; maxLive of zero
// means unbounded.
func NewMemoryStore(ttl time.Duration, maxLive int) *MemoryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryStore{
		ttl:      ttl,
		maxLive:  maxLive,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Seed implements Seeder for callers sharing a process with the callback
// handler.
func (m *MemoryStore) Seed(_ context.Context, s Session) error {
	m.Put(s)
	return nil
}

func (m *MemoryStore) Put(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	s.CreatedAt = now
	if s.Voice == "" && s.AudioURL == "" {
		s.Voice = VoiceWoman
	}

	if m.maxLive > 0 && len(m.sessions) >= m.maxLive {
		if _, exists := m.sessions[s.ID]; !exists {
			m.evictOldestLocked()
		}
	}
	m.sessions[s.ID] = s
}

func (m *MemoryStore) Get(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(m.now())
	s, ok := m.sessions[id]
	return s, ok
}

func (m *MemoryStore) GetByNumber(number string) (Session, bool) {
	if number == "" {
		return Session{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(m.now())
	var best Session
	var found bool
	for _, s := range m.sessions {
		if s.ToNumber != number {
			continue
		}
		if !found || s.CreatedAt.After(best.CreatedAt) {
			best = s
			found = true
		}
	}
	return best, found
}

func (m *MemoryStore) List() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(m.now())
	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(m.now())
	return len(m.sessions)
}

func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(now)
}

// sweepLocked removes sessions older than the TTL. Caller holds mu.
func (m *MemoryStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.CreatedAt) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// evictOldestLocked drops the oldest session to honor the cap. Caller holds mu.
func (m *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, s := range m.sessions {
		if oldestID == "" || s.CreatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = s.CreatedAt
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
	}
}
