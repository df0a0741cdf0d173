package voice

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)

	s.Put(Session{ID: "abc123", ToNumber: "+254712345678", Message: "Hello", Voice: VoiceMan})

	got, ok := s.Get("abc123")
	require.True(t, ok)
	assert.Equal(t, "Hello", got.Message)
	assert.Equal(t, VoiceMan, got.Voice)
	assert.Equal(t, "+254712345678", got.ToNumber)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetUnknownID(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)

	_, ok := s.Get("does-not-exist")
	assert.False(t, ok)
}

func TestGetIsIdempotent(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)
	s.Put(Session{ID: "x", Message: "repeat me"})

	first, ok1 := s.Get("x")
	second, ok2 := s.Get("x")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestPutOverwrites(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)
	s.Put(Session{ID: "x", Message: "one"})
	s.Put(Session{ID: "x", Message: "two"})

	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "two", got.Message)
	assert.Equal(t, 1, s.Len())
}

func TestExpiry(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Put(Session{ID: "old", Message: "stale"})

	// Just inside the TTL: still retrievable.
	now = now.Add(time.Hour - time.Second)
	_, ok := s.Get("old")
	assert.True(t, ok)

	// Just past the TTL: gone.
	now = now.Add(2 * time.Second)
	_, ok = s.Get("old")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestLazySweepOnPut(t *testing.T) {
	s := NewMemoryStore(time.Minute, 0)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Put(Session{ID: "a", Message: "first"})
	now = now.Add(2 * time.Minute)
	s.Put(Session{ID: "b", Message: "second"})

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	s := NewMemoryStore(time.Minute, 0)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Put(Session{ID: "old", Message: "first"})
	now = now.Add(30 * time.Second)
	s.Put(Session{ID: "fresh", Message: "second"})

	assert.Equal(t, 1, s.Sweep(now.Add(45*time.Second)))
	_, ok := s.Get("fresh")
	assert.True(t, ok)
	_, ok = s.Get("old")
	assert.False(t, ok)
}

func TestEvictionCap(t *testing.T) {
	s := NewMemoryStore(time.Hour, 2)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Put(Session{ID: "a", Message: "1"})
	now = now.Add(time.Second)
	s.Put(Session{ID: "b", Message: "2"})
	now = now.Add(time.Second)
	s.Put(Session{ID: "c", Message: "3"})

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a") // oldest evicted
	assert.False(t, ok)
	_, ok = s.Get("c")
	assert.True(t, ok)
}

func TestGetByNumber(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Put(Session{ID: "a", ToNumber: "+254700000001", Message: "older"})
	now = now.Add(time.Second)
	s.Put(Session{ID: "b", ToNumber: "+254700000001", Message: "newer"})

	got, ok := s.GetByNumber("+254700000001")
	require.True(t, ok)
	assert.Equal(t, "newer", got.Message)

	_, ok = s.GetByNumber("+254799999999")
	assert.False(t, ok)
	_, ok = s.GetByNumber("")
	assert.False(t, ok)
}

func TestDefaultVoice(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)
	s.Put(Session{ID: "x", Message: "hi"})

	got, _ := s.Get("x")
	assert.Equal(t, VoiceWoman, got.Voice)
}

func TestConcurrentStoreAndGet(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)

	// An initiator goroutine and a webhook goroutine race on the same id;
	// once Put has returned, Get must observe the value.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		id := string(rune('a'+i%26)) + "-session"
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s.Put(Session{ID: id, Message: "msg"})
			_, ok := s.Get(id)
			assert.True(t, ok)
		}(id)
	}
	wg.Wait()
}

func TestList(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Put(Session{ID: "a", Message: "first"})
	now = now.Add(time.Second)
	s.Put(Session{ID: "b", Message: "second"})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID) // newest first
	assert.Equal(t, "a", list[1].ID)
}

func TestParseVoiceType(t *testing.T) {
	assert.Equal(t, VoiceMan, ParseVoiceType("man"))
	assert.Equal(t, VoiceWoman, ParseVoiceType("woman"))
	assert.Equal(t, VoiceWoman, ParseVoiceType(""))
	assert.Equal(t, VoiceWoman, ParseVoiceType("robot"))
}
