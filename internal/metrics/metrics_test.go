package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDispatch(t *testing.T) {
	m := New("sauti")

	m.ObserveDispatch("send_airtime", "ok")
	m.ObserveDispatch("send_airtime", "ok")
	m.ObserveDispatch("send_airtime", "error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Dispatches.WithLabelValues("send_airtime", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispatches.WithLabelValues("send_airtime", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderErrors.WithLabelValues("send_airtime")),
		"non-ok outcomes count as provider errors")
}

func TestObserveCallback(t *testing.T) {
	m := New("sauti")

	m.ObserveCallback("session_id")
	m.ObserveCallback("fallback")
	m.ObserveCallback("fallback")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallbackRequests.WithLabelValues("session_id")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CallbackRequests.WithLabelValues("fallback")))
}

func TestSessionGaugeAndHandler(t *testing.T) {
	m := New("sauti")
	m.RegisterSessionGauge("sauti", func() int { return 3 })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "sauti_voice_sessions_active 3")
}

func TestIndependentRegistries(t *testing.T) {
	// Two instances must not clash on registration.
	a := New("sauti")
	b := New("sauti")
	a.ObserveDispatch("send_message", "ok")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Dispatches.WithLabelValues("send_message", "ok")))
}
