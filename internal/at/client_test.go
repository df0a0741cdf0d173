package at

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sautihq/sauti/internal/config"
	"github.com/sautihq/sauti/internal/logging"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.ATConfig{
		Username:    "sandbox",
		APIKey:      "atsk_test_key",
		Environment: "sandbox",
		DataProduct: "mobiledata",
		WhatsApp:    "+254799999999",
	}
	return New(cfg, logging.New(nil, "silent"),
		WithBaseURLs(srv.URL, srv.URL, srv.URL, srv.URL))
}

func TestSendAirtime(t *testing.T) {
	var gotPath, gotKey, gotRecipients string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apiKey")
		require.NoError(t, r.ParseForm())
		gotRecipients = r.PostFormValue("recipients")
		assert.Equal(t, "sandbox", r.PostFormValue("username"))
		w.Write([]byte(`{"numSent":1}`))
	}))

	resp, err := client.SendAirtime(context.Background(), "+254712345678", "KES", "10")
	require.NoError(t, err)
	assert.Equal(t, `{"numSent":1}`, resp)
	assert.Equal(t, "/version1/airtime/send", gotPath)
	assert.Equal(t, "atsk_test_key", gotKey)

	var recipients []airtimeRecipient
	require.NoError(t, json.Unmarshal([]byte(gotRecipients), &recipients))
	require.Len(t, recipients, 1)
	assert.Equal(t, "+254712345678", recipients[0].PhoneNumber)
	assert.Equal(t, "KES 10", recipients[0].Amount)
}

func TestSendSMS(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version1/messaging", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+254712345678", r.PostFormValue("to"))
		assert.Equal(t, "Hello there", r.PostFormValue("message"))
		w.Write([]byte(`{"SMSMessageData":{}}`))
	}))

	resp, err := client.SendSMS(context.Background(), "+254712345678", "Hello there")
	require.NoError(t, err)
	assert.Contains(t, resp, "SMSMessageData")
}

func TestCallPassesClientRequestID(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/call", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+254700000001", r.PostFormValue("from"))
		assert.Equal(t, "+254712345678", r.PostFormValue("to"))
		assert.Equal(t, "session-42", r.PostFormValue("clientRequestId"))
		w.Write([]byte(`{"entries":[{"status":"Queued"}]}`))
	}))

	resp, err := client.Call(context.Background(), "+254700000001", "+254712345678", "session-42")
	require.NoError(t, err)
	assert.Contains(t, resp, "Queued")
}

func TestAPIErrorSurfacesBody(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))

	_, err := client.SendSMS(context.Background(), "+254712345678", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestWalletBalance(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query/wallet/balance", r.URL.Path)
		assert.Equal(t, "sandbox", r.URL.Query().Get("username"))
		w.Write([]byte(`{"status":"Success","balance":"KES 1234.56"}`))
	}))

	resp, err := client.WalletBalance(context.Background())
	require.NoError(t, err)
	assert.Contains(t, resp, "1234.56")
}

func TestSendMobileData(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/query/wallet/balance":
			w.Write([]byte(`{"status":"Success","balance":"KES 500.00"}`))
		case "/mobile/data/request":
			var req dataRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "mobiledata", req.ProductName)
			require.Len(t, req.Recipients, 1)
			assert.Equal(t, 100, req.Recipients[0].Quantity)
			assert.Equal(t, "MB", req.Recipients[0].Unit)
			assert.Equal(t, "Week", req.Recipients[0].Validity)
			w.Write([]byte(`{"entries":[{"status":"Queued"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	resp, err := client.SendMobileData(context.Background(), "+254712345678", 100, "MB", "Week")
	require.NoError(t, err)
	assert.Contains(t, resp, "Queued")
}

func TestSendMobileDataRefusesEmptyWallet(t *testing.T) {
	var dataRequests int
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/query/wallet/balance":
			w.Write([]byte(`{"status":"Success","balance":"KES 0.00"}`))
		default:
			dataRequests++
		}
	}))

	_, err := client.SendMobileData(context.Background(), "+254712345678", 50, "MB", "Day")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, 0, dataRequests, "no purchase attempt on empty wallet")
}

func TestSendWhatsApp(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/whatsapp/message/send", r.URL.Path)
		var req whatsAppRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+254799999999", req.WaNumber)
		assert.Equal(t, "+254712345678", req.PhoneNumber)
		assert.Equal(t, "Hello!", req.Body.Message)
		w.Write([]byte(`{"status":"Sent"}`))
	}))

	resp, err := client.SendWhatsApp(context.Background(), "+254712345678", "Hello!")
	require.NoError(t, err)
	assert.Contains(t, resp, "Sent")
}

func TestSendWhatsAppWithoutSender(t *testing.T) {
	cfg := config.ATConfig{Username: "sandbox", APIKey: "k"}
	client := New(cfg, logging.New(nil, "silent"))

	_, err := client.SendWhatsApp(context.Background(), "+254712345678", "hi")
	assert.Error(t, err)
}

func TestSendUSSDUnsupported(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("push ussd must not hit the network")
	}))

	_, err := client.SendUSSD(context.Background(), "+254712345678", "*123#")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUSSDUnsupported))
}

func TestApplicationBalance(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version1/user", r.URL.Path)
		w.Write([]byte(`{"UserData":{"balance":"KES 42.00"}}`))
	}))

	resp, err := client.ApplicationBalance(context.Background())
	require.NoError(t, err)
	assert.Contains(t, resp, "42.00")
}

func TestUsernameIsQueryEscaped(t *testing.T) {
	var gotUsername string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUsername = r.URL.Query().Get("username")
		w.Write([]byte(`{"balance":"KES 10.00"}`))
	}))
	t.Cleanup(srv.Close)

	cfg := config.ATConfig{Username: "team name+ke", APIKey: "atsk_test_key"}
	client := New(cfg, logging.New(nil, "silent"),
		WithBaseURLs(srv.URL, srv.URL, srv.URL, srv.URL))

	_, err := client.ApplicationBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "team name+ke", gotUsername)

	_, err = client.WalletBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "team name+ke", gotUsername)
}
