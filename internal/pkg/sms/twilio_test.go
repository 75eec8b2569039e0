package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nydart/notification-service/internal/config"
	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTwilio(t *testing.T, handler http.HandlerFunc) (*TwilioTransport, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	tr := NewTwilioTransport(config.TwilioConfig{
		AccountSID:  "AC123",
		AuthToken:   "token",
		PhoneNumber: "+15550001111",
		BaseURL:     srv.URL,
		Timeout:     5 * time.Second,
	})
	return tr, &calls
}

func TestNewTwilioTransport_NotConfigured(t *testing.T) {
	tr := NewTwilioTransport(config.TwilioConfig{AccountSID: "AC123", AuthToken: "token"})
	assert.False(t, tr.IsConfigured())
	assert.Equal(t, TransportTwilio, tr.Name())

	_, err := tr.Send(context.Background(), "+33612345678", "hi")
	assert.ErrorIs(t, err, notification.ErrSMSNotConfigured)
	assert.ErrorIs(t, tr.Verify(context.Background()), notification.ErrSMSNotConfigured)
}

func TestTwilioTransport_Send(t *testing.T) {
	tr, calls := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+33612345678", r.PostForm.Get("To"))
		assert.Equal(t, "+15550001111", r.PostForm.Get("From"))
		assert.Equal(t, "hello", r.PostForm.Get("Body"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "SM1", "status": "queued"})
	})

	res, err := tr.Send(context.Background(), "+33612345678", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM1", res.MessageID)
	assert.Equal(t, "queued", res.Status)
	assert.Equal(t, 1, *calls)
}

func TestTwilioTransport_SendInvalidNumber(t *testing.T) {
	tr, calls := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	for _, to := range []string{"0612345678", "+0123", "", "+1-555-000"} {
		_, err := tr.Send(context.Background(), to, "hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, notification.ErrInvalidPhoneNumber)
		assert.Contains(t, err.Error(), "Invalid phone number format: "+to)
	}
	assert.Equal(t, 0, *calls, "provider must not be called for invalid numbers")
}

func TestTwilioTransport_SendAPIError(t *testing.T) {
	tr, calls := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 21211, "message": "The 'To' number is not a valid phone number.", "status": 400,
		})
	})

	_, err := tr.Send(context.Background(), "+15005550001", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")
	assert.Equal(t, 1, *calls, "no retries")
}

func TestTwilioTransport_Verify(t *testing.T) {
	tr, _ := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/2010-04-01/Accounts/AC123.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "AC123", "friendly_name": "NydArt", "status": "active"})
	})
	assert.NoError(t, tr.Verify(context.Background()))

	bad, _ := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	err := bad.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
