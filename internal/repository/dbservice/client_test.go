package dbservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nydart/notification-service/internal/config"
	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) notification.Repository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRepository(config.StoreConfig{ServiceURL: srv.URL, Timeout: 5 * time.Second})
}

func TestRepository_GetUser(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/u-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "u-1",
			"email": "alice@example.com",
			"username": "alice",
			"phone": {"number": "+33612345678"},
			"notificationPreferences": {
				"email": {"enabled": true, "categories": {"welcome": true}},
				"sms": {"enabled": true, "categories": {}},
				"inApp": {"enabled": false}
			}
		}`))
	})

	u, err := repo.GetUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "+33612345678", u.PhoneNumber())
	require.NotNil(t, u.NotificationPreferences)
	assert.True(t, u.NotificationPreferences.Email.Allows("welcome"))
	assert.False(t, u.NotificationPreferences.InApp.Enabled)
}

func TestRepository_GetUserErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := repo.GetUser(context.Background(), "missing")
		assert.ErrorIs(t, err, notification.ErrUserNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("db down"))
		})
		_, err := repo.GetUser(context.Background(), "u-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("unreachable", func(t *testing.T) {
		repo := NewRepository(config.StoreConfig{ServiceURL: "http://127.0.0.1:1", Timeout: time.Second})
		_, err := repo.GetUser(context.Background(), "u-1")
		assert.True(t, errors.Is(err, notification.ErrStoreUnavailable))
	})
}

func TestRepository_CreateNotification(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notifications", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-1", body["userId"])
		assert.Equal(t, "in_app", body["type"])
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, "urgent", body["priority"])

		body["id"] = "n-42"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	})

	n := &notification.Notification{
		UserID:   "u-1",
		Type:     notification.ChannelInApp,
		Category: notification.CategorySecurityAlert,
		Title:    "Security Alert",
		Message:  "Suspicious login",
		Status:   notification.StatusPending,
		Priority: notification.PriorityUrgent,
	}
	require.NoError(t, repo.CreateNotification(context.Background(), n))
	assert.Equal(t, "n-42", n.ID)
}

func TestRepository_CreateNotificationRejected(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid"}`))
	})

	err := repo.CreateNotification(context.Background(), &notification.Notification{UserID: "u-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 512))
	assert.Equal(t, "ab", truncate("abc", 2))
	// "é" is two bytes; cutting at 2 would split it.
	assert.Equal(t, "a", truncate("aé", 2))
	assert.Equal(t, "a", truncate("a🎨", 3))
}

func TestRepository_StatusErrorIsValidUTF8(t *testing.T) {
	body := strings.Repeat("a", maxErrorBody-1) + "é and more"
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(body))
	})

	_, err := repo.GetUser(context.Background(), "u-1")
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.NotContains(t, err.Error(), "é")
	assert.Contains(t, err.Error(), "returned 502")
}
