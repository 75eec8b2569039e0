package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ObserveDelivery(t *testing.T) {
	r := NewRegistry()
	r.ObserveDelivery("email", "sent")
	r.ObserveDelivery("email", "sent")
	r.ObserveDelivery("sms", "disabled")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.deliveries.WithLabelValues("email", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.deliveries.WithLabelValues("sms", "disabled")))
}

func TestRegistry_ObserveSend(t *testing.T) {
	r := NewRegistry()
	r.ObserveSend("smtp", 120*time.Millisecond, nil)
	r.ObserveSend("smtp", 80*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.sends.WithLabelValues("smtp", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sends.WithLabelValues("smtp", "failure")))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ObserveDelivery("in_app", "sent")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `notification_deliveries_total{channel="in_app",outcome="sent"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRegistry_SetProviderUp(t *testing.T) {
	r := NewRegistry()
	r.SetProviderUp("twilio", true)
	r.SetProviderUp("smtp", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.providerUp.WithLabelValues("twilio")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.providerUp.WithLabelValues("smtp")))

	r.SetProviderUp("smtp", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.providerUp.WithLabelValues("smtp")))
}

func TestRegistry_TrackStreamSubscribers(t *testing.T) {
	r := NewRegistry()
	live := 3
	r.TrackStreamSubscribers(func() int { return live })
	r.TrackStreamSubscribers(func() int { return 99 })

	assert.Equal(t, 3.0, testutil.ToFloat64(r.subscribers))
	live = 1
	assert.Equal(t, 1.0, testutil.ToFloat64(r.subscribers))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "notification_stream_subscribers 1")
}
