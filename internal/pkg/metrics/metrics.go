// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notification"

// Recorder receives delivery observations from the services.
type Recorder interface {
	ObserveDelivery(channel, outcome string)
	ObserveSend(transport string, d time.Duration, err error)
}

// Registry owns a private Prometheus registry with the Go runtime and
// process collectors plus the delivery metrics.
type Registry struct {
	registry     *prometheus.Registry
	deliveries   *prometheus.CounterVec
	sends        *prometheus.CounterVec
	sendDuration *prometheus.HistogramVec
	providerUp   *prometheus.GaugeVec
	subscribers  prometheus.GaugeFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deliveries_total",
				Help:      "Channel delivery attempts by outcome",
			},
			[]string{"channel", "outcome"},
		),
		sends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_sends_total",
				Help:      "Provider send calls by transport and status",
			},
			[]string{"transport", "status"},
		),
		sendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_send_duration_seconds",
				Help:      "Duration of provider send calls",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"transport"},
		),
		providerUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "provider_up",
				Help:      "Result of the last provider verification (1 reachable, 0 failing)",
			},
			[]string{"transport"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.deliveries,
		r.sends,
		r.sendDuration,
		r.providerUp,
	)
	return r
}

// ObserveDelivery counts one channel outcome.
func (r *Registry) ObserveDelivery(channel, outcome string) {
	r.deliveries.WithLabelValues(channel, outcome).Inc()
}

// ObserveSend records one provider call.
func (r *Registry) ObserveSend(transport string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	r.sends.WithLabelValues(transport, status).Inc()
	r.sendDuration.WithLabelValues(transport).Observe(d.Seconds())
}

// SetProviderUp records the outcome of a provider verification.
func (r *Registry) SetProviderUp(transport string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	r.providerUp.WithLabelValues(transport).Set(v)
}

// TrackStreamSubscribers exposes count as the number of live in-app stream
// subscribers. Only the first call registers the gauge.
func (r *Registry) TrackStreamSubscribers(count func() int) {
	if r.subscribers != nil {
		return
	}
	r.subscribers = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Live in-app notification stream subscribers",
		},
		func() float64 { return float64(count()) },
	)
	r.registry.MustRegister(r.subscribers)
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Nop discards observations.
type Nop struct{}

func (Nop) ObserveDelivery(string, string)           {}
func (Nop) ObserveSend(string, time.Duration, error) {}
func (Nop) SetProviderUp(string, bool)               {}
