// Package health verifies provider connectivity in the background.
package health

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nydart/notification-service/internal/domain/notification"
)

// Gauge receives the result of each provider verification.
type Gauge interface {
	SetProviderUp(transport string, up bool)
}

type verifier interface {
	Name() string
	IsConfigured() bool
	Verify(ctx context.Context) error
}

// Probe verifies every configured email and SMS transport.
type Probe struct {
	targets []verifier
	gauge   Gauge
}

func NewProbe(emailTransports []notification.EmailTransport, smsTransport notification.SMSTransport, gauge Gauge) *Probe {
	p := &Probe{gauge: gauge}
	for _, t := range emailTransports {
		if t != nil {
			p.targets = append(p.targets, t)
		}
	}
	if smsTransport != nil {
		p.targets = append(p.targets, smsTransport)
	}
	return p
}

// Run verifies each configured transport once. Unconfigured transports are
// skipped. The returned error joins every failure.
func (p *Probe) Run(ctx context.Context) error {
	var errs []error
	for _, t := range p.targets {
		if !t.IsConfigured() {
			continue
		}
		err := t.Verify(ctx)
		if p.gauge != nil {
			p.gauge.SetProviderUp(t.Name(), err == nil)
		}
		if err != nil {
			slog.Warn("Provider verification failed", "transport", t.Name(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
