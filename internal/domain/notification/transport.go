package notification

import "context"

// EmailMessage is a rendered email ready for a transport.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// SendResult is what a provider reports for an accepted message.
type SendResult struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status,omitempty"`
}

// EmailTransport wraps one email provider. IsConfigured is fixed at
// construction time.
type EmailTransport interface {
	Name() string
	IsConfigured() bool
	Send(ctx context.Context, msg EmailMessage) (SendResult, error)
	Verify(ctx context.Context) error
}

// SMSTransport wraps one SMS provider.
type SMSTransport interface {
	Name() string
	IsConfigured() bool
	Send(ctx context.Context, to, body string) (SendResult, error)
	Verify(ctx context.Context) error
}

// FirstConfigured returns the first configured transport in priority order,
// or nil when none is.
func FirstConfigured(transports []EmailTransport) EmailTransport {
	for _, t := range transports {
		if t != nil && t.IsConfigured() {
			return t
		}
	}
	return nil
}
