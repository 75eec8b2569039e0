package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrz1836/postmark"
	"github.com/nydart/notification-service/internal/config"
	"github.com/nydart/notification-service/internal/domain/notification"
)

// TransportPostmark is the name reported for the Postmark HTTP API transport.
const TransportPostmark = "postmark"

// postmarkAPI is the part of *postmark.Client used here.
type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
	GetCurrentServer(ctx context.Context) (postmark.Server, error)
}

// PostmarkTransport delivers email through the Postmark HTTP API.
type PostmarkTransport struct {
	client postmarkAPI
	cfg    config.PostmarkConfig
}

// NewPostmarkTransport returns a transport that is configured only when a
// server token is present.
func NewPostmarkTransport(cfg config.PostmarkConfig) *PostmarkTransport {
	t := &PostmarkTransport{cfg: cfg}
	if cfg.ServerToken == "" {
		slog.Warn("POSTMARK_SERVER_TOKEN not set, Postmark transport disabled")
		return t
	}
	t.client = postmark.NewClient(cfg.ServerToken, cfg.AccountToken)
	slog.Info("Postmark transport initialized", "from", cfg.From)
	return t
}

func (t *PostmarkTransport) Name() string { return TransportPostmark }

func (t *PostmarkTransport) IsConfigured() bool { return t.client != nil }

func (t *PostmarkTransport) from() string {
	if t.cfg.FromName == "" {
		return t.cfg.From
	}
	return fmt.Sprintf("%s <%s>", t.cfg.FromName, t.cfg.From)
}

// Send submits msg in a single API call.
func (t *PostmarkTransport) Send(ctx context.Context, msg notification.EmailMessage) (notification.SendResult, error) {
	if !t.IsConfigured() {
		return notification.SendResult{}, notification.ErrNoEmailService
	}

	resp, err := t.client.SendEmail(ctx, postmark.Email{
		From:       t.from(),
		To:         msg.To,
		Subject:    msg.Subject,
		HTMLBody:   msg.HTML,
		TextBody:   msg.Text,
		TrackOpens: true,
	})
	if err != nil {
		slog.Error("Failed to send email", "transport", TransportPostmark, "to", msg.To, "subject", msg.Subject, "error", err)
		return notification.SendResult{}, fmt.Errorf("postmark send: %w", err)
	}
	if resp.ErrorCode > 0 {
		slog.Error("Postmark rejected email", "to", msg.To, "error_code", resp.ErrorCode, "message", resp.Message)
		return notification.SendResult{}, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}

	slog.Info("Email sent successfully", "transport", TransportPostmark, "to", msg.To, "subject", msg.Subject, "message_id", resp.MessageID)
	return notification.SendResult{MessageID: resp.MessageID}, nil
}

// Verify checks the server token by fetching the current server.
func (t *PostmarkTransport) Verify(ctx context.Context) error {
	if !t.IsConfigured() {
		return notification.ErrNoEmailService
	}
	if _, err := t.client.GetCurrentServer(ctx); err != nil {
		return fmt.Errorf("postmark verify: %w", err)
	}
	return nil
}
