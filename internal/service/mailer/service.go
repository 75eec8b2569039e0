package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/pkg/email"
	"github.com/nydart/notification-service/internal/pkg/metrics"
)

const (
	testSubject = "Test Email - NydArt Advisor"
	testText    = "This is a test email to verify the email provider configuration."
	testHTML    = "<p>This is a test email to verify the email provider configuration.</p>"
)

// Config holds the links and addresses the mailer fills in on behalf of callers.
type Config struct {
	FrontendURL string
	TestEmail   string
}

type service struct {
	transports []notification.EmailTransport
	templates  *email.Renderer
	config     Config
	metrics    metrics.Recorder
}

// NewMailerService creates the direct mailer. Transports are tried in order
// and the first configured one is used.
func NewMailerService(transports []notification.EmailTransport, templates *email.Renderer, cfg Config, recorder metrics.Recorder) notification.Mailer {
	if cfg.TestEmail == "" {
		cfg.TestEmail = "test@example.com"
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &service{
		transports: transports,
		templates:  templates,
		config:     cfg,
		metrics:    recorder,
	}
}

// SendPasswordReset implements notification.Mailer.
func (s *service) SendPasswordReset(ctx context.Context, req notification.PasswordResetRequest) (*notification.EmailDelivery, error) {
	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.config.FrontendURL, req.ResetToken)

	content, err := s.templates.PasswordReset(resetLink)
	if err != nil {
		return nil, err
	}

	return s.deliver(ctx, req.Email, content, map[string]string{
		"to":      req.Email,
		"subject": content.Subject,
	})
}

// SendWelcome implements notification.Mailer.
func (s *service) SendWelcome(ctx context.Context, req notification.WelcomeEmailRequest) (*notification.EmailDelivery, error) {
	loginLink := req.LoginLink
	if loginLink == "" {
		loginLink = s.config.FrontendURL + "/login"
	}

	content, err := s.templates.Welcome(req.Username, loginLink)
	if err != nil {
		return nil, err
	}

	return s.deliver(ctx, req.Email, content, map[string]string{
		"to":        req.Email,
		"subject":   content.Subject,
		"username":  req.Username,
		"loginLink": loginLink,
	})
}

// SendSecurityAlert implements notification.Mailer.
func (s *service) SendSecurityAlert(ctx context.Context, req notification.SecurityAlertEmailRequest) (*notification.EmailDelivery, error) {
	data := email.SecurityAlertData{
		Username:    req.Username,
		LoginTime:   req.LoginTime,
		DeviceInfo:  valueOr(req.DeviceInfo, "Unknown device"),
		Location:    valueOr(req.Location, "Unknown location"),
		LoginLink:   valueOr(req.LoginLink, s.config.FrontendURL+"/dashboard"),
		SupportLink: valueOr(req.SupportLink, s.config.FrontendURL+"/support"),
	}

	content, err := s.templates.SecurityAlert(data)
	if err != nil {
		return nil, err
	}

	return s.deliver(ctx, req.Email, content, map[string]string{
		"to":         req.Email,
		"subject":    content.Subject,
		"username":   data.Username,
		"loginTime":  data.LoginTime,
		"deviceInfo": data.DeviceInfo,
		"location":   data.Location,
	})
}

// SendTestEmail sends a fixed message to the configured test address. Unlike
// the transactional emails it fails when no provider is configured.
func (s *service) SendTestEmail(ctx context.Context) (*notification.EmailDelivery, error) {
	transport := notification.FirstConfigured(s.transports)
	if transport == nil {
		return nil, notification.ErrNoEmailService
	}

	return s.send(ctx, transport, s.config.TestEmail, email.Content{
		Subject: testSubject,
		HTML:    testHTML,
		Text:    testText,
	}, nil)
}

// TestConnection verifies the active provider and returns its name.
func (s *service) TestConnection(ctx context.Context) (string, error) {
	transport := notification.FirstConfigured(s.transports)
	if transport == nil {
		return "", notification.ErrNoEmailService
	}
	if err := transport.Verify(ctx); err != nil {
		slog.Error("Email connection test failed", "transport", transport.Name(), "error", err)
		return transport.Name(), err
	}
	return transport.Name(), nil
}

// Status implements notification.Mailer.
func (s *service) Status() map[string]string {
	status := make(map[string]string, len(s.transports))
	for _, t := range s.transports {
		if t.IsConfigured() {
			status[t.Name()] = notification.StatusConfigured
		} else {
			status[t.Name()] = notification.StatusNotConfigured
		}
	}
	return status
}

// deliver sends through the first configured transport, or logs the email
// and reports a mock delivery when none is configured.
func (s *service) deliver(ctx context.Context, to string, content email.Content, details map[string]string) (*notification.EmailDelivery, error) {
	transport := notification.FirstConfigured(s.transports)
	if transport == nil {
		slog.Warn("No email service configured, email not sent", "to", to, "subject", content.Subject)
		s.metrics.ObserveDelivery(string(notification.ChannelEmail), notification.MethodMock)
		return &notification.EmailDelivery{
			Method:  notification.MethodMock,
			To:      to,
			Subject: content.Subject,
			SentAt:  time.Now(),
			Details: details,
		}, nil
	}
	return s.send(ctx, transport, to, content, details)
}

func (s *service) send(ctx context.Context, transport notification.EmailTransport, to string, content email.Content, details map[string]string) (*notification.EmailDelivery, error) {
	start := time.Now()
	res, err := transport.Send(ctx, notification.EmailMessage{
		To:      to,
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	})
	s.metrics.ObserveSend(transport.Name(), time.Since(start), err)
	if err != nil {
		s.metrics.ObserveDelivery(string(notification.ChannelEmail), string(notification.OutcomeFailed))
		return nil, err
	}

	s.metrics.ObserveDelivery(string(notification.ChannelEmail), string(notification.OutcomeSent))
	return &notification.EmailDelivery{
		Method:    transport.Name(),
		MessageID: res.MessageID,
		To:        to,
		Subject:   content.Subject,
		SentAt:    time.Now(),
		Details:   details,
	}, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
