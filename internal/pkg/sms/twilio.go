package sms

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/nydart/notification-service/internal/config"
	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/pkg/validator"
)

// TransportTwilio is the name reported for the Twilio transport.
const TransportTwilio = "twilio"

// TestMessage is the body sent by the SMS diagnostics endpoint.
const TestMessage = "🧪 This is a test SMS from NydArt Advisor notification service."

// TwilioTransport sends SMS through the Twilio REST API.
type TwilioTransport struct {
	client     *resty.Client
	accountSID string
	from       string
	configured bool
}

type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type twilioAccount struct {
	SID          string `json:"sid"`
	FriendlyName string `json:"friendly_name"`
	Status       string `json:"status"`
}

// NewTwilioTransport returns a transport that is configured only when the
// account SID, auth token and sender number are all set.
func NewTwilioTransport(cfg config.TwilioConfig) *TwilioTransport {
	t := &TwilioTransport{
		accountSID: cfg.AccountSID,
		from:       cfg.PhoneNumber,
		configured: cfg.AccountSID != "" && cfg.AuthToken != "" && cfg.PhoneNumber != "",
	}
	if !t.configured {
		slog.Warn("Twilio credentials not set, SMS transport disabled")
		return t
	}

	t.client = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	slog.Info("Twilio transport initialized", "from", cfg.PhoneNumber)
	return t
}

func (t *TwilioTransport) Name() string { return TransportTwilio }

func (t *TwilioTransport) IsConfigured() bool { return t.configured }

// Send validates the destination and creates one message resource.
func (t *TwilioTransport) Send(ctx context.Context, to, body string) (notification.SendResult, error) {
	if !t.configured {
		return notification.SendResult{}, notification.ErrSMSNotConfigured
	}
	if !validator.IsValidPhoneNumber(to) {
		return notification.SendResult{}, &notification.InvalidPhoneNumberError{Number: to}
	}

	var (
		msg     twilioMessage
		apiErr  twilioError
		urlPath = fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", t.accountSID)
	)
	resp, err := t.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   to,
			"From": t.from,
			"Body": body,
		}).
		SetResult(&msg).
		SetError(&apiErr).
		Post(urlPath)
	if err != nil {
		slog.Error("Failed to send SMS", "to", to, "error", err)
		return notification.SendResult{}, fmt.Errorf("twilio send: %w", err)
	}
	if resp.IsError() {
		slog.Error("Twilio rejected SMS", "to", to, "status", resp.StatusCode(), "code", apiErr.Code, "message", apiErr.Message)
		return notification.SendResult{}, apiErr.asError(resp.StatusCode())
	}

	slog.Info("SMS sent successfully", "to", to, "sid", msg.SID, "status", msg.Status)
	return notification.SendResult{MessageID: msg.SID, Status: msg.Status}, nil
}

// Verify fetches the account resource to check the credentials.
func (t *TwilioTransport) Verify(ctx context.Context) error {
	if !t.configured {
		return notification.ErrSMSNotConfigured
	}

	var (
		account twilioAccount
		apiErr  twilioError
	)
	resp, err := t.client.R().
		SetContext(ctx).
		SetResult(&account).
		SetError(&apiErr).
		Get(fmt.Sprintf("/2010-04-01/Accounts/%s.json", t.accountSID))
	if err != nil {
		return fmt.Errorf("twilio verify: %w", err)
	}
	if resp.IsError() {
		return apiErr.asError(resp.StatusCode())
	}

	slog.Info("Twilio connection verified", "account", account.FriendlyName, "status", account.Status)
	return nil
}

func (e twilioError) asError(status int) error {
	if e.Message == "" {
		return fmt.Errorf("twilio error: %d %s", status, http.StatusText(status))
	}
	return fmt.Errorf("twilio error %d: %s", e.Code, e.Message)
}
