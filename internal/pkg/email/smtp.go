package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nydart/notification-service/internal/config"
	"github.com/nydart/notification-service/internal/domain/notification"
)

// TransportSMTP is the name reported for the SMTP transport.
const TransportSMTP = "smtp"

type smtpPreset struct {
	host string
	port int
}

var smtpPresets = map[string]smtpPreset{
	"gmail":   {host: "smtp.gmail.com", port: 587},
	"outlook": {host: "smtp-mail.outlook.com", port: 587},
	"hotmail": {host: "smtp-mail.outlook.com", port: 587},
	"yahoo":   {host: "smtp.mail.yahoo.com", port: 587},
}

type sendMailFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPTransport delivers email through an SMTP relay.
type SMTPTransport struct {
	cfg        config.SMTPConfig
	host       string
	port       int
	secure     bool
	configured bool
	sendMail   sendMailFunc
}

// NewSMTPTransport resolves the provider preset once. The transport is
// unconfigured when credentials are missing, the provider is unknown or a
// custom provider has no host. Secure only applies to the custom provider;
// presets always use STARTTLS.
func NewSMTPTransport(cfg config.SMTPConfig) *SMTPTransport {
	t := &SMTPTransport{cfg: cfg}

	if cfg.Username == "" || cfg.Password == "" {
		slog.Warn("EMAIL_USER or EMAIL_PASSWORD not set, SMTP transport disabled")
		return t
	}

	switch provider := strings.ToLower(cfg.Provider); provider {
	case "custom":
		if cfg.Host == "" {
			slog.Error("EMAIL_HOST required for custom email provider")
			return t
		}
		t.host, t.port, t.secure = cfg.Host, cfg.Port, cfg.Secure
	default:
		preset, ok := smtpPresets[provider]
		if !ok {
			slog.Error("Unsupported email provider", "provider", cfg.Provider)
			return t
		}
		t.host, t.port = preset.host, preset.port
	}

	t.configured = true
	if t.secure {
		t.sendMail = sendMailImplicitTLS
	} else {
		t.sendMail = sendMailSTARTTLS
	}
	slog.Info("SMTP transport initialized", "provider", cfg.Provider, "host", t.host, "port", t.port)
	return t
}

func (t *SMTPTransport) Name() string { return TransportSMTP }

func (t *SMTPTransport) IsConfigured() bool { return t.configured }

// Addr returns host:port of the resolved relay
func (t *SMTPTransport) Addr() string {
	return net.JoinHostPort(t.host, fmt.Sprint(t.port))
}

func (t *SMTPTransport) from() string {
	if t.cfg.From != "" {
		return t.cfg.From
	}
	return t.cfg.Username
}

// Send delivers msg in a single attempt and returns the generated Message-ID.
func (t *SMTPTransport) Send(ctx context.Context, msg notification.EmailMessage) (notification.SendResult, error) {
	if !t.configured {
		return notification.SendResult{}, notification.ErrNoEmailService
	}
	if err := ctx.Err(); err != nil {
		return notification.SendResult{}, err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), domainOf(t.from()))
	raw, err := buildMIMEMessage(t.cfg.FromName, t.from(), msg, messageID, time.Now())
	if err != nil {
		return notification.SendResult{}, fmt.Errorf("failed to build message: %w", err)
	}

	auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.host)
	if err := t.sendMail(ctx, t.Addr(), auth, t.from(), []string{msg.To}, raw); err != nil {
		slog.Error("Failed to send email", "transport", TransportSMTP, "to", msg.To, "subject", msg.Subject, "error", err)
		return notification.SendResult{}, fmt.Errorf("smtp send: %w", err)
	}

	slog.Info("Email sent successfully", "transport", TransportSMTP, "to", msg.To, "subject", msg.Subject, "message_id", messageID)
	return notification.SendResult{MessageID: messageID}, nil
}

// Verify connects, authenticates and quits without sending.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	if !t.configured {
		return notification.ErrNoEmailService
	}

	c, err := t.dial(ctx)
	if err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}
	defer c.Close()

	if err := c.Hello("localhost"); err != nil {
		return fmt.Errorf("smtp hello: %w", err)
	}
	if !t.secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: t.host}); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	return c.Quit()
}

func (t *SMTPTransport) dial(ctx context.Context) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	var (
		conn net.Conn
		err  error
	)
	if t.secure {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: t.host}}).DialContext(ctx, "tcp", t.Addr())
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", t.Addr())
	}
	if err != nil {
		return nil, err
	}
	return smtp.NewClient(conn, t.host)
}

func sendMailSTARTTLS(_ context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	return smtp.SendMail(addr, a, from, to, msg)
}

// sendMailImplicitTLS is smtp.SendMail for relays that expect TLS from the
// first byte (usually port 465).
func sendMailImplicitTLS(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: 10 * time.Second},
		Config:    &tls.Config{ServerName: host},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if a != nil {
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMIMEMessage(fromName, from string, msg notification.EmailMessage, messageID string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := fmt.Sprintf("From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", fromName), from)
	headers += fmt.Sprintf("To: %s\r\n", msg.To)
	headers += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	headers += fmt.Sprintf("Message-ID: %s\r\n", messageID)
	headers += fmt.Sprintf("Date: %s\r\n", date.Format(time.RFC1123Z))
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	headers += "\r\n"

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=\"UTF-8\"", msg.Text},
		{"text/html; charset=\"UTF-8\"", msg.HTML},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return append([]byte(headers), buf.Bytes()...), nil
}

func domainOf(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}
