package email

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

// text/template keeps values verbatim. Callers own any escaping.
//
//go:embed templates/*
var templateFS embed.FS

const (
	SubjectPasswordReset = "Reset Your Password - NydArt Advisor"
	SubjectWelcome       = "Welcome to NydArt Advisor! 🎨"
	SubjectSecurityAlert = "🔒 Security Alert - New Login Detected - NydArt Advisor"
)

// Content is a rendered email: subject plus HTML and plain-text bodies.
type Content struct {
	Subject string
	HTML    string
	Text    string
}

// SecurityAlertData holds the values interpolated into the security alert email.
type SecurityAlertData struct {
	Username    string
	LoginTime   string
	DeviceInfo  string
	Location    string
	LoginLink   string
	SupportLink string
}

type passwordResetData struct {
	ResetLink string
}

type welcomeData struct {
	Username  string
	LoginLink string
}

type notificationData struct {
	Title     string
	Message   string
	ActionURL string
}

// Renderer builds email bodies from the embedded templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// MustNewRenderer panics if the embedded templates do not parse.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// PasswordReset renders the password reset email for resetLink.
func (r *Renderer) PasswordReset(resetLink string) (Content, error) {
	return r.render("password_reset", SubjectPasswordReset, passwordResetData{ResetLink: resetLink})
}

// Welcome renders the welcome email.
func (r *Renderer) Welcome(username, loginLink string) (Content, error) {
	return r.render("welcome", SubjectWelcome, welcomeData{Username: username, LoginLink: loginLink})
}

// SecurityAlert renders the new-login alert.
func (r *Renderer) SecurityAlert(data SecurityAlertData) (Content, error) {
	return r.render("security_alert", SubjectSecurityAlert, data)
}

// Notification renders a generic category notification. The title doubles
// as the subject.
func (r *Renderer) Notification(title, message, actionURL string) (Content, error) {
	return r.render("notification", title, notificationData{Title: title, Message: message, ActionURL: actionURL})
}

func (r *Renderer) render(name, subject string, data interface{}) (Content, error) {
	var html, text bytes.Buffer
	if err := r.templates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Content{}, fmt.Errorf("failed to execute template %s.html: %w", name, err)
	}
	if err := r.templates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Content{}, fmt.Errorf("failed to execute template %s.txt: %w", name, err)
	}
	return Content{Subject: subject, HTML: html.String(), Text: text.String()}, nil
}
