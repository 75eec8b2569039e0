package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/handler/http/response"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "notification-mail-sms-service"

type EmailHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
	TestEmailService(w http.ResponseWriter, r *http.Request)
	SendTestEmail(w http.ResponseWriter, r *http.Request)
	PasswordReset(w http.ResponseWriter, r *http.Request)
	Welcome(w http.ResponseWriter, r *http.Request)
	SecurityAlert(w http.ResponseWriter, r *http.Request)
}

type emailHandlerImpl struct {
	mailer       notification.Mailer
	notifService notification.Service
}

func NewEmailHandler(mailer notification.Mailer, notifService notification.Service) EmailHandler {
	return &emailHandlerImpl{
		mailer:       mailer,
		notifService: notifService,
	}
}

type healthResponse struct {
	Status        string            `json:"status"`
	Service       string            `json:"service"`
	EmailServices map[string]string `json:"emailServices"`
	SMSService    string            `json:"smsService"`
}

type deliveryResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	MessageID string            `json:"messageId,omitempty"`
	Method    string            `json:"method"`
	Details   map[string]string `json:"details,omitempty"`
}

func newDeliveryResponse(d *notification.EmailDelivery, message, mockMessage string) deliveryResponse {
	if d.IsMock() {
		return deliveryResponse{
			Success: true,
			Message: mockMessage,
			Method:  d.Method,
			Details: d.Details,
		}
	}
	return deliveryResponse{
		Success:   true,
		Message:   message,
		MessageID: d.MessageID,
		Method:    d.Method,
	}
}

// Health implements EmailHandler.
func (h *emailHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Service:       ServiceName,
		EmailServices: h.mailer.Status(),
		SMSService:    h.notifService.SMSStatus(),
	})
}

// TestEmailService implements EmailHandler.
func (h *emailHandlerImpl) TestEmailService(w http.ResponseWriter, r *http.Request) {
	name, err := h.mailer.TestConnection(r.Context())
	if err != nil {
		slog.Error("TestEmailService error", "transport", name, "error", err)
		if errors.Is(err, notification.ErrNoEmailService) {
			response.HandleError(w, err)
			return
		}
		response.Failure(w, http.StatusInternalServerError, "Email service test failed", err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s connection test successful", name),
		"method":  name,
	})
}

// SendTestEmail implements EmailHandler.
func (h *emailHandlerImpl) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	d, err := h.mailer.SendTestEmail(r.Context())
	if err != nil {
		slog.Error("SendTestEmail error", "error", err)
		if errors.Is(err, notification.ErrNoEmailService) {
			response.HandleError(w, err)
			return
		}
		response.Failure(w, http.StatusInternalServerError, "Test email failed", err)
		return
	}

	resp := newDeliveryResponse(d, "Test email sent successfully", "")
	resp.Details = map[string]string{"to": d.To}
	response.JSON(w, http.StatusOK, resp)
}

// PasswordReset implements EmailHandler.
func (h *emailHandlerImpl) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req notification.PasswordResetRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PasswordReset decode error", "error", err)
		response.BadRequest(w, "Email and resetToken are required", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(w, "Email and resetToken are required", nil)
		return
	}

	d, err := h.mailer.SendPasswordReset(r.Context(), req)
	if err != nil {
		slog.Error("PasswordReset send error", "to", req.Email, "error", err)
		response.Failure(w, http.StatusInternalServerError, "Failed to send password reset email", err)
		return
	}

	response.JSON(w, http.StatusOK, newDeliveryResponse(d,
		"Password reset email sent successfully",
		"Password reset email would be sent (no email service configured)",
	))
}

// Welcome implements EmailHandler.
func (h *emailHandlerImpl) Welcome(w http.ResponseWriter, r *http.Request) {
	var req notification.WelcomeEmailRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Welcome decode error", "error", err)
		response.BadRequest(w, "Email and username are required", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(w, "Email and username are required", nil)
		return
	}

	d, err := h.mailer.SendWelcome(r.Context(), req)
	if err != nil {
		slog.Error("Welcome send error", "to", req.Email, "error", err)
		response.Failure(w, http.StatusInternalServerError, "Failed to send welcome email", err)
		return
	}

	response.JSON(w, http.StatusOK, newDeliveryResponse(d,
		"Welcome email sent successfully",
		"Welcome email sent successfully (mock)",
	))
}

// SecurityAlert implements EmailHandler.
func (h *emailHandlerImpl) SecurityAlert(w http.ResponseWriter, r *http.Request) {
	var req notification.SecurityAlertEmailRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SecurityAlert decode error", "error", err)
		response.BadRequest(w, "Email, username, and loginTime are required", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(w, "Email, username, and loginTime are required", nil)
		return
	}

	d, err := h.mailer.SendSecurityAlert(r.Context(), req)
	if err != nil {
		slog.Error("SecurityAlert send error", "to", req.Email, "error", err)
		response.Failure(w, http.StatusInternalServerError, "Failed to send security alert", err)
		return
	}

	response.JSON(w, http.StatusOK, newDeliveryResponse(d,
		"Security alert sent successfully",
		"Security alert sent successfully (mock)",
	))
}
