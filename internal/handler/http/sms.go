package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/handler/http/response"
)

type SMSHandler interface {
	TestSMSService(w http.ResponseWriter, r *http.Request)
	SendTestSMS(w http.ResponseWriter, r *http.Request)
}

type smsHandlerImpl struct {
	notifService notification.Service
}

func NewSMSHandler(notifService notification.Service) SMSHandler {
	return &smsHandlerImpl{notifService: notifService}
}

// TestSMSService implements SMSHandler.
func (h *smsHandlerImpl) TestSMSService(w http.ResponseWriter, r *http.Request) {
	if err := h.notifService.VerifySMS(r.Context()); err != nil {
		slog.Error("TestSMSService error", "error", err)
		if errors.Is(err, notification.ErrSMSNotConfigured) {
			response.HandleError(w, err)
			return
		}
		response.Failure(w, http.StatusInternalServerError, "SMS service test failed", err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Twilio connection test successful",
	})
}

// SendTestSMS implements SMSHandler.
func (h *smsHandlerImpl) SendTestSMS(w http.ResponseWriter, r *http.Request) {
	var req notification.TestSMSRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SendTestSMS decode error", "error", err)
		response.BadRequest(w, "phoneNumber is required", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(w, "phoneNumber is required", nil)
		return
	}

	res, err := h.notifService.SendTestSMS(r.Context(), req.PhoneNumber)
	if err != nil {
		slog.Error("SendTestSMS error", "to", req.PhoneNumber, "error", err)
		switch {
		case errors.Is(err, notification.ErrInvalidPhoneNumber), errors.Is(err, notification.ErrSMSNotConfigured):
			response.HandleError(w, err)
		default:
			response.Failure(w, http.StatusInternalServerError, "Test SMS failed", err)
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Test SMS sent successfully",
		"messageId": res.MessageID,
		"status":    res.Status,
	})
}
