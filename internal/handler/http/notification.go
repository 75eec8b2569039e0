package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/handler/http/response"
)

// NotificationHandler serves the internal dispatch API
type NotificationHandler interface {
	Send(w http.ResponseWriter, r *http.Request)
	AnalysisComplete(w http.ResponseWriter, r *http.Request)
	AnalysisFailed(w http.ResponseWriter, r *http.Request)
	SecurityAlert(w http.ResponseWriter, r *http.Request)
	Welcome(w http.ResponseWriter, r *http.Request)
	ArtworkAdded(w http.ResponseWriter, r *http.Request)
	GetPreferences(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

const streamKeepAlive = 30 * time.Second

type notificationHandlerImpl struct {
	notifService notification.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService notification.Service) NotificationHandler {
	return &notificationHandlerImpl{notifService: notifService}
}

type validatable interface {
	Validate() error
}

// decodeAndValidate writes the error response itself and reports whether
// the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, op string, req validatable) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	if err := req.Validate(); err != nil {
		slog.Error(op+" validate error", "error", err)
		response.HandleError(w, err)
		return false
	}
	return true
}

func writeResult(w http.ResponseWriter, result *notification.Result) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	response.JSON(w, status, result)
}

// Send dispatches a generic category notification
func (h *notificationHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	var req notification.SendNotificationRequest
	if !decodeAndValidate(w, r, "Send", &req) {
		return
	}
	writeResult(w, h.notifService.SendNotification(r.Context(), req))
}

func (h *notificationHandlerImpl) AnalysisComplete(w http.ResponseWriter, r *http.Request) {
	var req notification.AnalysisCompleteRequest
	if !decodeAndValidate(w, r, "AnalysisComplete", &req) {
		return
	}
	writeResult(w, h.notifService.SendAnalysisComplete(r.Context(), req))
}

func (h *notificationHandlerImpl) AnalysisFailed(w http.ResponseWriter, r *http.Request) {
	var req notification.AnalysisFailedRequest
	if !decodeAndValidate(w, r, "AnalysisFailed", &req) {
		return
	}
	writeResult(w, h.notifService.SendAnalysisFailed(r.Context(), req))
}

func (h *notificationHandlerImpl) SecurityAlert(w http.ResponseWriter, r *http.Request) {
	var req notification.SecurityAlertRequest
	if !decodeAndValidate(w, r, "SecurityAlert", &req) {
		return
	}
	writeResult(w, h.notifService.SendSecurityAlert(r.Context(), req))
}

func (h *notificationHandlerImpl) Welcome(w http.ResponseWriter, r *http.Request) {
	var req notification.WelcomeRequest
	if !decodeAndValidate(w, r, "Welcome", &req) {
		return
	}
	writeResult(w, h.notifService.SendWelcome(r.Context(), req))
}

func (h *notificationHandlerImpl) ArtworkAdded(w http.ResponseWriter, r *http.Request) {
	var req notification.ArtworkAddedRequest
	if !decodeAndValidate(w, r, "ArtworkAdded", &req) {
		return
	}
	writeResult(w, h.notifService.SendArtworkAdded(r.Context(), req))
}

// GetPreferences returns the effective preferences of a user, defaults included
func (h *notificationHandlerImpl) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	response.Success(w, h.notifService.GetUserPreferences(r.Context(), userID))
}

// Stream pushes the user's in-app notifications as Server-Sent Events
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cancel := h.notifService.Subscribe(r.Context(), userID)
	defer cancel()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"userId\":%q}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepAlive)
	defer keepalive.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev.Notification)
			if err != nil {
				slog.Error("Stream encode error", "user_id", userID, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
