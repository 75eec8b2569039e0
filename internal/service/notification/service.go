package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/domain/user"
	"github.com/nydart/notification-service/internal/pkg/email"
	"github.com/nydart/notification-service/internal/pkg/metrics"
	"github.com/nydart/notification-service/internal/pkg/sms"
	"github.com/nydart/notification-service/internal/pkg/sse"
	"golang.org/x/sync/errgroup"
)

type service struct {
	repo      notification.Repository
	email     []notification.EmailTransport
	sms       notification.SMSTransport
	templates *email.Renderer
	metrics   metrics.Recorder
	hub       *sse.Hub
}

// NewNotificationService creates the preference-driven router. Email
// transports are tried in the given order; the first configured one wins.
// Stored in-app notifications are published to hub.
func NewNotificationService(
	repo notification.Repository,
	emailTransports []notification.EmailTransport,
	smsTransport notification.SMSTransport,
	templates *email.Renderer,
	recorder metrics.Recorder,
	hub *sse.Hub,
) notification.Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if hub == nil {
		hub = sse.NewHub()
	}
	return &service{
		repo:      repo,
		email:     emailTransports,
		sms:       smsTransport,
		templates: templates,
		metrics:   recorder,
		hub:       hub,
	}
}

// SendNotification implements notification.Service.
func (s *service) SendNotification(ctx context.Context, req notification.SendNotificationRequest) *notification.Result {
	u, err := s.repo.GetUser(ctx, req.UserID)
	if err != nil {
		slog.Error("Error sending comprehensive notification", "user_id", req.UserID, "category", req.Category, "error", err)
		return notification.FailedResult(err)
	}

	prefs := preferencesOf(u)

	results := notification.ChannelResults{
		Email: notification.Skipped(),
		SMS:   notification.Skipped(),
		InApp: notification.Skipped(),
	}

	g, gCtx := errgroup.WithContext(ctx)

	if u.HasEmail() {
		g.Go(func() error {
			results.Email = s.sendEmail(gCtx, u, prefs.Email, req)
			s.metrics.ObserveDelivery(string(notification.ChannelEmail), string(results.Email.Status))
			return nil
		})
	}

	if u.HasPhone() {
		g.Go(func() error {
			results.SMS = s.sendSMS(gCtx, u, prefs.SMS, req)
			s.metrics.ObserveDelivery(string(notification.ChannelSMS), string(results.SMS.Status))
			return nil
		})
	}

	g.Go(func() error {
		results.InApp = s.createInApp(gCtx, u, prefs.InApp, req)
		s.metrics.ObserveDelivery(string(notification.ChannelInApp), string(results.InApp.Status))
		return nil
	})

	_ = g.Wait()

	return notification.NewResult(results)
}

func (s *service) sendEmail(ctx context.Context, u *user.User, pref user.ChannelPreference, req notification.SendNotificationRequest) notification.Outcome {
	if !pref.Allows(string(req.Category)) {
		slog.Info("Email notifications disabled", "user_id", u.ID, "category", req.Category)
		return notification.Disabled()
	}

	transport := notification.FirstConfigured(s.email)
	if transport == nil {
		slog.Warn("No email service configured")
		return notification.NoService()
	}

	actionURL, _ := req.Data["actionUrl"].(string)
	content, err := s.templates.Notification(req.Title, req.Message, actionURL)
	if err != nil {
		return notification.Failed(err)
	}

	start := time.Now()
	res, err := transport.Send(ctx, notification.EmailMessage{
		To:      u.Email,
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	})
	s.metrics.ObserveSend(transport.Name(), time.Since(start), err)
	if err != nil {
		slog.Error("Error sending email notification", "user_id", u.ID, "transport", transport.Name(), "error", err)
		return notification.Failed(err)
	}
	return notification.Sent(res.MessageID)
}

func (s *service) sendSMS(ctx context.Context, u *user.User, pref user.ChannelPreference, req notification.SendNotificationRequest) notification.Outcome {
	if !pref.Allows(string(req.Category)) {
		slog.Info("SMS notifications disabled", "user_id", u.ID, "category", req.Category)
		return notification.Disabled()
	}

	if s.sms == nil || !s.sms.IsConfigured() {
		slog.Warn("SMS service not initialized")
		return notification.Unavailable()
	}

	body := sms.FormatNotification(notification.TitleFor(req.Category), req.Message, req.Data)

	start := time.Now()
	res, err := s.sms.Send(ctx, u.PhoneNumber(), body)
	s.metrics.ObserveSend(s.sms.Name(), time.Since(start), err)
	if err != nil {
		slog.Error("Failed to send SMS notification", "user_id", u.ID, "error", err)
		return notification.Failed(err)
	}

	slog.Info("SMS notification sent", "user_id", u.ID, "sid", res.MessageID)
	return notification.Sent(res.MessageID)
}

func (s *service) createInApp(ctx context.Context, u *user.User, pref user.ChannelPreference, req notification.SendNotificationRequest) notification.Outcome {
	if !pref.Allows(string(req.Category)) {
		slog.Info("In-app notifications disabled", "user_id", u.ID, "category", req.Category)
		return notification.Disabled()
	}

	data := req.Data
	if data == nil {
		data = map[string]interface{}{}
	}

	n := &notification.Notification{
		UserID:   u.ID,
		Type:     notification.ChannelInApp,
		Category: req.Category,
		Title:    req.Title,
		Message:  req.Message,
		Data:     data,
		Status:   notification.StatusPending,
		Priority: notification.PriorityFor(req.Category),
	}

	if err := s.repo.CreateNotification(ctx, n); err != nil {
		slog.Error("Error creating in-app notification", "user_id", u.ID, "error", err)
		return notification.Failed(err)
	}

	s.hub.Publish(sse.Event{UserID: u.ID, Name: notification.EventNotification, Data: n})
	return notification.Stored(n)
}

// Subscribe implements notification.Service.
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.InAppEvent, func()) {
	events, cancel := s.hub.Subscribe(userID)
	slog.Debug("In-app stream subscribed", "user_id", userID, "subscribers", s.hub.SubscriberCount(userID))

	out := make(chan notification.InAppEvent, sse.DefaultBuffer)
	go func() {
		defer close(out)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				n, ok := ev.Data.(*notification.Notification)
				if !ok {
					continue
				}
				select {
				case out <- notification.InAppEvent{Event: ev.Name, Notification: n}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cancel
}

// GetUserPreferences implements notification.Service.
func (s *service) GetUserPreferences(ctx context.Context, userID string) user.Preferences {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		slog.Warn("Error fetching user preferences, using defaults", "user_id", userID, "error", err)
		return user.DefaultPreferences()
	}
	return preferencesOf(u)
}

func preferencesOf(u *user.User) user.Preferences {
	if u == nil || u.NotificationPreferences == nil {
		return user.DefaultPreferences()
	}
	return *u.NotificationPreferences
}

// ============= Dedicated notifications =============

func (s *service) SendAnalysisComplete(ctx context.Context, req notification.AnalysisCompleteRequest) *notification.Result {
	return s.SendNotification(ctx, notification.SendNotificationRequest{
		UserID:   req.UserID,
		Category: notification.CategoryAnalysisComplete,
		Title:    "Analysis Complete",
		Message:  fmt.Sprintf("Your artwork \"%s\" has been analyzed successfully.", req.ArtworkTitle),
		Data: map[string]interface{}{
			"analysisId":   req.ID,
			"artworkTitle": req.ArtworkTitle,
			"accuracy":     req.Accuracy,
			"type":         string(notification.CategoryAnalysisComplete),
		},
	})
}

func (s *service) SendAnalysisFailed(ctx context.Context, req notification.AnalysisFailedRequest) *notification.Result {
	return s.SendNotification(ctx, notification.SendNotificationRequest{
		UserID:   req.UserID,
		Category: notification.CategoryAnalysisFailed,
		Title:    "Analysis Failed",
		Message:  fmt.Sprintf("We couldn't analyze your artwork \"%s\". Please try again.", req.ArtworkTitle),
		Data: map[string]interface{}{
			"artworkTitle": req.ArtworkTitle,
			"error":        req.Error,
			"type":         string(notification.CategoryAnalysisFailed),
		},
	})
}

func (s *service) SendSecurityAlert(ctx context.Context, req notification.SecurityAlertRequest) *notification.Result {
	return s.SendNotification(ctx, notification.SendNotificationRequest{
		UserID:   req.UserID,
		Category: notification.CategorySecurityAlert,
		Title:    "Security Alert",
		Message:  fmt.Sprintf("Suspicious login attempt detected from %s.", req.Location),
		Data: map[string]interface{}{
			"location":  req.Location,
			"device":    req.Device,
			"timestamp": req.Timestamp,
			"type":      string(notification.CategorySecurityAlert),
		},
	})
}

func (s *service) SendWelcome(ctx context.Context, req notification.WelcomeRequest) *notification.Result {
	return s.SendNotification(ctx, notification.SendNotificationRequest{
		UserID:   req.UserID,
		Category: notification.CategoryWelcome,
		Title:    "Welcome to NydArt Advisor!",
		Message:  fmt.Sprintf("Welcome %s! Your account has been created successfully.", req.Username),
		Data: map[string]interface{}{
			"username": req.Username,
			"type":     string(notification.CategoryWelcome),
		},
	})
}

func (s *service) SendArtworkAdded(ctx context.Context, req notification.ArtworkAddedRequest) *notification.Result {
	return s.SendNotification(ctx, notification.SendNotificationRequest{
		UserID:   req.UserID,
		Category: notification.CategoryArtworkAdded,
		Title:    "Artwork Added",
		Message:  fmt.Sprintf("Your artwork \"%s\" has been added to your collection.", req.Title),
		Data: map[string]interface{}{
			"artworkId":    req.ID,
			"artworkTitle": req.Title,
			"type":         string(notification.CategoryArtworkAdded),
		},
	})
}

// ============= SMS diagnostics =============

func (s *service) SMSStatus() string {
	if s.sms != nil && s.sms.IsConfigured() {
		return notification.StatusConfigured
	}
	return notification.StatusNotConfigured
}

func (s *service) VerifySMS(ctx context.Context) error {
	if s.sms == nil || !s.sms.IsConfigured() {
		return notification.ErrSMSNotConfigured
	}
	return s.sms.Verify(ctx)
}

func (s *service) SendTestSMS(ctx context.Context, phoneNumber string) (notification.SendResult, error) {
	if s.sms == nil || !s.sms.IsConfigured() {
		return notification.SendResult{}, notification.ErrSMSNotConfigured
	}

	start := time.Now()
	res, err := s.sms.Send(ctx, phoneNumber, sms.TestMessage)
	s.metrics.ObserveSend(s.sms.Name(), time.Since(start), err)
	return res, err
}
