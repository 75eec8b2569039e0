package notification

import (
	"context"

	"github.com/nydart/notification-service/internal/domain/user"
)

// Service routes notifications across email, SMS and in-app channels.
type Service interface {
	SendNotification(ctx context.Context, req SendNotificationRequest) *Result

	SendAnalysisComplete(ctx context.Context, req AnalysisCompleteRequest) *Result
	SendAnalysisFailed(ctx context.Context, req AnalysisFailedRequest) *Result
	SendSecurityAlert(ctx context.Context, req SecurityAlertRequest) *Result
	SendWelcome(ctx context.Context, req WelcomeRequest) *Result
	SendArtworkAdded(ctx context.Context, req ArtworkAddedRequest) *Result

	// GetUserPreferences never fails; it falls back to user.DefaultPreferences.
	GetUserPreferences(ctx context.Context, userID string) user.Preferences

	// Subscribe streams in-app notifications stored for userID until ctx is
	// done or the returned cancel func is called.
	Subscribe(ctx context.Context, userID string) (<-chan InAppEvent, func())

	// SMS diagnostics
	SMSStatus() string
	VerifySMS(ctx context.Context) error
	SendTestSMS(ctx context.Context, phoneNumber string) (SendResult, error)
}

// Mailer sends transactional emails directly to an address, trying the
// configured email providers in priority order.
type Mailer interface {
	SendPasswordReset(ctx context.Context, req PasswordResetRequest) (*EmailDelivery, error)
	SendWelcome(ctx context.Context, req WelcomeEmailRequest) (*EmailDelivery, error)
	SendSecurityAlert(ctx context.Context, req SecurityAlertEmailRequest) (*EmailDelivery, error)
	SendTestEmail(ctx context.Context) (*EmailDelivery, error)

	// TestConnection verifies the active provider and returns its name.
	TestConnection(ctx context.Context) (string, error)
	// Status maps each email provider name to "configured" or "not configured".
	Status() map[string]string
}

const (
	StatusConfigured    = "configured"
	StatusNotConfigured = "not configured"
)
