package notification

import (
	"time"

	"github.com/nydart/notification-service/internal/pkg/validator"
)

// ============= Dispatch DTOs =============

// SendNotificationRequest asks the router to notify a user on every channel
// their preferences allow.
type SendNotificationRequest struct {
	UserID   string                 `json:"userId"`
	Category Category               `json:"category"`
	Title    string                 `json:"title"`
	Message  string                 `json:"message"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

func (r *SendNotificationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "userId", Message: "userId is required"})
	}
	if !r.Category.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "category must be one of the supported notification categories"})
	}
	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	if validator.IsEmpty(r.Message) {
		errs = append(errs, validator.ValidationError{Field: "message", Message: "message is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AnalysisCompleteRequest reports a finished artwork analysis.
type AnalysisCompleteRequest struct {
	UserID       string  `json:"userId"`
	ID           string  `json:"id"`
	ArtworkTitle string  `json:"artworkTitle"`
	Accuracy     float64 `json:"accuracy"`
}

func (r *AnalysisCompleteRequest) Validate() error {
	return requireUser(r.UserID)
}

// AnalysisFailedRequest reports an artwork analysis that could not run.
type AnalysisFailedRequest struct {
	UserID       string `json:"userId"`
	ArtworkTitle string `json:"artworkTitle"`
	Error        string `json:"error"`
}

func (r *AnalysisFailedRequest) Validate() error {
	return requireUser(r.UserID)
}

// SecurityAlertRequest reports a suspicious login.
type SecurityAlertRequest struct {
	UserID    string `json:"userId"`
	Location  string `json:"location"`
	Device    string `json:"device"`
	Timestamp string `json:"timestamp"`
}

func (r *SecurityAlertRequest) Validate() error {
	return requireUser(r.UserID)
}

// WelcomeRequest greets a newly registered user.
type WelcomeRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (r *WelcomeRequest) Validate() error {
	return requireUser(r.UserID)
}

// ArtworkAddedRequest reports an artwork added to a collection.
type ArtworkAddedRequest struct {
	UserID string `json:"userId"`
	ID     string `json:"id"`
	Title  string `json:"title"`
}

func (r *ArtworkAddedRequest) Validate() error {
	return requireUser(r.UserID)
}

func requireUser(userID string) error {
	if validator.IsEmpty(userID) {
		return validator.ValidationErrors{{Field: "userId", Message: "userId is required"}}
	}
	return nil
}

// ============= Direct email DTOs =============

// PasswordResetRequest is the body of POST /password-reset
type PasswordResetRequest struct {
	Email      string `json:"email"`
	ResetToken string `json:"resetToken"`
}

func (r *PasswordResetRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	}
	if validator.IsEmpty(r.ResetToken) {
		errs = append(errs, validator.ValidationError{Field: "resetToken", Message: "resetToken is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// WelcomeEmailRequest is the body of POST /welcome
type WelcomeEmailRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	LoginLink string `json:"loginLink,omitempty"`
}

func (r *WelcomeEmailRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	}
	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{Field: "username", Message: "username is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SecurityAlertEmailRequest is the body of POST /security-alert
type SecurityAlertEmailRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	LoginTime   string `json:"loginTime"`
	DeviceInfo  string `json:"deviceInfo,omitempty"`
	Location    string `json:"location,omitempty"`
	LoginLink   string `json:"loginLink,omitempty"`
	SupportLink string `json:"supportLink,omitempty"`
}

func (r *SecurityAlertEmailRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	}
	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{Field: "username", Message: "username is required"})
	}
	if validator.IsEmpty(r.LoginTime) {
		errs = append(errs, validator.ValidationError{Field: "loginTime", Message: "loginTime is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TestSMSRequest is the body of POST /test-sms
type TestSMSRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

func (r *TestSMSRequest) Validate() error {
	if validator.IsEmpty(r.PhoneNumber) {
		return validator.ValidationErrors{{Field: "phoneNumber", Message: "phoneNumber is required"}}
	}
	return nil
}

// ============= Response DTOs =============

// MethodMock is reported when no email provider is configured and the
// message was only logged.
const MethodMock = "mock"

// EmailDelivery describes an email handed to a provider (or mocked).
type EmailDelivery struct {
	Method    string            `json:"method"`
	MessageID string            `json:"messageId,omitempty"`
	To        string            `json:"to"`
	Subject   string            `json:"subject"`
	SentAt    time.Time         `json:"sentAt"`
	Details   map[string]string `json:"details,omitempty"`
}

// IsMock reports whether nothing was actually sent.
func (d *EmailDelivery) IsMock() bool {
	return d.Method == MethodMock
}

// EventNotification names the live event emitted for a stored in-app
// notification.
const EventNotification = "notification"

// InAppEvent is a stored in-app notification pushed to live subscribers.
type InAppEvent struct {
	Event        string        `json:"event"`
	Notification *Notification `json:"data"`
}
