package notification

import "errors"

// Notification domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNoEmailService     = errors.New("no email service configured")
	ErrSMSNotConfigured   = errors.New("sms service not configured")
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")
	ErrStoreUnavailable   = errors.New("notification store unavailable")
)

// InvalidPhoneNumberError is returned for destinations that are not E.164.
type InvalidPhoneNumberError struct {
	Number string
}

func (e *InvalidPhoneNumberError) Error() string {
	return "Invalid phone number format: " + e.Number
}

func (e *InvalidPhoneNumberError) Is(target error) bool {
	return target == ErrInvalidPhoneNumber
}
