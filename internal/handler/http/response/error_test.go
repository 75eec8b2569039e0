package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/pkg/jwt"
	"github.com/nydart/notification-service/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation errors",
			err:         validator.ValidationErrors{{Field: "userId", Message: "userId is required"}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation failed",
		},
		{
			name:        "invalid phone number",
			err:         &notification.InvalidPhoneNumberError{Number: "12345"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid phone number format: 12345",
		},
		{
			name:        "user not found",
			err:         fmt.Errorf("get user: %w", notification.ErrUserNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "User not found",
		},
		{
			name:        "invalid service token",
			err:         jwt.ErrInvalidServiceToken,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid service token",
		},
		{
			name:        "no email service",
			err:         notification.ErrNoEmailService,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "No email service configured",
		},
		{
			name:        "sms not configured",
			err:         notification.ErrSMSNotConfigured,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "SMS service not configured",
		},
		{
			name:        "unexpected",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestFailure_IncludesErrorText(t *testing.T) {
	rec := httptest.NewRecorder()
	Failure(rec, http.StatusInternalServerError, "Failed to send test SMS", errors.New("twilio: 401"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "twilio: 401", body["error"])
	assert.Equal(t, "Failed to send test SMS", body["message"])
}

func TestBadRequest_OmitsErrorWithoutDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest(rec, "email and token are required", nil)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email and token are required", body["message"])
	_, hasError := body["error"]
	assert.False(t, hasError)
}
