package notification

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityFor(t *testing.T) {
	cases := map[Category]Priority{
		CategorySecurityAlert:    PriorityUrgent,
		CategoryAnalysisFailed:   PriorityHigh,
		CategoryPasswordReset:    PriorityHigh,
		CategoryAnalysisComplete: PriorityNormal,
		CategoryAccountUpdate:    PriorityNormal,
		CategorySubscription:     PriorityNormal,
		CategorySystemAlert:      PriorityNormal,
		CategoryWelcome:          PriorityLow,
		CategoryArtworkAdded:     PriorityLow,
		CategoryArtworkUpdated:   PriorityLow,
		Category("made_up"):      PriorityNormal,
	}
	for category, want := range cases {
		assert.Equal(t, want, PriorityFor(category), "category %s", category)
	}
}

func TestCategory_IsValid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, Category("").IsValid())
	assert.False(t, Category("marketing").IsValid())
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "Security Alert", TitleFor(CategorySecurityAlert))
	assert.Equal(t, "Analysis Complete!", TitleFor(CategoryAnalysisComplete))
	assert.Equal(t, "Notification", TitleFor(CategoryPasswordReset))
}

func TestOutcome_MarshalJSON(t *testing.T) {
	cases := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{"sent", Sent("abc"), `{"success":true,"messageId":"abc"}`},
		{"disabled", Disabled(), `{"success":false,"reason":"disabled"}`},
		{"no service", NoService(), `{"success":false,"reason":"no_service"}`},
		{"unavailable", Unavailable(), `{"success":false,"reason":"service_unavailable"}`},
		{"failed", Failed(errors.New("boom")), `{"success":false,"error":"boom"}`},
		{"skipped", Skipped(), `{"success":false}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, err := json.Marshal(c.outcome)
			require.NoError(t, err)
			assert.JSONEq(t, c.want, string(b))
		})
	}
}

func TestNewResult_Summary(t *testing.T) {
	res := NewResult(ChannelResults{
		Email: Sent("m1"),
		SMS:   Disabled(),
		InApp: Failed(errors.New("store down")),
	})

	assert.True(t, res.Success)
	assert.True(t, res.Summary.Email)
	assert.False(t, res.Summary.SMS)
	assert.False(t, res.Summary.InApp)
}

func TestFailedResult(t *testing.T) {
	res := FailedResult(errors.New("user lookup failed"))
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"user lookup failed"}`, string(b))
}

func TestSendNotificationRequest_Validate(t *testing.T) {
	valid := SendNotificationRequest{UserID: "u1", Category: CategoryWelcome, Title: "Hi", Message: "Hello"}
	assert.NoError(t, valid.Validate())

	invalid := SendNotificationRequest{Category: "nope"}
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "userId")
	assert.Contains(t, err.Error(), "category")
}

func TestDirectEmailRequests_Validate(t *testing.T) {
	assert.Error(t, (&PasswordResetRequest{Email: "a@b.com"}).Validate())
	assert.Error(t, (&PasswordResetRequest{ResetToken: "tok"}).Validate())
	assert.NoError(t, (&PasswordResetRequest{Email: "a@b.com", ResetToken: "tok"}).Validate())

	assert.Error(t, (&WelcomeEmailRequest{Email: "a@b.com"}).Validate())
	assert.NoError(t, (&WelcomeEmailRequest{Email: "a@b.com", Username: "alice"}).Validate())

	assert.Error(t, (&SecurityAlertEmailRequest{Email: "a@b.com", Username: "alice"}).Validate())
	assert.NoError(t, (&SecurityAlertEmailRequest{Email: "a@b.com", Username: "alice", LoginTime: "now"}).Validate())
}
