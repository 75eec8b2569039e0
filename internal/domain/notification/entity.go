package notification

import (
	"encoding/json"
	"time"
)

// Category classifies the purpose of a notification. It drives both the
// preference lookup and the priority of in-app records.
type Category string

const (
	CategorySecurityAlert    Category = "security_alert"
	CategoryAnalysisComplete Category = "analysis_complete"
	CategoryAnalysisFailed   Category = "analysis_failed"
	CategoryPasswordReset    Category = "password_reset"
	CategoryAccountUpdate    Category = "account_update"
	CategorySubscription     Category = "subscription"
	CategoryWelcome          Category = "welcome"
	CategoryArtworkAdded     Category = "artwork_added"
	CategoryArtworkUpdated   Category = "artwork_updated"
	CategorySystemAlert      Category = "system_alert"
)

// AllCategories returns every known category
func AllCategories() []Category {
	return []Category{
		CategorySecurityAlert,
		CategoryAnalysisComplete,
		CategoryAnalysisFailed,
		CategoryPasswordReset,
		CategoryAccountUpdate,
		CategorySubscription,
		CategoryWelcome,
		CategoryArtworkAdded,
		CategoryArtworkUpdated,
		CategorySystemAlert,
	}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Priority of an in-app notification record
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

var categoryPriorities = map[Category]Priority{
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
}

// PriorityFor maps a category to its priority. Unknown categories are normal.
func PriorityFor(c Category) Priority {
	if p, ok := categoryPriorities[c]; ok {
		return p
	}
	return PriorityNormal
}

var categoryTitles = map[Category]string{
	CategoryWelcome:          "Welcome to NydArt Advisor!",
	CategoryAnalysisComplete: "Analysis Complete!",
	CategoryAnalysisFailed:   "Analysis Failed",
	CategorySecurityAlert:    "Security Alert",
	CategoryArtworkAdded:     "Artwork Added",
	CategoryArtworkUpdated:   "Artwork Updated",
	CategoryAccountUpdate:    "Account Updated",
	CategorySubscription:     "Subscription Update",
	CategorySystemAlert:      "System Alert",
}

// TitleFor returns the short heading used for SMS notifications.
func TitleFor(c Category) string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return "Notification"
}

// Channel is a delivery mechanism
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelInApp Channel = "in_app"
)

// StatusPending is the status of a freshly created in-app record.
const StatusPending = "pending"

// Notification is the in-app record forwarded to the database service.
type Notification struct {
	ID        string                 `json:"id,omitempty"`
	UserID    string                 `json:"userId"`
	Type      Channel                `json:"type"`
	Category  Category               `json:"category"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	Status    string                 `json:"status"`
	Priority  Priority               `json:"priority"`
	CreatedAt *time.Time             `json:"createdAt,omitempty"`
}

// OutcomeStatus tags the result of one channel attempt.
type OutcomeStatus string

const (
	OutcomeSkipped     OutcomeStatus = "skipped"
	OutcomeSent        OutcomeStatus = "sent"
	OutcomeDisabled    OutcomeStatus = "disabled"
	OutcomeNoService   OutcomeStatus = "no_service"
	OutcomeUnavailable OutcomeStatus = "service_unavailable"
	OutcomeFailed      OutcomeStatus = "failed"
)

// Outcome is the result of delivering through a single channel.
type Outcome struct {
	Status       OutcomeStatus
	MessageID    string
	Error        string
	Notification *Notification
}

func Skipped() Outcome     { return Outcome{Status: OutcomeSkipped} }
func Disabled() Outcome    { return Outcome{Status: OutcomeDisabled} }
func NoService() Outcome   { return Outcome{Status: OutcomeNoService} }
func Unavailable() Outcome { return Outcome{Status: OutcomeUnavailable} }

func Sent(messageID string) Outcome {
	return Outcome{Status: OutcomeSent, MessageID: messageID}
}

// Stored is the successful in-app outcome carrying the persisted record.
func Stored(n *Notification) Outcome {
	return Outcome{Status: OutcomeSent, Notification: n}
}

func Failed(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Error: err.Error()}
}

// Success reports whether the channel delivered.
func (o Outcome) Success() bool {
	return o.Status == OutcomeSent
}

// Reason returns the wire reason for a channel that was not attempted
// because of preferences or missing providers.
func (o Outcome) Reason() string {
	switch o.Status {
	case OutcomeDisabled, OutcomeNoService, OutcomeUnavailable:
		return string(o.Status)
	}
	return ""
}

type outcomeJSON struct {
	Success      bool          `json:"success"`
	Reason       string        `json:"reason,omitempty"`
	Error        string        `json:"error,omitempty"`
	MessageID    string        `json:"messageId,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeJSON{
		Success:      o.Success(),
		Reason:       o.Reason(),
		Error:        o.Error,
		MessageID:    o.MessageID,
		Notification: o.Notification,
	})
}

// ChannelResults holds the outcome of each channel for one dispatch.
type ChannelResults struct {
	Email Outcome `json:"email"`
	SMS   Outcome `json:"sms"`
	InApp Outcome `json:"inApp"`
}

// Summary flattens ChannelResults to per-channel success flags.
type Summary struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	InApp bool `json:"inApp"`
}

// Result is the aggregate of a dispatch. Success is true once all channels
// were attempted, regardless of their individual outcomes.
type Result struct {
	Success bool            `json:"success"`
	Results *ChannelResults `json:"results,omitempty"`
	Summary *Summary        `json:"summary,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewResult builds a successful aggregate from the channel outcomes.
func NewResult(results ChannelResults) *Result {
	return &Result{
		Success: true,
		Results: &results,
		Summary: &Summary{
			Email: results.Email.Success(),
			SMS:   results.SMS.Success(),
			InApp: results.InApp.Success(),
		},
	}
}

// FailedResult reports a dispatch that could not run at all.
func FailedResult(err error) *Result {
	return &Result{Success: false, Error: err.Error()}
}
