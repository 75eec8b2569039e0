package sms

import "fmt"

// FormatNotification builds the SMS body for a routed notification.
// data["actionUrl"] adds a link line and data["priority"] == "urgent"
// prefixes the body.
func FormatNotification(title, message string, data map[string]interface{}) string {
	body := fmt.Sprintf("🔔 %s\n\n%s", title, message)

	if url, ok := data["actionUrl"].(string); ok && url != "" {
		body += "\n\n🔗 " + url
	}
	if p, ok := data["priority"].(string); ok && p == "urgent" {
		body = "🚨 URGENT: " + body
	}
	return body
}
