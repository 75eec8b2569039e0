package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/domain/user"
)

// GetUser loads the contact fields and notification preferences of a user.
func (r *repository) GetUser(ctx context.Context, userID string) (*user.User, error) {
	query := `
		SELECT id, email, username, phone_number, phone_country_code, notification_preferences
		FROM users
		WHERE id = $1
	`

	var (
		u           user.User
		username    *string
		phoneNumber *string
		countryCode *string
		prefsJSON   []byte
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&u.ID,
		&u.Email,
		&username,
		&phoneNumber,
		&countryCode,
		&prefsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", notification.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if username != nil {
		u.Username = *username
	}
	if phoneNumber != nil && *phoneNumber != "" {
		u.Phone = &user.Phone{Number: *phoneNumber}
		if countryCode != nil {
			u.Phone.CountryCode = *countryCode
		}
	}
	if len(prefsJSON) > 0 {
		var prefs user.Preferences
		if err := json.Unmarshal(prefsJSON, &prefs); err != nil {
			slog.Warn("Ignoring malformed notification preferences", "user_id", userID, "error", err)
		} else {
			u.NotificationPreferences = &prefs
		}
	}

	return &u, nil
}
