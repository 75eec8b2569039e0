// Package dbservice implements notification.Repository against the
// platform's database service over HTTP.
package dbservice

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/nydart/notification-service/internal/config"
	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/domain/user"
)

type repository struct {
	client *resty.Client
}

// NewRepository builds an HTTP-backed repository rooted at cfg.ServiceURL.
func NewRepository(cfg config.StoreConfig) notification.Repository {
	client := resty.New().
		SetBaseURL(cfg.ServiceURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &repository{client: client}
}

// GetUser fetches GET /users/{id}.
func (r *repository) GetUser(ctx context.Context, userID string) (*user.User, error) {
	var u user.User
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&u).
		Get("/users/" + url.PathEscape(userID))
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %v", notification.ErrStoreUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", notification.ErrUserNotFound, userID)
	case resp.IsError():
		return nil, statusError("get user", resp)
	}

	if u.ID == "" {
		u.ID = userID
	}
	return &u, nil
}

// CreateNotification posts n to /notifications and copies back the id the
// store assigned.
func (r *repository) CreateNotification(ctx context.Context, n *notification.Notification) error {
	var created notification.Notification
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(n).
		SetResult(&created).
		Post("/notifications")
	if err != nil {
		return fmt.Errorf("%w: create notification: %v", notification.ErrStoreUnavailable, err)
	}
	if resp.IsError() {
		return statusError("create notification", resp)
	}

	if created.ID != "" {
		n.ID = created.ID
	}
	if created.CreatedAt != nil {
		n.CreatedAt = created.CreatedAt
	}

	slog.Debug("In-app notification stored", "id", n.ID, "user_id", n.UserID, "category", n.Category)
	return nil
}

func statusError(op string, resp *resty.Response) error {
	body := truncate(strings.TrimSpace(resp.String()), maxErrorBody)
	return fmt.Errorf("%s: database service returned %d: %s", op, resp.StatusCode(), body)
}

const maxErrorBody = 512

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
