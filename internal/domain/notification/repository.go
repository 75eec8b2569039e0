package notification

import (
	"context"

	"github.com/nydart/notification-service/internal/domain/user"
)

// Repository is the external store that owns users and in-app notifications.
type Repository interface {
	GetUser(ctx context.Context, userID string) (*user.User, error)
	// CreateNotification persists n and fills in the ID assigned by the store.
	CreateNotification(ctx context.Context, n *Notification) error
}
