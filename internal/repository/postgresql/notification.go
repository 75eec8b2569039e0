package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nydart/notification-service/internal/domain/notification"
)

// CreateNotification inserts an in-app notification record
func (r *repository) CreateNotification(ctx context.Context, n *notification.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt == nil {
		now := time.Now()
		n.CreatedAt = &now
	}

	dataJSON, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (id, user_id, type, category, title, message, data, status, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.Exec(ctx, query,
		n.ID,
		n.UserID,
		string(n.Type),
		string(n.Category),
		n.Title,
		n.Message,
		dataJSON,
		n.Status,
		string(n.Priority),
		*n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}
