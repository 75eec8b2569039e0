// Package postgresql implements notification.Repository directly on the
// platform database, for deployments without the database service.
package postgresql

import (
	"github.com/nydart/notification-service/internal/domain/notification"
	"github.com/nydart/notification-service/internal/pkg/database"
)

type repository struct {
	db database.Querier
}

// NewRepository returns a repository reading users and writing in-app
// notifications through db.
func NewRepository(db database.Querier) notification.Repository {
	return &repository{db: db}
}
