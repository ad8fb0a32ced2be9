package repositories

import (
	"context"

	"github.com/zatekoja/doctorfinder/internal/domain/entities"
)

// QuerySessionRepository defines the interface for query session storage.
// Get returns a NOT_FOUND AppError for unknown or expired ids.
type QuerySessionRepository interface {
	Get(ctx context.Context, id string) (*entities.QuerySession, error)
	Save(ctx context.Context, session *entities.QuerySession) error
	Delete(ctx context.Context, id string) error
}
