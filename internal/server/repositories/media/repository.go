package media

import (
	"context"

	"github.com/memoirapp/mediakit/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
	// List returns one page ordered newest first, plus the total row count
	// for the same filter.
	List(ctx context.Context, userID string, filter models.MediaFilter, page, pageSize int) ([]models.Media, int, error)
	Delete(ctx context.Context, userID, id string) error
}
