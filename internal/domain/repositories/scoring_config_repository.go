package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// ScoringConfigRepository defines persistence for per-user scoring configs
type ScoringConfigRepository interface {
	Create(ctx context.Context, config *entities.ScoringConfig) error
	GetByOwner(ctx context.Context, tenantID, userID uuid.UUID) (*entities.ScoringConfig, error)
	Update(ctx context.Context, config *entities.ScoringConfig) error
}
