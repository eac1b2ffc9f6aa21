package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// CompetitorRepository defines persistence for the tenant competitor catalog
type CompetitorRepository interface {
	Create(ctx context.Context, competitor *entities.Competitor) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Competitor, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*entities.Competitor, error)
	Update(ctx context.Context, competitor *entities.Competitor) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
