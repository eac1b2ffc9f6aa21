package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// ValueHistoryRepository defines the append-only deal value log
type ValueHistoryRepository interface {
	Append(ctx context.Context, change *entities.ValueChange) error
	// ListByDeal returns changes newest first
	ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.ValueChange, error)
}
