package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// DealFilter narrows deal listings
type DealFilter struct {
	OwnerID *uuid.UUID
	Stage   *entities.DealStage
	Tier    *entities.HealthTier
	Limit   int
	Offset  int
}

// HealthSnapshot is the scored state written back onto a deal in one update
type HealthSnapshot struct {
	Score     int
	Tier      entities.HealthTier
	Breakdown []byte
	ScoredAt  time.Time
}

// DealRepository defines persistence for deals. Every method is tenant scoped;
// a deal belonging to another tenant behaves as if it does not exist.
type DealRepository interface {
	Create(ctx context.Context, deal *entities.Deal) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Deal, error)
	List(ctx context.Context, tenantID uuid.UUID, filter DealFilter) ([]*entities.Deal, int64, error)
	Update(ctx context.Context, deal *entities.Deal) error
	// UpdateFields applies a partial column update, used by the signal scanner
	// so concurrent edits to unrelated columns are not clobbered.
	UpdateFields(ctx context.Context, tenantID, id uuid.UUID, fields map[string]interface{}) error
	UpdateHealth(ctx context.Context, tenantID, id uuid.UUID, snapshot HealthSnapshot) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
