package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// MeetingRepository defines persistence for meetings
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Meeting, error)
	// ListByDeal returns meetings newest first
	ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.Meeting, error)
	Update(ctx context.Context, meeting *entities.Meeting) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// EmailRepository defines persistence for logged emails
type EmailRepository interface {
	Create(ctx context.Context, email *entities.Email) error
	// ListByDeal returns emails oldest first so reply latencies can be paired
	ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.Email, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
