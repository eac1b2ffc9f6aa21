package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// ContactRepository defines persistence for deal contacts
type ContactRepository interface {
	Create(ctx context.Context, contact *entities.Contact) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Contact, error)
	ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.Contact, error)
	Update(ctx context.Context, contact *entities.Contact) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
