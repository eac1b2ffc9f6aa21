package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// CompetitorRepository implements the competitor repository interface using GORM
type CompetitorRepository struct {
	db *gorm.DB
}

// NewCompetitorRepository creates a new competitor repository
func NewCompetitorRepository(db *gorm.DB) *CompetitorRepository {
	return &CompetitorRepository{db: db}
}

// Create creates a new competitor
func (r *CompetitorRepository) Create(ctx context.Context, competitor *entities.Competitor) error {
	if err := r.db.WithContext(ctx).Create(competitor).Error; err != nil {
		return fmt.Errorf("failed to create competitor: %w", err)
	}
	return nil
}

// GetByID finds a competitor by ID within a tenant
func (r *CompetitorRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Competitor, error) {
	var competitor entities.Competitor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&competitor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrCompetitorNotFound
		}
		return nil, fmt.Errorf("failed to find competitor: %w", err)
	}
	return &competitor, nil
}

// ListByTenant lists all competitors in a tenant's catalog
func (r *CompetitorRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*entities.Competitor, error) {
	var competitors []*entities.Competitor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&competitors).Error; err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	return competitors, nil
}

// Update updates a competitor
func (r *CompetitorRepository) Update(ctx context.Context, competitor *entities.Competitor) error {
	if err := r.db.WithContext(ctx).Save(competitor).Error; err != nil {
		return fmt.Errorf("failed to update competitor: %w", err)
	}
	return nil
}

// Delete deletes a competitor within a tenant
func (r *CompetitorRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&entities.Competitor{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete competitor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrCompetitorNotFound
	}
	return nil
}
