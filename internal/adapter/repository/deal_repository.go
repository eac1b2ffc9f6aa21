package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
)

// DealRepository implements the deal repository interface using GORM
type DealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

// Create creates a new deal
func (r *DealRepository) Create(ctx context.Context, deal *entities.Deal) error {
	if err := r.db.WithContext(ctx).Create(deal).Error; err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	return nil
}

// GetByID finds a deal by ID within a tenant
func (r *DealRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*entities.Deal, error) {
	var deal entities.Deal
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to find deal: %w", err)
	}
	return &deal, nil
}

// List lists deals within a tenant, newest first, with an overall count
func (r *DealRepository) List(ctx context.Context, tenantID uuid.UUID, filter repositories.DealFilter) ([]*entities.Deal, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Deal{}).Where("tenant_id = ?", tenantID)
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Stage != nil {
		query = query.Where("stage = ?", *filter.Stage)
	}
	if filter.Tier != nil {
		query = query.Where("health_tier = ?", *filter.Tier)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deals: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var deals []*entities.Deal
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&deals).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list deals: %w", err)
	}
	return deals, total, nil
}

// Update updates a deal
func (r *DealRepository) Update(ctx context.Context, deal *entities.Deal) error {
	if err := r.db.WithContext(ctx).Save(deal).Error; err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}
	return nil
}

// UpdateFields applies a partial column update within a tenant
func (r *DealRepository) UpdateFields(ctx context.Context, tenantID, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&entities.Deal{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update deal fields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrDealNotFound
	}
	return nil
}

// UpdateHealth writes a health snapshot onto a deal in a single update
func (r *DealRepository) UpdateHealth(ctx context.Context, tenantID, id uuid.UUID, snapshot repositories.HealthSnapshot) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Deal{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"health_score":     snapshot.Score,
			"health_tier":      snapshot.Tier,
			"health_breakdown": snapshot.Breakdown,
			"health_scored_at": snapshot.ScoredAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update deal health: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrDealNotFound
	}
	return nil
}

// Delete deletes a deal and its dependents within a tenant
func (r *DealRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := "tenant_id = ? AND deal_id = ?"
		for _, model := range []interface{}{
			&entities.Contact{},
			&entities.Meeting{},
			&entities.Email{},
			&entities.ValueChange{},
		} {
			if err := tx.Where(scope, tenantID, id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete deal dependents: %w", err)
			}
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&entities.Deal{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete deal: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return entities.ErrDealNotFound
		}
		return nil
	})
}
