package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// ValueHistoryRepository implements the append-only value log using GORM
type ValueHistoryRepository struct {
	db *gorm.DB
}

// NewValueHistoryRepository creates a new value history repository
func NewValueHistoryRepository(db *gorm.DB) *ValueHistoryRepository {
	return &ValueHistoryRepository{db: db}
}

// Append records a value change
func (r *ValueHistoryRepository) Append(ctx context.Context, change *entities.ValueChange) error {
	if err := r.db.WithContext(ctx).Create(change).Error; err != nil {
		return fmt.Errorf("failed to append value change: %w", err)
	}
	return nil
}

// ListByDeal lists a deal's value changes newest first
func (r *ValueHistoryRepository) ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.ValueChange, error) {
	var changes []*entities.ValueChange
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND deal_id = ?", tenantID, dealID).
		Order("changed_at DESC").
		Find(&changes).Error; err != nil {
		return nil, fmt.Errorf("failed to list value changes: %w", err)
	}
	return changes, nil
}
