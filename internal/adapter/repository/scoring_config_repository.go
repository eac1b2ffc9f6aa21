package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// ScoringConfigRepository implements the scoring config repository using GORM
type ScoringConfigRepository struct {
	db *gorm.DB
}

// NewScoringConfigRepository creates a new scoring config repository
func NewScoringConfigRepository(db *gorm.DB) *ScoringConfigRepository {
	return &ScoringConfigRepository{db: db}
}

// Create creates a new scoring config
func (r *ScoringConfigRepository) Create(ctx context.Context, config *entities.ScoringConfig) error {
	if err := r.db.WithContext(ctx).Create(config).Error; err != nil {
		return fmt.Errorf("failed to create scoring config: %w", err)
	}
	return nil
}

// GetByOwner finds the config for a user within a tenant
func (r *ScoringConfigRepository) GetByOwner(ctx context.Context, tenantID, userID uuid.UUID) (*entities.ScoringConfig, error) {
	var config entities.ScoringConfig
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find scoring config: %w", err)
	}
	return &config, nil
}

// Update updates a scoring config
func (r *ScoringConfigRepository) Update(ctx context.Context, config *entities.ScoringConfig) error {
	if err := r.db.WithContext(ctx).Save(config).Error; err != nil {
		return fmt.Errorf("failed to update scoring config: %w", err)
	}
	return nil
}
