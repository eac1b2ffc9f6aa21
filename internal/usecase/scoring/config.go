package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
	"github.com/dealwise/deal-assistant/internal/infrastructure/cache"
)

// Resolved is a scoring config with every jsonb column decoded once
type Resolved struct {
	Config   *entities.ScoringConfig
	Weights  entities.ParamWeights
	Enabled  map[entities.ParamKey]bool
	Keywords entities.TitleKeywords
	Averages entities.SegmentAverages
}

// IsEnabled reports whether a parameter participates in scoring. Parameters
// missing from the enabled map are on; only an explicit false turns one off.
func (r *Resolved) IsEnabled(key entities.ParamKey) bool {
	if r.Enabled == nil {
		return true
	}
	enabled, ok := r.Enabled[key]
	if !ok {
		return true
	}
	return enabled
}

// ConfigResolver loads the scoring config for an owner, creating the default
// row on first access and keeping hot configs in an in-process cache.
type ConfigResolver struct {
	repo   repositories.ScoringConfigRepository
	cache  *cache.ConfigCache
	logger *zap.Logger
}

// NewConfigResolver creates a new config resolver
func NewConfigResolver(repo repositories.ScoringConfigRepository, configCache *cache.ConfigCache, logger *zap.Logger) *ConfigResolver {
	return &ConfigResolver{
		repo:   repo,
		cache:  configCache,
		logger: logger,
	}
}

// Resolve returns the decoded config for a user within a tenant
func (cr *ConfigResolver) Resolve(ctx context.Context, tenantID, userID uuid.UUID) (*Resolved, error) {
	config := cr.cache.Get(tenantID, userID)
	if config == nil {
		loaded, err := cr.load(ctx, tenantID, userID)
		if err != nil {
			return nil, err
		}
		config = loaded
		cr.cache.Put(config)
	}
	return decode(config)
}

// Invalidate drops the cached config for an owner
func (cr *ConfigResolver) Invalidate(tenantID, userID uuid.UUID) {
	cr.cache.Invalidate(tenantID, userID)
}

func (cr *ConfigResolver) load(ctx context.Context, tenantID, userID uuid.UUID) (*entities.ScoringConfig, error) {
	config, err := cr.repo.GetByOwner(ctx, tenantID, userID)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, entities.ErrNotFound) {
		return nil, fmt.Errorf("failed to load scoring config: %w", err)
	}

	config, err = entities.NewDefaultScoringConfig(tenantID, userID)
	if err != nil {
		return nil, err
	}
	if err := cr.repo.Create(ctx, config); err != nil {
		// Lost a race with a concurrent first read; the row exists now
		existing, getErr := cr.repo.GetByOwner(ctx, tenantID, userID)
		if getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create default scoring config: %w", err)
	}

	cr.logger.Info("created default scoring config",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()))
	return config, nil
}

func decode(config *entities.ScoringConfig) (*Resolved, error) {
	weights, err := config.Weights()
	if err != nil {
		return nil, err
	}
	enabled, err := config.EnabledParams()
	if err != nil {
		return nil, err
	}
	keywords, err := config.Keywords()
	if err != nil {
		return nil, err
	}
	averages, err := config.Averages()
	if err != nil {
		return nil, err
	}
	return &Resolved{
		Config:   config,
		Weights:  weights,
		Enabled:  enabled,
		Keywords: keywords,
		Averages: averages,
	}, nil
}
