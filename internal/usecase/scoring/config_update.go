package scoring

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
)

// ConfigUpdate carries optional edits to a scoring config; nil fields are
// left unchanged.
type ConfigUpdate struct {
	WeightCloseDate   *int
	WeightEngagement  *int
	WeightProcess     *int
	WeightSize        *int
	WeightCompetitive *int
	WeightMomentum    *int

	ParamWeights    *entities.ParamWeights
	ParamEnabled    map[entities.ParamKey]bool
	TitleKeywords   *entities.TitleKeywords
	SegmentAverages *entities.SegmentAverages

	OversizeMultiplier  *float64
	StaleMeetingDays    *int
	SlowReplyMultiplier *float64
	MultiThreadMin      *int
	HealthyThreshold    *int
	WatchThreshold      *int
	AIEnabled           *bool
}

// Update applies edits to an owner's config. The engine itself tolerates any
// weights, so validation happens here, at the edit surface.
func (cr *ConfigResolver) Update(ctx context.Context, tenantID, userID uuid.UUID, update ConfigUpdate) (*entities.ScoringConfig, error) {
	config, err := cr.load(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&config.WeightCloseDate, update.WeightCloseDate)
	setInt(&config.WeightEngagement, update.WeightEngagement)
	setInt(&config.WeightProcess, update.WeightProcess)
	setInt(&config.WeightSize, update.WeightSize)
	setInt(&config.WeightCompetitive, update.WeightCompetitive)
	setInt(&config.WeightMomentum, update.WeightMomentum)
	setInt(&config.StaleMeetingDays, update.StaleMeetingDays)
	setInt(&config.MultiThreadMin, update.MultiThreadMin)
	setInt(&config.HealthyThreshold, update.HealthyThreshold)
	setInt(&config.WatchThreshold, update.WatchThreshold)

	if update.OversizeMultiplier != nil {
		config.OversizeMultiplier = *update.OversizeMultiplier
	}
	if update.SlowReplyMultiplier != nil {
		config.SlowReplyMultiplier = *update.SlowReplyMultiplier
	}
	if update.AIEnabled != nil {
		config.AIEnabled = *update.AIEnabled
	}

	if update.ParamWeights != nil {
		raw, err := json.Marshal(update.ParamWeights)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal param weights: %w", err)
		}
		config.ParamWeights = raw
	}
	if update.ParamEnabled != nil {
		for key := range update.ParamEnabled {
			if !entities.IsKnownParam(key) {
				return nil, fmt.Errorf("%w: %s", entities.ErrUnknownParameter, key)
			}
		}
		raw, err := json.Marshal(update.ParamEnabled)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal enabled params: %w", err)
		}
		config.ParamEnabled = raw
	}
	if update.TitleKeywords != nil {
		raw, err := json.Marshal(update.TitleKeywords)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal title keywords: %w", err)
		}
		config.TitleKeywords = raw
	}
	if update.SegmentAverages != nil {
		raw, err := json.Marshal(update.SegmentAverages)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal segment averages: %w", err)
		}
		config.SegmentAverages = raw
	}

	if err := config.ValidateCategoryWeights(); err != nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrInvalidInput, err.Error())
	}
	if err := validateThresholds(config); err != nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrInvalidInput, err.Error())
	}

	if err := cr.repo.Update(ctx, config); err != nil {
		return nil, err
	}
	cr.cache.Invalidate(tenantID, userID)

	cr.logger.Info("updated scoring config",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()))
	return config, nil
}

func validateThresholds(config *entities.ScoringConfig) error {
	if config.WatchThreshold < 0 || config.HealthyThreshold > 100 {
		return fmt.Errorf("thresholds must be within 0..100")
	}
	if config.WatchThreshold >= config.HealthyThreshold {
		return fmt.Errorf("watch threshold %d must be below healthy threshold %d", config.WatchThreshold, config.HealthyThreshold)
	}
	return nil
}
