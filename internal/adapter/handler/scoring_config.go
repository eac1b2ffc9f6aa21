package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/errors"
	scoringdto "github.com/dealwise/deal-assistant/internal/adapter/dto/scoring"
	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/usecase/scoring"
)

// ScoringConfig handles the per-user scoring configuration
type ScoringConfig struct {
	configs *scoring.ConfigResolver
	logger  *zap.Logger
}

// NewScoringConfig creates a new scoring config handler
func NewScoringConfig(configs *scoring.ConfigResolver, logger *zap.Logger) *ScoringConfig {
	return &ScoringConfig{configs: configs, logger: logger}
}

// Get returns the caller's config, creating the default row on first access
func (h *ScoringConfig) Get(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resolved, err := h.configs.Resolve(c.Request().Context(), tenantID, userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, resolved.Config)
}

// Update edits the caller's config
func (h *ScoringConfig) Update(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req scoringdto.UpdateConfigRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	update := scoring.ConfigUpdate{
		WeightCloseDate:     req.WeightCloseDate,
		WeightEngagement:    req.WeightEngagement,
		WeightProcess:       req.WeightProcess,
		WeightSize:          req.WeightSize,
		WeightCompetitive:   req.WeightCompetitive,
		WeightMomentum:      req.WeightMomentum,
		ParamWeights:        req.ParamWeights,
		TitleKeywords:       req.TitleKeywords,
		SegmentAverages:     req.SegmentAverages,
		OversizeMultiplier:  req.OversizeMultiplier,
		StaleMeetingDays:    req.StaleMeetingDays,
		SlowReplyMultiplier: req.SlowReplyMultiplier,
		MultiThreadMin:      req.MultiThreadMin,
		HealthyThreshold:    req.HealthyThreshold,
		WatchThreshold:      req.WatchThreshold,
		AIEnabled:           req.AIEnabled,
	}
	if req.ParamEnabled != nil {
		update.ParamEnabled = make(map[entities.ParamKey]bool, len(req.ParamEnabled))
		for key, enabled := range req.ParamEnabled {
			update.ParamEnabled[entities.ParamKey(key)] = enabled
		}
	}

	config, err := h.configs.Update(c.Request().Context(), tenantID, userID, update)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, config)
}
