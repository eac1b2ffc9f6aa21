package scoring

import "github.com/dealwise/deal-assistant/internal/domain/entities"

// UpdateConfigRequest edits a scoring config; omitted fields are unchanged
type UpdateConfigRequest struct {
	WeightCloseDate   *int `json:"weight_close_date,omitempty" validate:"omitempty,gte=0,lte=100"`
	WeightEngagement  *int `json:"weight_engagement,omitempty" validate:"omitempty,gte=0,lte=100"`
	WeightProcess     *int `json:"weight_process,omitempty" validate:"omitempty,gte=0,lte=100"`
	WeightSize        *int `json:"weight_size,omitempty" validate:"omitempty,gte=0,lte=100"`
	WeightCompetitive *int `json:"weight_competitive,omitempty" validate:"omitempty,gte=0,lte=100"`
	WeightMomentum    *int `json:"weight_momentum,omitempty" validate:"omitempty,gte=0,lte=100"`

	ParamWeights    *entities.ParamWeights    `json:"param_weights,omitempty"`
	ParamEnabled    map[string]bool           `json:"param_enabled,omitempty"`
	TitleKeywords   *entities.TitleKeywords   `json:"title_keywords,omitempty"`
	SegmentAverages *entities.SegmentAverages `json:"segment_averages,omitempty"`

	OversizeMultiplier  *float64 `json:"oversize_multiplier,omitempty" validate:"omitempty,gt=0"`
	StaleMeetingDays    *int     `json:"stale_meeting_days,omitempty" validate:"omitempty,gt=0"`
	SlowReplyMultiplier *float64 `json:"slow_reply_multiplier,omitempty" validate:"omitempty,gt=0"`
	MultiThreadMin      *int     `json:"multi_thread_min,omitempty" validate:"omitempty,gt=0"`
	HealthyThreshold    *int     `json:"healthy_threshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	WatchThreshold      *int     `json:"watch_threshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	AIEnabled           *bool    `json:"ai_enabled,omitempty"`
}

// CompetitorRequest creates or updates a catalog competitor
type CompetitorRequest struct {
	Name    string   `json:"name" validate:"required,max=255"`
	Aliases []string `json:"aliases,omitempty"`
}
