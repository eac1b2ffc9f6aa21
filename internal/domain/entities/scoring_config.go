package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Default tuning values applied when a tenant has not customized anything
const (
	DefaultHealthyThreshold    = 70
	DefaultWatchThreshold      = 40
	DefaultStaleMeetingDays    = 14
	DefaultSlowReplyMultiplier = 2.0
	DefaultOversizeMultiplier  = 1.5
	DefaultMultiThreadMin      = 3
	DefaultRecentExpansionDays = 90
	MaxCloseDatePushPenalty    = 3
)

// ParamWeights holds the per-parameter weights. Positive weights reward a
// confirmed fact; negative weights penalize it.
type ParamWeights struct {
	BuyerConfirmedCloseDate int `json:"buyer_confirmed_close_date"`
	CloseDateSlipped        int `json:"close_date_slipped"`
	TiedToBuyerEvent        int `json:"tied_to_buyer_event"`
	EconomicBuyerIdentified int `json:"economic_buyer_identified"`
	ExecMeetingHeld         int `json:"exec_meeting_held"`
	MultiThreaded           int `json:"multi_threaded"`
	LegalProcurementEngaged int `json:"legal_procurement_engaged"`
	SecurityReviewStarted   int `json:"security_review_started"`
	ValueAboveSegment       int `json:"value_above_segment"`
	RecentExpansion         int `json:"recent_expansion"`
	ScopeApproved           int `json:"scope_approved"`
	CompetitiveDeal         int `json:"competitive_deal"`
	PriceSensitivity        int `json:"price_sensitivity"`
	DiscountPending         int `json:"discount_pending"`
	NoRecentMeeting         int `json:"no_recent_meeting"`
	SlowReply               int `json:"slow_reply"`
}

// DefaultParamWeights returns the out-of-the-box parameter weights
func DefaultParamWeights() ParamWeights {
	return ParamWeights{
		BuyerConfirmedCloseDate: 30,
		CloseDateSlipped:        -15,
		TiedToBuyerEvent:        20,
		EconomicBuyerIdentified: 40,
		ExecMeetingHeld:         30,
		MultiThreaded:           30,
		LegalProcurementEngaged: 50,
		SecurityReviewStarted:   50,
		ValueAboveSegment:       -20,
		RecentExpansion:         40,
		ScopeApproved:           60,
		CompetitiveDeal:         -30,
		PriceSensitivity:        -20,
		DiscountPending:         -15,
		NoRecentMeeting:         -30,
		SlowReply:               -20,
	}
}

// Weight returns the weight configured for the given parameter
func (w ParamWeights) Weight(key ParamKey) int {
	switch key {
	case ParamBuyerConfirmedCloseDate:
		return w.BuyerConfirmedCloseDate
	case ParamCloseDateSlipped:
		return w.CloseDateSlipped
	case ParamTiedToBuyerEvent:
		return w.TiedToBuyerEvent
	case ParamEconomicBuyerIdentified:
		return w.EconomicBuyerIdentified
	case ParamExecMeetingHeld:
		return w.ExecMeetingHeld
	case ParamMultiThreaded:
		return w.MultiThreaded
	case ParamLegalProcurementEngaged:
		return w.LegalProcurementEngaged
	case ParamSecurityReviewStarted:
		return w.SecurityReviewStarted
	case ParamValueAboveSegment:
		return w.ValueAboveSegment
	case ParamRecentExpansion:
		return w.RecentExpansion
	case ParamScopeApproved:
		return w.ScopeApproved
	case ParamCompetitiveDeal:
		return w.CompetitiveDeal
	case ParamPriceSensitivity:
		return w.PriceSensitivity
	case ParamDiscountPending:
		return w.DiscountPending
	case ParamNoRecentMeeting:
		return w.NoRecentMeeting
	case ParamSlowReply:
		return w.SlowReply
	}
	return 0
}

// TitleKeywords drives contact title classification for auto parameters
type TitleKeywords struct {
	Executive []string `json:"executive"`
	Legal     []string `json:"legal"`
	Security  []string `json:"security"`
}

// DefaultTitleKeywords returns the built-in title keyword lists
func DefaultTitleKeywords() TitleKeywords {
	return TitleKeywords{
		Executive: []string{"ceo", "cfo", "coo", "cto", "cio", "ciso", "chief", "vp", "vice president", "president", "founder", "owner", "evp", "svp"},
		Legal:     []string{"legal", "counsel", "procurement", "purchasing", "sourcing"},
		Security:  []string{"security", "compliance", "infosec", "risk"},
	}
}

// SegmentAverages holds per-segment typical deal values in minor currency units
type SegmentAverages struct {
	SMB        int64 `json:"smb"`
	MidMarket  int64 `json:"mid_market"`
	Enterprise int64 `json:"enterprise"`
}

// DefaultSegmentAverages returns the built-in segment value baselines
func DefaultSegmentAverages() SegmentAverages {
	return SegmentAverages{
		SMB:        1_500_000,
		MidMarket:  7_500_000,
		Enterprise: 25_000_000,
	}
}

// AverageFor returns the baseline value for a segment, zero when unset
func (s SegmentAverages) AverageFor(segment DealSegment) int64 {
	switch segment {
	case SegmentSMB:
		return s.SMB
	case SegmentMidMarket:
		return s.MidMarket
	case SegmentEnterprise:
		return s.Enterprise
	}
	return 0
}

// ScoringConfig is the per-user, per-tenant tuning of the health engine.
// A row is created lazily with defaults on first read.
type ScoringConfig struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_scoring_config_owner"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_scoring_config_owner"`

	// Category weights, expected to sum to 100
	WeightCloseDate   int `json:"weight_close_date" gorm:"not null;default:20"`
	WeightEngagement  int `json:"weight_engagement" gorm:"not null;default:20"`
	WeightProcess     int `json:"weight_process" gorm:"not null;default:15"`
	WeightSize        int `json:"weight_size" gorm:"not null;default:15"`
	WeightCompetitive int `json:"weight_competitive" gorm:"not null;default:15"`
	WeightMomentum    int `json:"weight_momentum" gorm:"not null;default:15"`

	ParamWeights    datatypes.JSON `json:"param_weights,omitempty" gorm:"type:jsonb"`
	ParamEnabled    datatypes.JSON `json:"param_enabled,omitempty" gorm:"type:jsonb"`
	TitleKeywords   datatypes.JSON `json:"title_keywords,omitempty" gorm:"type:jsonb"`
	SegmentAverages datatypes.JSON `json:"segment_averages,omitempty" gorm:"type:jsonb"`

	OversizeMultiplier  float64 `json:"oversize_multiplier" gorm:"not null;default:1.5"`
	StaleMeetingDays    int     `json:"stale_meeting_days" gorm:"not null;default:14"`
	SlowReplyMultiplier float64 `json:"slow_reply_multiplier" gorm:"not null;default:2"`
	MultiThreadMin      int     `json:"multi_thread_min" gorm:"not null;default:3"`
	HealthyThreshold    int     `json:"healthy_threshold" gorm:"not null;default:70"`
	WatchThreshold      int     `json:"watch_threshold" gorm:"not null;default:40"`
	AIEnabled           bool    `json:"ai_enabled" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for ScoringConfig
func (ScoringConfig) TableName() string {
	return "scoring_configs"
}

// NewDefaultScoringConfig builds a config row with every knob at its default
func NewDefaultScoringConfig(tenantID, userID uuid.UUID) (*ScoringConfig, error) {
	weights, err := json.Marshal(DefaultParamWeights())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default param weights: %w", err)
	}
	keywords, err := json.Marshal(DefaultTitleKeywords())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default title keywords: %w", err)
	}
	averages, err := json.Marshal(DefaultSegmentAverages())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default segment averages: %w", err)
	}

	return &ScoringConfig{
		ID:                  uuid.New(),
		TenantID:            tenantID,
		UserID:              userID,
		WeightCloseDate:     20,
		WeightEngagement:    20,
		WeightProcess:       15,
		WeightSize:          15,
		WeightCompetitive:   15,
		WeightMomentum:      15,
		ParamWeights:        weights,
		TitleKeywords:       keywords,
		SegmentAverages:     averages,
		OversizeMultiplier:  DefaultOversizeMultiplier,
		StaleMeetingDays:    DefaultStaleMeetingDays,
		SlowReplyMultiplier: DefaultSlowReplyMultiplier,
		MultiThreadMin:      DefaultMultiThreadMin,
		HealthyThreshold:    DefaultHealthyThreshold,
		WatchThreshold:      DefaultWatchThreshold,
		AIEnabled:           true,
	}, nil
}

// CategoryWeight returns the configured weight for a category
func (c *ScoringConfig) CategoryWeight(key CategoryKey) int {
	switch key {
	case CategoryCloseDate:
		return c.WeightCloseDate
	case CategoryEngagement:
		return c.WeightEngagement
	case CategoryProcess:
		return c.WeightProcess
	case CategorySize:
		return c.WeightSize
	case CategoryCompetitive:
		return c.WeightCompetitive
	case CategoryMomentum:
		return c.WeightMomentum
	}
	return 0
}

// Weights decodes param_weights, falling back to defaults for an empty column
func (c *ScoringConfig) Weights() (ParamWeights, error) {
	if len(c.ParamWeights) == 0 {
		return DefaultParamWeights(), nil
	}
	w := DefaultParamWeights()
	if err := decodeJSONColumn(c.ParamWeights, &w); err != nil {
		return ParamWeights{}, fmt.Errorf("%w: param_weights: %v", ErrScoringConfigCorrupt, err)
	}
	return w, nil
}

// EnabledParams decodes param_enabled. A parameter missing from the map is
// enabled; only an explicit false disables it.
func (c *ScoringConfig) EnabledParams() (map[ParamKey]bool, error) {
	if len(c.ParamEnabled) == 0 {
		return nil, nil
	}
	var enabled map[ParamKey]bool
	if err := decodeJSONColumn(c.ParamEnabled, &enabled); err != nil {
		return nil, fmt.Errorf("%w: param_enabled: %v", ErrScoringConfigCorrupt, err)
	}
	return enabled, nil
}

// Keywords decodes title_keywords, falling back to defaults for an empty column
func (c *ScoringConfig) Keywords() (TitleKeywords, error) {
	if len(c.TitleKeywords) == 0 {
		return DefaultTitleKeywords(), nil
	}
	k := DefaultTitleKeywords()
	if err := decodeJSONColumn(c.TitleKeywords, &k); err != nil {
		return TitleKeywords{}, fmt.Errorf("%w: title_keywords: %v", ErrScoringConfigCorrupt, err)
	}
	return k, nil
}

// Averages decodes segment_averages, falling back to defaults for an empty column
func (c *ScoringConfig) Averages() (SegmentAverages, error) {
	if len(c.SegmentAverages) == 0 {
		return DefaultSegmentAverages(), nil
	}
	a := DefaultSegmentAverages()
	if err := decodeJSONColumn(c.SegmentAverages, &a); err != nil {
		return SegmentAverages{}, fmt.Errorf("%w: segment_averages: %v", ErrScoringConfigCorrupt, err)
	}
	return a, nil
}

// ValidateCategoryWeights checks the six category weights sum to 100
func (c *ScoringConfig) ValidateCategoryWeights() error {
	sum := c.WeightCloseDate + c.WeightEngagement + c.WeightProcess +
		c.WeightSize + c.WeightCompetitive + c.WeightMomentum
	if sum != 100 {
		return fmt.Errorf("category weights must sum to 100, got %d", sum)
	}
	return nil
}
