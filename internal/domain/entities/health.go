package entities

import "github.com/google/uuid"

// ParamState is the tri-state resolution of a single scoring parameter
type ParamState string

const (
	ParamConfirmed ParamState = "confirmed"
	ParamAbsent    ParamState = "absent"
	ParamUnknown   ParamState = "unknown"
)

// HealthTier buckets a 0..100 score into a traffic-light style band
type HealthTier string

const (
	TierHealthy HealthTier = "healthy"
	TierWatch   HealthTier = "watch"
	TierRisk    HealthTier = "risk"
)

// CategoryKey identifies one of the six scoring categories
type CategoryKey string

const (
	CategoryCloseDate   CategoryKey = "close_date"
	CategoryEngagement  CategoryKey = "engagement"
	CategoryProcess     CategoryKey = "process"
	CategorySize        CategoryKey = "size"
	CategoryCompetitive CategoryKey = "competitive"
	CategoryMomentum    CategoryKey = "momentum"
)

// AllCategories lists the category keys in display order
var AllCategories = []CategoryKey{
	CategoryCloseDate,
	CategoryEngagement,
	CategoryProcess,
	CategorySize,
	CategoryCompetitive,
	CategoryMomentum,
}

// ParamKey identifies a scoring parameter
type ParamKey string

const (
	ParamBuyerConfirmedCloseDate ParamKey = "buyer_confirmed_close_date"
	ParamCloseDateSlipped        ParamKey = "close_date_slipped"
	ParamTiedToBuyerEvent        ParamKey = "tied_to_buyer_event"

	ParamEconomicBuyerIdentified ParamKey = "economic_buyer_identified"
	ParamExecMeetingHeld         ParamKey = "exec_meeting_held"
	ParamMultiThreaded           ParamKey = "multi_threaded"

	ParamLegalProcurementEngaged ParamKey = "legal_procurement_engaged"
	ParamSecurityReviewStarted   ParamKey = "security_review_started"

	ParamValueAboveSegment ParamKey = "value_above_segment"
	ParamRecentExpansion   ParamKey = "recent_expansion"
	ParamScopeApproved     ParamKey = "scope_approved"

	ParamCompetitiveDeal  ParamKey = "competitive_deal"
	ParamPriceSensitivity ParamKey = "price_sensitivity"
	ParamDiscountPending  ParamKey = "discount_pending"

	ParamNoRecentMeeting ParamKey = "no_recent_meeting"
	ParamSlowReply       ParamKey = "slow_reply"
)

// ParamsByCategory maps each category to its parameters in display order
var ParamsByCategory = map[CategoryKey][]ParamKey{
	CategoryCloseDate:   {ParamBuyerConfirmedCloseDate, ParamCloseDateSlipped, ParamTiedToBuyerEvent},
	CategoryEngagement:  {ParamEconomicBuyerIdentified, ParamExecMeetingHeld, ParamMultiThreaded},
	CategoryProcess:     {ParamLegalProcurementEngaged, ParamSecurityReviewStarted},
	CategorySize:        {ParamValueAboveSegment, ParamRecentExpansion, ParamScopeApproved},
	CategoryCompetitive: {ParamCompetitiveDeal, ParamPriceSensitivity, ParamDiscountPending},
	CategoryMomentum:    {ParamNoRecentMeeting, ParamSlowReply},
}

// IsKnownParam reports whether key names a parameter the engine understands
func IsKnownParam(key ParamKey) bool {
	for _, params := range ParamsByCategory {
		for _, p := range params {
			if p == key {
				return true
			}
		}
	}
	return false
}

// Signal sources recorded alongside resolved parameters
const (
	SourceManual = "manual"
	SourceAI     = "ai"
	SourceAuto   = "auto"
)

// ParameterResult records how a single parameter resolved during scoring
type ParameterResult struct {
	Key      ParamKey    `json:"key"`
	Category CategoryKey `json:"category"`
	State    ParamState  `json:"state"`
	Weight   int         `json:"weight"`
	Impact   int         `json:"impact"`
	Source   string      `json:"source,omitempty"`
	Evidence string      `json:"evidence,omitempty"`
}

// CategoryResult is the per-category slice of the breakdown
type CategoryResult struct {
	Score  int `json:"score"`
	Weight int `json:"weight"`
}

// ScoreBreakdown is persisted as jsonb next to the score so the UI can explain
// it. TotalWeight is the denominator the total was normalized by: the summed
// weights of the categories that took part, which only equals 100 when all six
// participated and the stored weights sum to 100.
type ScoreBreakdown struct {
	Categories  map[CategoryKey]CategoryResult `json:"categories"`
	Params      map[ParamKey]ParameterResult   `json:"params"`
	Signals     map[ParamKey]string            `json:"signals"`
	TotalWeight int                            `json:"total_weight"`
}

// MatchedCompetitor is one entry of a deal's competitor_matches jsonb list
type MatchedCompetitor struct {
	CompetitorID uuid.UUID `json:"competitor_id"`
	Name         string    `json:"name"`
	MatchedAlias string    `json:"matched_alias"`
	Snippet      string    `json:"snippet,omitempty"`
}
