package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DealStage tracks where a deal sits in the pipeline
type DealStage string

const (
	StageProspecting   DealStage = "prospecting"
	StageQualification DealStage = "qualification"
	StageProposal      DealStage = "proposal"
	StageNegotiation   DealStage = "negotiation"
	StageClosedWon     DealStage = "closed_won"
	StageClosedLost    DealStage = "closed_lost"
)

// IsValidStage checks whether the stage value is one we accept
func IsValidStage(s DealStage) bool {
	switch s {
	case StageProspecting, StageQualification, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// DealSegment classifies the account size band a deal belongs to
type DealSegment string

const (
	SegmentSMB        DealSegment = "smb"
	SegmentMidMarket  DealSegment = "mid_market"
	SegmentEnterprise DealSegment = "enterprise"
)

// IsValidSegment checks whether the segment value is one we accept
func IsValidSegment(s DealSegment) bool {
	switch s {
	case SegmentSMB, SegmentMidMarket, SegmentEnterprise:
		return true
	}
	return false
}

// AISignal is one AI-derived fact on a deal. Confirmed only flips true; a later
// scan that finds nothing leaves earlier confirmations in place.
type AISignal struct {
	Confirmed  bool    `json:"confirmed"`
	Evidence   string  `json:"evidence,omitempty"`
	Source     string  `json:"source,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Deal represents a sales opportunity owned by a rep within a tenant.
//
// The nullable bool columns are rep assertions: nil means the rep never said,
// true confirms the fact, false explicitly denies it. They always win over the
// AI columns, which in turn win over anything the engine derives from activity.
type Deal struct {
	ID       uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID uuid.UUID   `json:"tenant_id" gorm:"type:uuid;not null;index:idx_deals_tenant"`
	OwnerID  uuid.UUID   `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name     string      `json:"name" gorm:"type:varchar(255);not null"`
	Stage    DealStage   `json:"stage" gorm:"type:varchar(30);default:'qualification'"`
	Segment  DealSegment `json:"segment" gorm:"type:varchar(20);default:'mid_market'"`

	// Value is in minor currency units (cents)
	Value int64 `json:"value" gorm:"not null;default:0"`

	ExpectedCloseDate  *time.Time `json:"expected_close_date,omitempty"`
	CloseDatePushCount int        `json:"close_date_push_count" gorm:"not null;default:0"`

	// Rep assertions (tri-state)
	BuyerConfirmedCloseDate *bool `json:"buyer_confirmed_close_date,omitempty"`
	TiedToBuyerEvent        *bool `json:"tied_to_buyer_event,omitempty"`
	LegalEngaged            *bool `json:"legal_engaged,omitempty"`
	SecurityReviewStarted   *bool `json:"security_review_started,omitempty"`
	ScopeApproved           *bool `json:"scope_approved,omitempty"`
	Competitive             *bool `json:"competitive,omitempty"`
	PriceSensitive          *bool `json:"price_sensitive,omitempty"`
	DiscountPending         *bool `json:"discount_pending,omitempty"`

	// AI-derived signals, written by the analysis scanner
	BuyerConfirmedCloseDateAI datatypes.JSON `json:"buyer_confirmed_close_date_ai,omitempty" gorm:"type:jsonb"`
	TiedToBuyerEventAI        datatypes.JSON `json:"tied_to_buyer_event_ai,omitempty" gorm:"type:jsonb"`
	LegalEngagedAI            datatypes.JSON `json:"legal_engaged_ai,omitempty" gorm:"type:jsonb"`
	SecurityReviewStartedAI   datatypes.JSON `json:"security_review_started_ai,omitempty" gorm:"type:jsonb"`
	ScopeApprovedAI           datatypes.JSON `json:"scope_approved_ai,omitempty" gorm:"type:jsonb"`
	CompetitiveAI             datatypes.JSON `json:"competitive_ai,omitempty" gorm:"type:jsonb"`
	PriceSensitiveAI          datatypes.JSON `json:"price_sensitive_ai,omitempty" gorm:"type:jsonb"`
	DiscountPendingAI         datatypes.JSON `json:"discount_pending_ai,omitempty" gorm:"type:jsonb"`

	// Competitors detected in analysis text
	CompetitorMatches datatypes.JSON `json:"competitor_matches,omitempty" gorm:"type:jsonb"`

	// Latest health snapshot
	HealthScore     *int           `json:"health_score,omitempty"`
	HealthTier      *HealthTier    `json:"health_tier,omitempty" gorm:"type:varchar(10)"`
	HealthBreakdown datatypes.JSON `json:"health_breakdown,omitempty" gorm:"type:jsonb"`
	HealthScoredAt  *time.Time     `json:"health_scored_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Deal
func (Deal) TableName() string {
	return "deals"
}

// ManualFlag returns the rep assertion backing the given parameter, or nil when
// the parameter has no rep-assertable column.
func (d *Deal) ManualFlag(key ParamKey) *bool {
	switch key {
	case ParamBuyerConfirmedCloseDate:
		return d.BuyerConfirmedCloseDate
	case ParamTiedToBuyerEvent:
		return d.TiedToBuyerEvent
	case ParamLegalProcurementEngaged:
		return d.LegalEngaged
	case ParamSecurityReviewStarted:
		return d.SecurityReviewStarted
	case ParamScopeApproved:
		return d.ScopeApproved
	case ParamCompetitiveDeal:
		return d.Competitive
	case ParamPriceSensitivity:
		return d.PriceSensitive
	case ParamDiscountPending:
		return d.DiscountPending
	}
	return nil
}

// AISignalFor decodes the AI signal column backing the given parameter. Returns
// nil when the parameter has no AI column or the column is empty.
func (d *Deal) AISignalFor(key ParamKey) (*AISignal, error) {
	var raw datatypes.JSON
	switch key {
	case ParamBuyerConfirmedCloseDate:
		raw = d.BuyerConfirmedCloseDateAI
	case ParamTiedToBuyerEvent:
		raw = d.TiedToBuyerEventAI
	case ParamLegalProcurementEngaged:
		raw = d.LegalEngagedAI
	case ParamSecurityReviewStarted:
		raw = d.SecurityReviewStartedAI
	case ParamScopeApproved:
		raw = d.ScopeApprovedAI
	case ParamCompetitiveDeal:
		raw = d.CompetitiveAI
	case ParamPriceSensitivity:
		raw = d.PriceSensitiveAI
	case ParamDiscountPending:
		raw = d.DiscountPendingAI
	default:
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var sig AISignal
	if err := decodeJSONColumn(raw, &sig); err != nil {
		return nil, fmt.Errorf("failed to decode ai signal %s: %w", key, err)
	}
	return &sig, nil
}

// Competitors decodes the competitor_matches column
func (d *Deal) Competitors() ([]MatchedCompetitor, error) {
	if len(d.CompetitorMatches) == 0 {
		return nil, nil
	}
	var matches []MatchedCompetitor
	if err := decodeJSONColumn(d.CompetitorMatches, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode competitor matches: %w", err)
	}
	return matches, nil
}

// Breakdown decodes the health_breakdown column
func (d *Deal) Breakdown() (*ScoreBreakdown, error) {
	if len(d.HealthBreakdown) == 0 {
		return nil, nil
	}
	var b ScoreBreakdown
	if err := decodeJSONColumn(d.HealthBreakdown, &b); err != nil {
		return nil, fmt.Errorf("failed to decode health breakdown: %w", err)
	}
	return &b, nil
}

// decodeJSONColumn unmarshals a jsonb column, tolerating rows written by an
// earlier version that double-encoded the value as a JSON string.
func decodeJSONColumn(raw []byte, out interface{}) error {
	if err := json.Unmarshal(raw, out); err == nil {
		return nil
	}
	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return fmt.Errorf("invalid json column: %w", err)
	}
	if err := json.Unmarshal([]byte(inner), out); err != nil {
		return fmt.Errorf("invalid double-encoded json column: %w", err)
	}
	return nil
}
