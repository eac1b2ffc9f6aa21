package deal

import "github.com/dealwise/deal-assistant/internal/domain/entities"

// ListDealsResponse pages through a tenant's deals
type ListDealsResponse struct {
	Deals  []*entities.Deal `json:"deals"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// HealthResponse is the stored or freshly computed health of one deal
type HealthResponse struct {
	DealID    string                   `json:"deal_id"`
	Score     int                      `json:"score"`
	Tier      entities.HealthTier      `json:"tier"`
	Breakdown *entities.ScoreBreakdown `json:"breakdown,omitempty"`
	ScoredAt  string                   `json:"scored_at,omitempty"`
	Stored    bool                     `json:"stored"`
}
