package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
)

// Matcher finds tenant catalog competitors mentioned in analysis text
type Matcher struct {
	deals     repositories.DealRepository
	extractor *EvidenceExtractor
	logger    *zap.Logger
}

// NewMatcher creates a new competitor matcher
func NewMatcher(deals repositories.DealRepository, extractor *EvidenceExtractor, logger *zap.Logger) *Matcher {
	return &Matcher{
		deals:     deals,
		extractor: extractor,
		logger:    logger,
	}
}

// Detect scans the text for every competitor's name and aliases, matched as
// case-insensitive substrings. Each competitor is reported at most once, on
// its first matching term.
func (m *Matcher) Detect(text string, competitors []*entities.Competitor) ([]entities.MatchedCompetitor, error) {
	if text == "" || len(competitors) == 0 {
		return nil, nil
	}

	lowered := strings.ToLower(text)
	var matches []entities.MatchedCompetitor
	for _, competitor := range competitors {
		terms, err := competitor.SearchTerms()
		if err != nil {
			return nil, fmt.Errorf("competitor %s: %w", competitor.ID, err)
		}
		for _, term := range terms {
			if !strings.Contains(lowered, strings.ToLower(term)) {
				continue
			}
			matches = append(matches, entities.MatchedCompetitor{
				CompetitorID: competitor.ID,
				Name:         competitor.Name,
				MatchedAlias: term,
				Snippet:      m.extractor.ExtractSurroundingSentence(text, term),
			})
			break
		}
	}
	return matches, nil
}

// Apply records the matches on the deal and confirms the competitive signal
func (m *Matcher) Apply(ctx context.Context, tenantID, dealID uuid.UUID, source string, matches []entities.MatchedCompetitor) error {
	if len(matches) == 0 {
		return nil
	}

	rawMatches, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to marshal competitor matches: %w", err)
	}
	clauses := make([]string, 0, len(matches))
	for _, match := range matches {
		clause := match.Name
		if match.Snippet != "" {
			clause = match.Name + ": " + match.Snippet
		}
		clauses = append(clauses, clause)
	}
	rawSignal, err := json.Marshal(entities.AISignal{
		Confirmed:  true,
		Evidence:   strings.Join(clauses, "; "),
		Source:     source,
		Confidence: detectionConfidence,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal competitive signal: %w", err)
	}

	fields := map[string]interface{}{
		"competitor_matches": rawMatches,
		"competitive_ai":     rawSignal,
	}
	if err := m.deals.UpdateFields(ctx, tenantID, dealID, fields); err != nil {
		return fmt.Errorf("failed to apply competitor matches: %w", err)
	}

	m.logger.Info("recorded competitor matches",
		zap.String("deal_id", dealID.String()),
		zap.Int("competitors", len(matches)))
	return nil
}
