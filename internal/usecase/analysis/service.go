package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
	"github.com/dealwise/deal-assistant/internal/infrastructure/storage"
	"github.com/dealwise/deal-assistant/internal/usecase/scoring"
	"github.com/dealwise/deal-assistant/internal/usecase/signals"
)

const maxRescoreRetries = 3

// Result summarizes one analysis ingest
type Result struct {
	DealID      uuid.UUID                    `json:"deal_id"`
	ArchiveKey  string                       `json:"archive_key,omitempty"`
	AIEnabled   bool                         `json:"ai_enabled"`
	Signals     []entities.ParamKey          `json:"signals"`
	Competitors []entities.MatchedCompetitor `json:"competitors"`
	Health      *scoring.Result              `json:"health,omitempty"`
}

// Service ingests free-form analysis text for a deal: it archives the raw
// text, extracts signals and competitor mentions, and re-scores the deal.
type Service struct {
	deals       repositories.DealRepository
	competitors repositories.CompetitorRepository
	configs     *scoring.ConfigResolver
	detector    *signals.Detector
	matcher     *signals.Matcher
	scorer      *scoring.Service
	archive     *storage.ArchiveStore
	logger      *zap.Logger
}

// NewService creates a new analysis service
func NewService(
	deals repositories.DealRepository,
	competitors repositories.CompetitorRepository,
	configs *scoring.ConfigResolver,
	detector *signals.Detector,
	matcher *signals.Matcher,
	scorer *scoring.Service,
	archive *storage.ArchiveStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		deals:       deals,
		competitors: competitors,
		configs:     configs,
		detector:    detector,
		matcher:     matcher,
		scorer:      scorer,
		archive:     archive,
		logger:      logger,
	}
}

// Ingest processes one analysis text for a deal. The source label records
// what produced the text (e.g. "email" or "transcript") and travels into every
// signal written from it. With AI disabled for the owner the text is archived
// for audit but nothing is scanned and the deal is not touched.
func (s *Service) Ingest(ctx context.Context, tenantID, userID, dealID uuid.UUID, text, source string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entities.ErrInvalidInput
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = entities.SourceAI
	}

	deal, err := s.deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	config, err := s.configs.Resolve(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DealID:    deal.ID,
		AIEnabled: config.Config.AIEnabled,
	}

	if s.archive != nil {
		key, err := s.archive.ArchiveAnalysis(ctx, tenantID, dealID, text)
		if err != nil {
			// Archiving is an audit trail, not a gate
			s.logger.Warn("failed to archive analysis text",
				zap.String("deal_id", dealID.String()),
				zap.Error(err))
		} else {
			result.ArchiveKey = key
		}
	}

	if !config.Config.AIEnabled {
		return result, nil
	}

	detections := s.detector.Scan(text)
	if err := s.detector.Apply(ctx, tenantID, dealID, source, detections); err != nil {
		return nil, err
	}
	for _, d := range detections {
		result.Signals = append(result.Signals, d.Key)
	}

	catalog, err := s.competitors.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matcher.Detect(text, catalog)
	if err != nil {
		return nil, err
	}
	if err := s.matcher.Apply(ctx, tenantID, dealID, source, matches); err != nil {
		return nil, err
	}
	result.Competitors = matches

	health, err := s.rescore(ctx, tenantID, userID, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-score after analysis: %w", err)
	}
	result.Health = health

	return result, nil
}

// rescore retries transient scoring failures so an ingest whose signal writes
// already landed does not leave the stored score stale.
func (s *Service) rescore(ctx context.Context, tenantID, userID, dealID uuid.UUID) (*scoring.Result, error) {
	var health *scoring.Result

	operation := func() error {
		result, err := s.scorer.ScoreDeal(ctx, tenantID, userID, dealID)
		if err != nil {
			return err
		}
		health = result
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRescoreRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return health, nil
}
