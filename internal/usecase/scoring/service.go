package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
)

// Result is the outcome of scoring one deal
type Result struct {
	DealID    uuid.UUID                `json:"deal_id"`
	Score     int                      `json:"score"`
	Tier      entities.HealthTier      `json:"tier"`
	Breakdown *entities.ScoreBreakdown `json:"breakdown"`
	ScoredAt  time.Time                `json:"scored_at"`
}

// Service scores deals: it loads the full evidence base, runs the engine, and
// persists the snapshot back onto the deal.
type Service struct {
	deals    repositories.DealRepository
	contacts repositories.ContactRepository
	meetings repositories.MeetingRepository
	emails   repositories.EmailRepository
	values   repositories.ValueHistoryRepository
	configs  *ConfigResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new scoring service
func NewService(
	deals repositories.DealRepository,
	contacts repositories.ContactRepository,
	meetings repositories.MeetingRepository,
	emails repositories.EmailRepository,
	values repositories.ValueHistoryRepository,
	configs *ConfigResolver,
	logger *zap.Logger,
) *Service {
	return &Service{
		deals:    deals,
		contacts: contacts,
		meetings: meetings,
		emails:   emails,
		values:   values,
		configs:  configs,
		logger:   logger,
		now:      time.Now,
	}
}

// ScoreDeal loads everything about a deal, computes its health, persists the
// snapshot, and returns the result.
func (s *Service) ScoreDeal(ctx context.Context, tenantID, userID, dealID uuid.UUID) (*Result, error) {
	dctx, err := s.loadContext(ctx, tenantID, userID, dealID)
	if err != nil {
		return nil, err
	}

	score, tier, breakdown := Compute(dctx)

	raw, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	scoredAt := dctx.Now
	if err := s.deals.UpdateHealth(ctx, tenantID, dealID, repositories.HealthSnapshot{
		Score:     score,
		Tier:      tier,
		Breakdown: raw,
		ScoredAt:  scoredAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist health snapshot: %w", err)
	}

	s.logger.Info("scored deal",
		zap.String("tenant_id", tenantID.String()),
		zap.String("deal_id", dealID.String()),
		zap.Int("score", score),
		zap.String("tier", string(tier)))

	return &Result{
		DealID:    dealID,
		Score:     score,
		Tier:      tier,
		Breakdown: breakdown,
		ScoredAt:  scoredAt,
	}, nil
}

// Preview computes a score without persisting anything
func (s *Service) Preview(ctx context.Context, tenantID, userID, dealID uuid.UUID) (*Result, error) {
	dctx, err := s.loadContext(ctx, tenantID, userID, dealID)
	if err != nil {
		return nil, err
	}
	score, tier, breakdown := Compute(dctx)
	return &Result{
		DealID:    dealID,
		Score:     score,
		Tier:      tier,
		Breakdown: breakdown,
		ScoredAt:  dctx.Now,
	}, nil
}

// loadContext fetches the deal and its evidence base concurrently. A missing
// deal fails the whole load; the dependent lists come back empty at worst.
func (s *Service) loadContext(ctx context.Context, tenantID, userID, dealID uuid.UUID) (*DealContext, error) {
	dctx := &DealContext{Now: s.now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deal, err := s.deals.GetByID(gctx, tenantID, dealID)
		if err != nil {
			return err
		}
		dctx.Deal = deal
		return nil
	})
	g.Go(func() error {
		config, err := s.configs.Resolve(gctx, tenantID, userID)
		if err != nil {
			return err
		}
		dctx.Config = config
		return nil
	})
	g.Go(func() error {
		contacts, err := s.contacts.ListByDeal(gctx, tenantID, dealID)
		if err != nil {
			return err
		}
		dctx.Contacts = contacts
		return nil
	})
	g.Go(func() error {
		meetings, err := s.meetings.ListByDeal(gctx, tenantID, dealID)
		if err != nil {
			return err
		}
		dctx.Meetings = meetings
		return nil
	})
	g.Go(func() error {
		emails, err := s.emails.ListByDeal(gctx, tenantID, dealID)
		if err != nil {
			return err
		}
		dctx.Emails = emails
		return nil
	})
	g.Go(func() error {
		history, err := s.values.ListByDeal(gctx, tenantID, dealID)
		if err != nil {
			return err
		}
		dctx.ValueHistory = history
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load deal context: %w", err)
	}
	return dctx, nil
}
