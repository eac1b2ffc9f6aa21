package deal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
	"github.com/dealwise/deal-assistant/internal/usecase/scoring"
)

// CreateInput carries the fields accepted when opening a deal
type CreateInput struct {
	Name              string
	Stage             entities.DealStage
	Segment           entities.DealSegment
	Value             int64
	ExpectedCloseDate *time.Time
}

// UpdateInput carries optional edits; nil fields are left unchanged
type UpdateInput struct {
	Name              *string
	Stage             *entities.DealStage
	Segment           *entities.DealSegment
	Value             *int64
	ExpectedCloseDate *time.Time
}

// Service implements deal lifecycle operations. Every mutation that can move
// the health score triggers a re-score so the stored snapshot stays current.
type Service struct {
	deals    repositories.DealRepository
	contacts repositories.ContactRepository
	meetings repositories.MeetingRepository
	emails   repositories.EmailRepository
	values   repositories.ValueHistoryRepository
	scorer   *scoring.Service
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new deal service
func NewService(
	deals repositories.DealRepository,
	contacts repositories.ContactRepository,
	meetings repositories.MeetingRepository,
	emails repositories.EmailRepository,
	values repositories.ValueHistoryRepository,
	scorer *scoring.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		deals:    deals,
		contacts: contacts,
		meetings: meetings,
		emails:   emails,
		values:   values,
		scorer:   scorer,
		logger:   logger,
		now:      time.Now,
	}
}

// Create opens a deal and scores it immediately so it never renders unscored
func (s *Service) Create(ctx context.Context, tenantID, ownerID uuid.UUID, input CreateInput) (*entities.Deal, error) {
	if input.Name == "" {
		return nil, entities.ErrInvalidInput
	}
	stage := input.Stage
	if stage == "" {
		stage = entities.StageQualification
	}
	if !entities.IsValidStage(stage) {
		return nil, entities.ErrInvalidDealStage
	}
	segment := input.Segment
	if segment == "" {
		segment = entities.SegmentMidMarket
	}
	if !entities.IsValidSegment(segment) {
		return nil, entities.ErrInvalidSegment
	}

	deal := &entities.Deal{
		ID:                uuid.New(),
		TenantID:          tenantID,
		OwnerID:           ownerID,
		Name:              input.Name,
		Stage:             stage,
		Segment:           segment,
		Value:             input.Value,
		ExpectedCloseDate: input.ExpectedCloseDate,
	}
	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, err
	}

	if _, err := s.scorer.ScoreDeal(ctx, tenantID, ownerID, deal.ID); err != nil {
		s.logger.Warn("failed to score new deal",
			zap.String("deal_id", deal.ID.String()),
			zap.Error(err))
	}
	return s.deals.GetByID(ctx, tenantID, deal.ID)
}

// Get returns a deal by ID
func (s *Service) Get(ctx context.Context, tenantID, dealID uuid.UUID) (*entities.Deal, error) {
	return s.deals.GetByID(ctx, tenantID, dealID)
}

// List returns a page of deals with the total count
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter repositories.DealFilter) ([]*entities.Deal, int64, error) {
	return s.deals.List(ctx, tenantID, filter)
}

// Update applies edits to a deal. A value edit appends to the value history;
// pushing the expected close date later bumps the push counter.
func (s *Service) Update(ctx context.Context, tenantID, userID, dealID uuid.UUID, input UpdateInput) (*entities.Deal, error) {
	deal, err := s.deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, entities.ErrInvalidInput
		}
		deal.Name = *input.Name
	}
	if input.Stage != nil {
		if !entities.IsValidStage(*input.Stage) {
			return nil, entities.ErrInvalidDealStage
		}
		deal.Stage = *input.Stage
	}
	if input.Segment != nil {
		if !entities.IsValidSegment(*input.Segment) {
			return nil, entities.ErrInvalidSegment
		}
		deal.Segment = *input.Segment
	}

	if input.Value != nil && *input.Value != deal.Value {
		change := &entities.ValueChange{
			ID:            uuid.New(),
			TenantID:      tenantID,
			DealID:        deal.ID,
			PreviousValue: deal.Value,
			NewValue:      *input.Value,
			ChangedAt:     s.now(),
		}
		if err := s.values.Append(ctx, change); err != nil {
			return nil, err
		}
		deal.Value = *input.Value
	}

	if input.ExpectedCloseDate != nil {
		if deal.ExpectedCloseDate != nil && input.ExpectedCloseDate.After(*deal.ExpectedCloseDate) {
			deal.CloseDatePushCount++
		}
		deal.ExpectedCloseDate = input.ExpectedCloseDate
	}

	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, err
	}

	if _, err := s.scorer.ScoreDeal(ctx, tenantID, userID, deal.ID); err != nil {
		s.logger.Warn("failed to re-score deal after update",
			zap.String("deal_id", deal.ID.String()),
			zap.Error(err))
	}
	return s.deals.GetByID(ctx, tenantID, deal.ID)
}

// SetFlags assigns rep assertions. A key present with a nil value resets the
// assertion back to unknown. Unknown keys are rejected.
func (s *Service) SetFlags(ctx context.Context, tenantID, userID, dealID uuid.UUID, flags map[entities.ParamKey]*bool) (*entities.Deal, error) {
	deal, err := s.deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	for key, value := range flags {
		switch key {
		case entities.ParamBuyerConfirmedCloseDate:
			deal.BuyerConfirmedCloseDate = value
		case entities.ParamTiedToBuyerEvent:
			deal.TiedToBuyerEvent = value
		case entities.ParamLegalProcurementEngaged:
			deal.LegalEngaged = value
		case entities.ParamSecurityReviewStarted:
			deal.SecurityReviewStarted = value
		case entities.ParamScopeApproved:
			deal.ScopeApproved = value
		case entities.ParamCompetitiveDeal:
			deal.Competitive = value
		case entities.ParamPriceSensitivity:
			deal.PriceSensitive = value
		case entities.ParamDiscountPending:
			deal.DiscountPending = value
		default:
			return nil, entities.ErrUnknownParameter
		}
	}

	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, err
	}

	if _, err := s.scorer.ScoreDeal(ctx, tenantID, userID, deal.ID); err != nil {
		s.logger.Warn("failed to re-score deal after flag change",
			zap.String("deal_id", deal.ID.String()),
			zap.Error(err))
	}
	return s.deals.GetByID(ctx, tenantID, deal.ID)
}

// Delete removes a deal and everything hanging off it
func (s *Service) Delete(ctx context.Context, tenantID, dealID uuid.UUID) error {
	return s.deals.Delete(ctx, tenantID, dealID)
}

// AddContact attaches a contact to a deal and re-scores it
func (s *Service) AddContact(ctx context.Context, tenantID, userID uuid.UUID, contact *entities.Contact) (*entities.Contact, error) {
	if _, err := s.deals.GetByID(ctx, tenantID, contact.DealID); err != nil {
		return nil, err
	}
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	contact.TenantID = tenantID
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	s.rescore(ctx, tenantID, userID, contact.DealID)
	return contact, nil
}

// ListContacts lists a deal's contacts
func (s *Service) ListContacts(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.Contact, error) {
	if _, err := s.deals.GetByID(ctx, tenantID, dealID); err != nil {
		return nil, err
	}
	return s.contacts.ListByDeal(ctx, tenantID, dealID)
}

// AddMeeting attaches a meeting to a deal and re-scores it
func (s *Service) AddMeeting(ctx context.Context, tenantID, userID uuid.UUID, meeting *entities.Meeting) (*entities.Meeting, error) {
	if _, err := s.deals.GetByID(ctx, tenantID, meeting.DealID); err != nil {
		return nil, err
	}
	if meeting.ID == uuid.Nil {
		meeting.ID = uuid.New()
	}
	meeting.TenantID = tenantID
	if meeting.Status == "" {
		meeting.Status = entities.MeetingScheduled
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}
	s.rescore(ctx, tenantID, userID, meeting.DealID)
	return meeting, nil
}

// ListMeetings lists a deal's meetings newest first
func (s *Service) ListMeetings(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.Meeting, error) {
	if _, err := s.deals.GetByID(ctx, tenantID, dealID); err != nil {
		return nil, err
	}
	return s.meetings.ListByDeal(ctx, tenantID, dealID)
}

// AddEmail logs an email touchpoint on a deal and re-scores it
func (s *Service) AddEmail(ctx context.Context, tenantID, userID uuid.UUID, email *entities.Email) (*entities.Email, error) {
	if _, err := s.deals.GetByID(ctx, tenantID, email.DealID); err != nil {
		return nil, err
	}
	if email.ID == uuid.Nil {
		email.ID = uuid.New()
	}
	email.TenantID = tenantID
	if err := s.emails.Create(ctx, email); err != nil {
		return nil, err
	}
	s.rescore(ctx, tenantID, userID, email.DealID)
	return email, nil
}

// ListEmails lists a deal's emails oldest first
func (s *Service) ListEmails(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.Email, error) {
	if _, err := s.deals.GetByID(ctx, tenantID, dealID); err != nil {
		return nil, err
	}
	return s.emails.ListByDeal(ctx, tenantID, dealID)
}

// ListValueHistory lists a deal's value changes newest first
func (s *Service) ListValueHistory(ctx context.Context, tenantID, dealID uuid.UUID) ([]*entities.ValueChange, error) {
	if _, err := s.deals.GetByID(ctx, tenantID, dealID); err != nil {
		return nil, err
	}
	return s.values.ListByDeal(ctx, tenantID, dealID)
}

func (s *Service) rescore(ctx context.Context, tenantID, userID, dealID uuid.UUID) {
	if _, err := s.scorer.ScoreDeal(ctx, tenantID, userID, dealID); err != nil {
		s.logger.Warn("failed to re-score deal after activity change",
			zap.String("deal_id", dealID.String()),
			zap.Error(err))
	}
}
