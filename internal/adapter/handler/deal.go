package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/errors"
	dealdto "github.com/dealwise/deal-assistant/internal/adapter/dto/deal"
	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
	"github.com/dealwise/deal-assistant/internal/infrastructure/http/middleware"
	dealuc "github.com/dealwise/deal-assistant/internal/usecase/deal"
	"github.com/dealwise/deal-assistant/internal/usecase/scoring"
)

// Deal handles deal lifecycle and health endpoints
type Deal struct {
	deals  *dealuc.Service
	scorer *scoring.Service
	logger *zap.Logger
}

// NewDeal creates a new deal handler
func NewDeal(deals *dealuc.Service, scorer *scoring.Service, logger *zap.Logger) *Deal {
	return &Deal{deals: deals, scorer: scorer, logger: logger}
}

// authScope pulls the tenant and user of the authenticated request
func authScope(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, errors.ErrUnauthenticated()
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, errors.ErrUnauthenticated()
	}
	return tenantID, userID, nil
}

func dealIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("Invalid deal ID")
	}
	return id, nil
}

// Create opens a new deal
func (h *Deal) Create(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dealdto.CreateDealRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	deal, err := h.deals.Create(c.Request().Context(), tenantID, userID, dealuc.CreateInput{
		Name:              req.Name,
		Stage:             entities.DealStage(req.Stage),
		Segment:           entities.DealSegment(req.Segment),
		Value:             req.Value,
		ExpectedCloseDate: req.ExpectedCloseDate,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, deal)
}

// List pages through the tenant's deals
func (h *Deal) List(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dealdto.ListDealsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	filter := repositories.DealFilter{Limit: req.Limit, Offset: req.Offset}
	if req.Stage != "" {
		stage := entities.DealStage(req.Stage)
		filter.Stage = &stage
	}
	if req.Tier != "" {
		tier := entities.HealthTier(req.Tier)
		filter.Tier = &tier
	}
	if req.Owner != "" {
		ownerID, err := uuid.Parse(req.Owner)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid owner ID"))
		}
		filter.OwnerID = &ownerID
	}

	deals, total, err := h.deals.List(c.Request().Context(), tenantID, filter)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dealdto.ListDealsResponse{
		Deals:  deals,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Get returns one deal
func (h *Deal) Get(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	deal, err := h.deals.Get(c.Request().Context(), tenantID, dealID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, deal)
}

// Update edits a deal
func (h *Deal) Update(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dealdto.UpdateDealRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	input := dealuc.UpdateInput{
		Name:              req.Name,
		Value:             req.Value,
		ExpectedCloseDate: req.ExpectedCloseDate,
	}
	if req.Stage != nil {
		stage := entities.DealStage(*req.Stage)
		input.Stage = &stage
	}
	if req.Segment != nil {
		segment := entities.DealSegment(*req.Segment)
		input.Segment = &segment
	}

	deal, err := h.deals.Update(c.Request().Context(), tenantID, userID, dealID, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, deal)
}

// Delete removes a deal
func (h *Deal) Delete(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.deals.Delete(c.Request().Context(), tenantID, dealID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"status": "deleted"})
}

// SetFlags assigns rep assertions on a deal
func (h *Deal) SetFlags(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dealdto.FlagsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if len(req.Flags) == 0 {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("No flags provided"))
	}

	flags := make(map[entities.ParamKey]*bool, len(req.Flags))
	for key, value := range req.Flags {
		flags[entities.ParamKey(key)] = value
	}

	deal, err := h.deals.SetFlags(c.Request().Context(), tenantID, userID, dealID, flags)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, deal)
}

// Score recomputes and persists the deal's health
func (h *Deal) Score(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.scorer.ScoreDeal(c.Request().Context(), tenantID, userID, dealID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}

// Health returns the stored health snapshot, computing one on the fly for a
// deal that has never been scored.
func (h *Deal) Health(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	deal, err := h.deals.Get(c.Request().Context(), tenantID, dealID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if deal.HealthScore != nil && deal.HealthTier != nil {
		breakdown, err := deal.Breakdown()
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		resp := dealdto.HealthResponse{
			DealID:    deal.ID.String(),
			Score:     *deal.HealthScore,
			Tier:      *deal.HealthTier,
			Breakdown: breakdown,
			Stored:    true,
		}
		if deal.HealthScoredAt != nil {
			resp.ScoredAt = deal.HealthScoredAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		return HandleSuccess(h.logger, c, resp)
	}

	result, err := h.scorer.Preview(c.Request().Context(), tenantID, userID, dealID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, dealdto.HealthResponse{
		DealID:    deal.ID.String(),
		Score:     result.Score,
		Tier:      result.Tier,
		Breakdown: result.Breakdown,
		ScoredAt:  result.ScoredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Stored:    false,
	})
}

// AddContact attaches a contact to a deal
func (h *Deal) AddContact(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dealdto.AddContactRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	role := entities.ContactRole(req.Role)
	if role == "" {
		role = entities.RoleUnknown
	}
	contact, err := h.deals.AddContact(c.Request().Context(), tenantID, userID, &entities.Contact{
		DealID: dealID,
		Name:   req.Name,
		Email:  req.Email,
		Title:  req.Title,
		Role:   role,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, contact)
}

// ListContacts lists a deal's contacts
func (h *Deal) ListContacts(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	contacts, err := h.deals.ListContacts(c.Request().Context(), tenantID, dealID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, contacts)
}

// AddMeeting logs a meeting on a deal
func (h *Deal) AddMeeting(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dealdto.AddMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	meeting, err := h.deals.AddMeeting(c.Request().Context(), tenantID, userID, &entities.Meeting{
		DealID:   dealID,
		Title:    req.Title,
		StartsAt: req.StartsAt,
		Status:   entities.MeetingStatus(req.Status),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meeting)
}

// ListMeetings lists a deal's meetings newest first
func (h *Deal) ListMeetings(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meetings, err := h.deals.ListMeetings(c.Request().Context(), tenantID, dealID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetings)
}

// AddEmail logs an email touchpoint on a deal
func (h *Deal) AddEmail(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dealdto.AddEmailRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	email, err := h.deals.AddEmail(c.Request().Context(), tenantID, userID, &entities.Email{
		DealID:    dealID,
		Direction: entities.EmailDirection(req.Direction),
		Subject:   req.Subject,
		SentAt:    req.SentAt,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, email)
}

// ListEmails lists a deal's emails oldest first
func (h *Deal) ListEmails(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	emails, err := h.deals.ListEmails(c.Request().Context(), tenantID, dealID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, emails)
}

// ListValueHistory lists a deal's value changes newest first
func (h *Deal) ListValueHistory(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	history, err := h.deals.ListValueHistory(c.Request().Context(), tenantID, dealID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, history)
}
