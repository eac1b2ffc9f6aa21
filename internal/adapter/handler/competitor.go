package handler

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/errors"
	scoringdto "github.com/dealwise/deal-assistant/internal/adapter/dto/scoring"
	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
)

// Competitor handles the tenant competitor catalog. The catalog is a thin
// CRUD surface, so the handler talks to the repository directly.
type Competitor struct {
	repo   repositories.CompetitorRepository
	logger *zap.Logger
}

// NewCompetitor creates a new competitor handler
func NewCompetitor(repo repositories.CompetitorRepository, logger *zap.Logger) *Competitor {
	return &Competitor{repo: repo, logger: logger}
}

// Create adds a competitor to the tenant's catalog
func (h *Competitor) Create(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req scoringdto.CompetitorRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	aliases, err := json.Marshal(req.Aliases)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	competitor := &entities.Competitor{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     req.Name,
		Aliases:  aliases,
	}
	if err := h.repo.Create(c.Request().Context(), competitor); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, competitor)
}

// List returns the tenant's competitor catalog
func (h *Competitor) List(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	competitors, err := h.repo.ListByTenant(c.Request().Context(), tenantID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, competitors)
}

// Update edits a catalog competitor
func (h *Competitor) Update(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid competitor ID"))
	}

	var req scoringdto.CompetitorRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	competitor, err := h.repo.GetByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	aliases, err := json.Marshal(req.Aliases)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	competitor.Name = req.Name
	competitor.Aliases = aliases
	if err := h.repo.Update(c.Request().Context(), competitor); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, competitor)
}

// Delete removes a competitor from the catalog
func (h *Competitor) Delete(c echo.Context) error {
	tenantID, _, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid competitor ID"))
	}

	if err := h.repo.Delete(c.Request().Context(), tenantID, id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"status": "deleted"})
}
