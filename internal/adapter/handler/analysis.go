package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/errors"
	dealdto "github.com/dealwise/deal-assistant/internal/adapter/dto/deal"
	"github.com/dealwise/deal-assistant/internal/usecase/analysis"
)

// Analysis handles analysis text ingestion
type Analysis struct {
	service *analysis.Service
	logger  *zap.Logger
}

// NewAnalysis creates a new analysis handler
func NewAnalysis(service *analysis.Service, logger *zap.Logger) *Analysis {
	return &Analysis{service: service, logger: logger}
}

// Ingest accepts free-form analysis text for a deal, extracts signals and
// competitor mentions from it, and re-scores the deal.
func (h *Analysis) Ingest(c echo.Context) error {
	tenantID, userID, err := authScope(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	dealID, err := dealIDParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dealdto.AnalysisRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if strings.TrimSpace(req.Text) == "" {
		return HandleError(h.logger, c, errors.ErrAnalysisEmptyText())
	}

	result, err := h.service.Ingest(c.Request().Context(), tenantID, userID, dealID, req.Text, req.Source)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, result)
}
