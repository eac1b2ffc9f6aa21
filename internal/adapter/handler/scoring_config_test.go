package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/infrastructure/cache"
	httpmw "github.com/dealwise/deal-assistant/internal/infrastructure/http/middleware"
	"github.com/dealwise/deal-assistant/internal/usecase/scoring"
	pkgvalidator "github.com/dealwise/deal-assistant/pkg/validator"
)

type stubConfigRepo struct {
	configs map[string]*entities.ScoringConfig
}

func (r *stubConfigRepo) key(tenantID, userID uuid.UUID) string {
	return tenantID.String() + ":" + userID.String()
}

func (r *stubConfigRepo) Create(ctx context.Context, config *entities.ScoringConfig) error {
	if r.configs == nil {
		r.configs = make(map[string]*entities.ScoringConfig)
	}
	r.configs[r.key(config.TenantID, config.UserID)] = config
	return nil
}

func (r *stubConfigRepo) GetByOwner(ctx context.Context, tenantID, userID uuid.UUID) (*entities.ScoringConfig, error) {
	config, ok := r.configs[r.key(tenantID, userID)]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return config, nil
}

func (r *stubConfigRepo) Update(ctx context.Context, config *entities.ScoringConfig) error {
	return r.Create(ctx, config)
}

// authAs fakes the auth middleware by planting the claims into the context
func authAs(tenantID, userID uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(httpmw.ContextTenantID, tenantID)
			c.Set(httpmw.ContextUserID, userID)
			return next(c)
		}
	}
}

func newConfigEnv(t *testing.T) (*echo.Echo, uuid.UUID, uuid.UUID) {
	t.Helper()
	tenantID, userID := uuid.New(), uuid.New()
	resolver := scoring.NewConfigResolver(&stubConfigRepo{}, cache.NewConfigCache(time.Minute), zap.NewNop())
	h := NewScoringConfig(resolver, zap.NewNop())

	e := echo.New()
	e.Validator = pkgvalidator.New()
	g := e.Group("/v1/scoring-config", authAs(tenantID, userID))
	g.GET("", h.Get)
	g.PUT("", h.Update)
	return e, tenantID, userID
}

func TestScoringConfigHandler_GetCreatesDefaults(t *testing.T) {
	e, _, _ := newConfigEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/scoring-config", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data entities.ScoringConfig `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.HealthyThreshold != entities.DefaultHealthyThreshold {
		t.Errorf("healthy threshold: got %d, want %d", resp.Data.HealthyThreshold, entities.DefaultHealthyThreshold)
	}
	if !resp.Data.AIEnabled {
		t.Error("AI should be enabled by default")
	}
}

func TestScoringConfigHandler_UpdateRoundTrip(t *testing.T) {
	e, _, _ := newConfigEnv(t)

	body := `{"ai_enabled": false, "stale_meeting_days": 21}`
	req := httptest.NewRequest(http.MethodPut, "/v1/scoring-config", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/scoring-config", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp struct {
		Data entities.ScoringConfig `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.AIEnabled {
		t.Error("AI should be off after the update")
	}
	if resp.Data.StaleMeetingDays != 21 {
		t.Errorf("stale meeting days: got %d, want 21", resp.Data.StaleMeetingDays)
	}
}

func TestScoringConfigHandler_UpdateRejectsBadWeights(t *testing.T) {
	e, _, _ := newConfigEnv(t)

	body := `{"weight_close_date": 90}`
	req := httptest.NewRequest(http.MethodPut, "/v1/scoring-config", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestScoringConfigHandler_Unauthenticated(t *testing.T) {
	resolver := scoring.NewConfigResolver(&stubConfigRepo{}, cache.NewConfigCache(time.Minute), zap.NewNop())
	h := NewScoringConfig(resolver, zap.NewNop())

	e := echo.New()
	e.GET("/v1/scoring-config", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/v1/scoring-config", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
}
