package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dealwise/deal-assistant/pkg/config"
)

// Router holds all handlers and wires them onto the Echo instance
type Router struct {
	cfg        *config.Config
	auth       *Auth
	deal       *Deal
	analysis   *Analysis
	competitor *Competitor
	scoringCfg *ScoringConfig
	authMW     echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	auth *Auth,
	deal *Deal,
	analysis *Analysis,
	competitor *Competitor,
	scoringCfg *ScoringConfig,
	authMW echo.MiddlewareFunc,
) *Router {
	return &Router{
		cfg:        cfg,
		auth:       auth,
		deal:       deal,
		analysis:   analysis,
		competitor: competitor,
		scoringCfg: scoringCfg,
		authMW:     authMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")
	rt.setupAuthRoutes(v1)
	rt.setupDealRoutes(v1)
	rt.setupCompetitorRoutes(v1)
	rt.setupScoringConfigRoutes(v1)
}

func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")
	authGroup.GET("/google/login", rt.auth.GoogleLogin)
	authGroup.GET("/google/callback", rt.auth.GoogleCallback)
	authGroup.POST("/refresh", rt.auth.RefreshToken)
	authGroup.POST("/logout", rt.auth.Logout)
	authGroup.GET("/me", rt.auth.Me, rt.authMW)
}

func (rt *Router) setupDealRoutes(g *echo.Group) {
	deals := g.Group("/deals", rt.authMW)

	deals.POST("", rt.deal.Create)
	deals.GET("", rt.deal.List)
	deals.GET("/:id", rt.deal.Get)
	deals.PATCH("/:id", rt.deal.Update)
	deals.DELETE("/:id", rt.deal.Delete)

	deals.PUT("/:id/flags", rt.deal.SetFlags)
	deals.POST("/:id/score", rt.deal.Score)
	deals.GET("/:id/health", rt.deal.Health)
	deals.POST("/:id/analysis", rt.analysis.Ingest)

	deals.POST("/:id/contacts", rt.deal.AddContact)
	deals.GET("/:id/contacts", rt.deal.ListContacts)
	deals.POST("/:id/meetings", rt.deal.AddMeeting)
	deals.GET("/:id/meetings", rt.deal.ListMeetings)
	deals.POST("/:id/emails", rt.deal.AddEmail)
	deals.GET("/:id/emails", rt.deal.ListEmails)
	deals.GET("/:id/value-history", rt.deal.ListValueHistory)
}

func (rt *Router) setupCompetitorRoutes(g *echo.Group) {
	competitors := g.Group("/competitors", rt.authMW)
	competitors.POST("", rt.competitor.Create)
	competitors.GET("", rt.competitor.List)
	competitors.PUT("/:id", rt.competitor.Update)
	competitors.DELETE("/:id", rt.competitor.Delete)
}

func (rt *Router) setupScoringConfigRoutes(g *echo.Group) {
	configGroup := g.Group("/scoring-config", rt.authMW)
	configGroup.GET("", rt.scoringCfg.Get)
	configGroup.PUT("", rt.scoringCfg.Update)
}

// healthCheck returns liveness status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().UTC().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
