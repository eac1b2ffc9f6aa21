package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/adapter/handler"
	"github.com/dealwise/deal-assistant/internal/adapter/repository"
	"github.com/dealwise/deal-assistant/internal/infrastructure/cache"
	"github.com/dealwise/deal-assistant/internal/infrastructure/database"
	"github.com/dealwise/deal-assistant/internal/infrastructure/external/oauth"
	httpmw "github.com/dealwise/deal-assistant/internal/infrastructure/http/middleware"
	"github.com/dealwise/deal-assistant/internal/infrastructure/storage"
	"github.com/dealwise/deal-assistant/internal/usecase/analysis"
	"github.com/dealwise/deal-assistant/internal/usecase/auth"
	dealuc "github.com/dealwise/deal-assistant/internal/usecase/deal"
	"github.com/dealwise/deal-assistant/internal/usecase/scoring"
	"github.com/dealwise/deal-assistant/internal/usecase/signals"
	"github.com/dealwise/deal-assistant/pkg/config"
	"github.com/dealwise/deal-assistant/pkg/jwt"
	pkgvalidator "github.com/dealwise/deal-assistant/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Schema changes go through sql-migrate; auto-apply is for development only
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production; apply migrations out of band instead")
		}
		if err := database.Migrate(db, "migrations"); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	archiveStore, err := storage.NewArchiveStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize analysis archive: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	dealRepo := repository.NewDealRepository(db)
	contactRepo := repository.NewContactRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	emailRepo := repository.NewEmailRepository(db)
	valueRepo := repository.NewValueHistoryRepository(db)
	competitorRepo := repository.NewCompetitorRepository(db)
	configRepo := repository.NewScoringConfigRepository(db)

	// Auth
	googleProvider := oauth.NewGoogleProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)
	stateManager := oauth.NewStateManager(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	oauthService := auth.NewOAuthService(userRepo, sessionRepo, googleProvider, stateManager, jwtManager, logger)

	// Scoring engine
	configCache := cache.NewConfigCache(time.Minute)
	configResolver := scoring.NewConfigResolver(configRepo, configCache, logger)
	scorer := scoring.NewService(dealRepo, contactRepo, meetingRepo, emailRepo, valueRepo, configResolver, logger)

	// Signal extraction
	extractor := signals.NewEvidenceExtractor()
	detector := signals.NewDetector(dealRepo, extractor, logger)
	matcher := signals.NewMatcher(dealRepo, extractor, logger)
	analysisService := analysis.NewService(dealRepo, competitorRepo, configResolver, detector, matcher, scorer, archiveStore, logger)

	// Deal lifecycle
	dealService := dealuc.NewService(dealRepo, contactRepo, meetingRepo, emailRepo, valueRepo, scorer, logger)

	// Handlers
	authHandler := handler.NewAuth(oauthService, logger)
	dealHandler := handler.NewDeal(dealService, scorer, logger)
	analysisHandler := handler.NewAnalysis(analysisService, logger)
	competitorHandler := handler.NewCompetitor(competitorRepo, logger)
	configHandler := handler.NewScoringConfig(configResolver, logger)

	authMW := httpmw.EchoAuth(jwtManager)
	router := handler.NewRouter(cfg, authHandler, dealHandler, analysisHandler, competitorHandler, configHandler, authMW)
	router.Setup(e)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment))

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
}
