package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ibpipeline/pipeline-api/internal/api/handler"
	"github.com/ibpipeline/pipeline-api/internal/api/middleware"
	"github.com/ibpipeline/pipeline-api/internal/core/domain"
	"github.com/ibpipeline/pipeline-api/internal/core/ports"
	healthhandlers "github.com/ibpipeline/pipeline-api/internal/infrastructure/http/handlers"
)

// Deps bundles everything the router needs to register routes.
type Deps struct {
	Codec       ports.TokenCodec
	AuthService ports.AuthService
	DealService ports.DealService
	UserService ports.UserService
	Mongo       *mongo.Database
	Redis       *redis.Client
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("pipeline"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	dealHandler := handler.NewDealHandler(deps.DealService)
	userHandler := handler.NewUserHandler(deps.UserService)
	authMW := middleware.Auth(deps.Codec)

	// --- Auth routes (no token required) ---
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/refresh", authHandler.Refresh)

	// --- Deal routes ---
	deals := e.Group("/api/deals", authMW)
	deals.POST("", dealHandler.Create, middleware.Require(domain.PermDealCreate))
	deals.GET("", dealHandler.List, middleware.Require(domain.PermDealRead))
	deals.GET("/:id", dealHandler.Get, middleware.Require(domain.PermDealRead))
	deals.PUT("/:id", dealHandler.Update, middleware.Require(domain.PermDealUpdate))
	deals.PATCH("/:id/stage", dealHandler.UpdateStage, middleware.Require(domain.PermStageUpdate))
	deals.POST("/:id/notes", dealHandler.AddNote, middleware.Require(domain.PermNoteAdd))
	deals.PATCH("/:id/value", dealHandler.UpdateValue, middleware.Require(domain.PermValueUpdate))
	deals.DELETE("/:id", dealHandler.Delete, middleware.Require(domain.PermDealDelete))

	// --- Profile ---
	e.GET("/api/users/me", userHandler.Me, authMW, middleware.Require(domain.PermProfileRead))

	// --- Admin user management ---
	admin := e.Group("/api/admin/users", authMW, middleware.Require(domain.PermUserManage))
	admin.POST("", userHandler.Create)
	admin.GET("", userHandler.List)
	admin.GET("/:id", userHandler.Get)
	admin.PATCH("/:id/status", userHandler.UpdateStatus)

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
