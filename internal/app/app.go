package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/rpm-system/rpm-backend/internal/config"
	"github.com/rpm-system/rpm-backend/internal/handler"
	"github.com/rpm-system/rpm-backend/internal/oauth"
	"github.com/rpm-system/rpm-backend/internal/repository"
	"github.com/rpm-system/rpm-backend/internal/service"
	"github.com/rpm-system/rpm-backend/internal/utils"
	"github.com/rpm-system/rpm-backend/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra   Infrastructure
	config  *config.Config
	router  *gin.Engine
	server  *http.Server
	sweeper *TokenSweeper
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	blacklistService := service.NewTokenBlacklistService(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	stateStore := service.NewRedisStateStore(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		repos.Token,
		repos.Category,
		jwtManager,
		blacklistService,
		cfg.Security.BCryptCost,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)
	oauthService := service.NewOAuthService(repos.User, repos.Category)

	handlers := &handlers{
		auth: handler.NewAuthHandler(authService),
		oauth: handler.NewOAuthHandler(
			oauth.NewRegistry(cfg),
			stateStore,
			oauthService,
			authService,
			cfg.Web.FrontendURL,
			infra.Logger(),
		),
		categories: handler.NewCategoryHandler(repos.Category, repos.Project),
		projects:   handler.NewProjectHandler(repos.Project, repos.Category, repos.KeyResult, repos.Capture, repos.Block, repos.Action),
		actions:    handler.NewActionHandler(repos.Action),
		blocks:     handler.NewBlockHandler(repos.Block, repos.Action),
		keyResults: handler.NewKeyResultHandler(repos.KeyResult, repos.Project),
		capture:    handler.NewCaptureHandler(repos.Capture),
		persons:    handler.NewPersonHandler(repos.Person),
		planner:    handler.NewPlannerHandler(repos.Action),
		upload:     handler.NewUploadHandler(cfg.Web.UploadDir),
	}

	if err := os.MkdirAll(cfg.Web.UploadDir, 0o755); err != nil {
		infra.Logger().Warn("failed to create upload directory", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("rpm-backend"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, handlers, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:   infra,
		config:  cfg,
		router:  router,
		server:  srv,
		sweeper: NewTokenSweeper(repos.Token, cfg.JWT.SweepInterval.Duration, infra.Logger()),
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

type handlers struct {
	auth       *handler.AuthHandler
	oauth      *handler.OAuthHandler
	categories *handler.CategoryHandler
	projects   *handler.ProjectHandler
	actions    *handler.ActionHandler
	blocks     *handler.BlockHandler
	keyResults *handler.KeyResultHandler
	capture    *handler.CaptureHandler
	persons    *handler.PersonHandler
	planner    *handler.PlannerHandler
	upload     *handler.UploadHandler
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h *handlers,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)
	router.Static("/uploads", cfg.Web.UploadDir)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register",
			handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
			h.auth.Register,
		)
		auth.POST("/login",
			handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
			h.auth.Login,
		)
		auth.POST("/refresh", h.auth.Refresh)
		auth.POST("/logout", handler.AuthMiddleware(authService), h.auth.Logout)
		auth.GET("/me", handler.AuthMiddleware(authService), h.auth.Me)
		auth.PUT("/me", handler.AuthMiddleware(authService), h.auth.UpdateProfile)

		// providers are registered as static segments; a :provider
		// parameter would collide with the routes above
		auth.GET("/google", h.oauth.Redirect("google"))
		auth.GET("/google/callback", h.oauth.Callback("google"))
		auth.GET("/microsoft", h.oauth.Redirect("microsoft"))
		auth.GET("/microsoft/callback", h.oauth.Callback("microsoft"))
	}

	protected := api.Group("")
	protected.Use(handler.AuthMiddleware(authService))
	{
		categories := protected.Group("/categories")
		{
			categories.GET("", h.categories.List)
			categories.POST("", h.categories.Create)
			categories.GET("/:id", h.categories.Get)
			categories.PUT("/:id", h.categories.Update)
			categories.DELETE("/:id", h.categories.Delete)
			categories.GET("/:id/details", h.categories.GetDetails)
			categories.PUT("/:id/details", h.categories.UpsertDetails)
		}

		projects := protected.Group("/projects")
		{
			projects.GET("", h.projects.List)
			projects.POST("", h.projects.Create)
			projects.GET("/:id", h.projects.Get)
			projects.PUT("/:id", h.projects.Patch)
			projects.DELETE("/:id", h.projects.Delete)
			projects.GET("/:id/inspiration", h.projects.ListInspiration)
			projects.GET("/:id/key-results", h.keyResults.ListByProject)
		}

		keyResults := protected.Group("/key-results")
		{
			keyResults.POST("", h.keyResults.Create)
			keyResults.PUT("/:id", h.keyResults.Patch)
			keyResults.DELETE("/:id", h.keyResults.Delete)
		}

		actions := protected.Group("/actions")
		{
			actions.GET("", h.actions.List)
			actions.POST("", h.actions.Create)
			actions.GET("/:id", h.actions.Get)
			actions.PUT("/:id", h.actions.Patch)
			actions.DELETE("/:id", h.actions.Delete)
			actions.POST("/:id/duplicate", h.actions.Duplicate)
		}

		blocks := protected.Group("/blocks")
		{
			blocks.GET("", h.blocks.List)
			blocks.POST("", h.blocks.Create)
			blocks.GET("/:id", h.blocks.Get)
			blocks.PUT("/:id", h.blocks.Patch)
			blocks.DELETE("/:id", h.blocks.Delete)
		}

		capture := protected.Group("/capture-items")
		{
			capture.GET("", h.capture.List)
			capture.POST("", h.capture.Create)
			capture.PUT("/:id", h.capture.Patch)
			capture.DELETE("/:id", h.capture.Delete)
		}

		persons := protected.Group("/persons")
		{
			persons.GET("", h.persons.List)
			persons.POST("", h.persons.Create)
			persons.PUT("/:id", h.persons.Patch)
			persons.DELETE("/:id", h.persons.Delete)
		}

		protected.GET("/planner", h.planner.Range)
		protected.POST("/upload", h.upload.Upload)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go a.sweeper.Run(sweepCtx)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
