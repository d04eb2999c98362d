// Package server wires configuration, services, middleware and routes into a
// runnable HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mailstudio/internal/config"
	"mailstudio/internal/handlers"
	"mailstudio/internal/logger"
	"mailstudio/internal/middleware"
	"mailstudio/internal/models"
	"mailstudio/internal/services"
	"mailstudio/internal/storage"
)

// Version identifies the running server build.
const Version = "7.0.0"

// Server holds the wired application.
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server

	Tokens      *services.TokenService
	Categories  *services.CategoryService
	Templates   *services.TemplateService
	Completions *services.CompletionService
}

// New builds the full application from config: bootstraps the data files,
// seeds env tokens and wires every route.
func New(cfg *config.Config) (*Server, error) {
	catRepo := storage.NewRepository[models.Category](cfg.CategoriesFile())
	tplRepo := storage.NewRepository[models.Template](cfg.TemplatesFile())
	if err := catRepo.EnsureFile(); err != nil {
		return nil, fmt.Errorf("failed to initialize categories file: %w", err)
	}
	if err := tplRepo.EnsureFile(); err != nil {
		return nil, fmt.Errorf("failed to initialize templates file: %w", err)
	}

	tokenService := services.NewTokenService(cfg.TokensFile(), cfg.TokenHashAlgo, cfg.AdminToken, cfg.AdminToken2)
	if cfg.AdminToken != "" || cfg.AdminToken2 != "" {
		if err := tokenService.SyncEnvTokens(); err != nil {
			return nil, fmt.Errorf("failed to seed env tokens: %w", err)
		}
	}

	categoryService := services.NewCategoryService(catRepo)
	templateService := services.NewTemplateService(tplRepo)
	completionService := services.NewCompletionService(cfg.OpenAIKey)

	s := &Server{
		cfg:         cfg,
		Tokens:      tokenService,
		Categories:  categoryService,
		Templates:   templateService,
		Completions: completionService,
	}
	s.router = s.buildRouter()
	s.http = &http.Server{
		Addr:    cfg.Addr(),
		Handler: s.router,
	}
	return s, nil
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if s.cfg.LogRequests {
		router.Use(middleware.RequestLog())
	}
	router.Use(middleware.SecurityHeaders(s.cfg.ForceHTTPS, s.cfg.HSTS))
	if s.cfg.EnableCORS {
		router.Use(middleware.CORS())
	}
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(s.cfg.RateLimitMax, s.cfg.RateLimitMax)))
	router.Use(middleware.Metrics())

	healthHandler := handlers.NewHealthHandler(s.Templates, s.Categories, Version)
	completionHandler := handlers.NewCompletionHandler(s.Completions)
	categoryHandler := handlers.NewCategoryHandler(s.Categories)
	templateHandler := handlers.NewTemplateHandler(s.Templates)
	tokenHandler := handlers.NewTokenHandler(s.Tokens)
	variablesHandler := handlers.NewVariablesHandler()
	transferHandler := handlers.NewTransferHandler(s.Templates, s.Categories)
	publicHandler := handlers.NewPublicHandler(s.Templates)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/ping", healthHandler.Ping)
	api.GET("/health", healthHandler.Health)
	api.GET("/diag", healthHandler.Diag)
	api.POST("/openai", completionHandler.Complete)
	if s.cfg.PublicTemplates {
		api.GET("/templates-public", publicHandler.List)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.TokenAuth(s.Tokens))

	admin.GET("/categories", categoryHandler.List)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)

	admin.GET("/templates", templateHandler.List)
	admin.GET("/templates/:id", templateHandler.Get)
	admin.POST("/templates", templateHandler.Create)
	admin.PUT("/templates/:id", templateHandler.Update)
	admin.DELETE("/templates/:id", templateHandler.Delete)
	admin.POST("/templates/:id/restore", templateHandler.Restore)

	admin.POST("/variables/extract", variablesHandler.Extract)
	admin.GET("/export", transferHandler.Export)
	admin.POST("/import", transferHandler.Import)
	admin.GET("/auth/check", tokenHandler.Check)

	tokens := admin.Group("/auth/tokens")
	tokens.Use(middleware.RequireAdmin())
	tokens.GET("", tokenHandler.List)
	tokens.POST("", tokenHandler.Create)
	tokens.POST("/:id/reveal", tokenHandler.Reveal)
	tokens.POST("/:id/rotate", tokenHandler.Rotate)
	tokens.DELETE("/:id", tokenHandler.Delete)

	return router
}

// Router exposes the gin engine, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts listening and blocks until the server stops.
func (s *Server) Run() error {
	logger.Info("listening", "addr", s.cfg.Addr())
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// StartHeartbeat logs a liveness line every interval until ctx is done.
func (s *Server) StartHeartbeat(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("heartbeat")
			}
		}
	}()
}

// StartSelfPing probes the local /api/ping every interval until ctx is done.
// Failures are logged and otherwise ignored.
func (s *Server) StartSelfPing(ctx context.Context, interval time.Duration) {
	url := fmt.Sprintf("http://127.0.0.1:%d/api/ping", s.cfg.Port)
	client := &http.Client{Timeout: 2 * time.Second}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				resp, err := client.Get(url)
				if err != nil {
					logger.Warn("self ping failed", "error", err)
					continue
				}
				resp.Body.Close()
			}
		}
	}()
}
