// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"castlecare_backend/internal/application"
	"castlecare_backend/internal/cart"
	"castlecare_backend/internal/catalog"
	"castlecare_backend/internal/common"
	"castlecare_backend/internal/config"
	"castlecare_backend/internal/hiring"
	"castlecare_backend/internal/identity"
	"castlecare_backend/internal/jobs"
	"castlecare_backend/internal/middleware"
	"castlecare_backend/internal/order"
	"castlecare_backend/internal/platform/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config

	// Exported so the entrypoint can log and probe after wiring completes.
	AppLogger *zap.Logger
	DB        *gorm.DB
	Redis     *database.RedisClient

	// Handlers
	hiringHandler      *hiring.Handler
	applicationHandler *application.Handler
	cartHandler        *cart.Handler
	catalogHandler     *catalog.Handler
	orderHandler       *order.Handler

	// Jobs
	draftCleanupJob *jobs.DraftCleanupJob

	// Middleware instances
	authMW      gin.HandlerFunc
	adminRoleMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	hiringHandler *hiring.Handler,
	applicationHandler *application.Handler,
	cartHandler *cart.Handler,
	catalogHandler *catalog.Handler,
	orderHandler *order.Handler,
	draftCleanupJob *jobs.DraftCleanupJob,
	provider identity.Provider,
	db *gorm.DB,
	redisClient *database.RedisClient,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(provider, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Castle Care API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	// The hiring wizard runs before an account exists, so its routes carry no
	// auth middleware.
	hiringHandler.RegisterRoutes(v1)
	applicationHandler.RegisterRoutes(v1, authMW)
	cartHandler.RegisterRoutes(v1, authMW)
	catalogHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	orderHandler.RegisterRoutes(v1, authMW, adminRoleMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:         httpServer,
		router:             router,
		cfg:                cfg,
		AppLogger:          logger,
		DB:                 db,
		Redis:              redisClient,
		hiringHandler:      hiringHandler,
		applicationHandler: applicationHandler,
		cartHandler:        cartHandler,
		catalogHandler:     catalogHandler,
		orderHandler:       orderHandler,
		draftCleanupJob:    draftCleanupJob,
		authMW:             authMW,
		adminRoleMW:        adminRoleMW,
	}, nil
}

// Migrate creates or updates the relational tables the catalog and order
// modules depend on.
func (s *Server) Migrate() error {
	return s.DB.AutoMigrate(
		&catalog.PricingOption{},
		&catalog.ServiceArea{},
		&order.Order{},
		&order.OrderItem{},
	)
}

func (s *Server) Start() error {
	if s.draftCleanupJob != nil {
		err := s.draftCleanupJob.SetupAndStart()
		if err != nil {
			s.AppLogger.Error("Failed to setup and start draft cleanup job", zap.Error(err))
		}
	} else {
		s.AppLogger.Info("Draft cleanup job is not configured, skipping start.")
	}

	s.AppLogger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.AppLogger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.AppLogger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.AppLogger.Info("Attempting graceful server shutdown...")
	if s.draftCleanupJob != nil {
		s.draftCleanupJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
