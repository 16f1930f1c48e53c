package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"shos/internal/assets"
	"shos/internal/cache"
	"shos/internal/config"
	custommiddleware "shos/internal/middleware"
	"shos/internal/repository"
	"shos/internal/service"
	"shos/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// NewServer wires the catalog stack and returns an unstarted HTTP server.
// A nil redis client disables the bundle cache and the write rate limit.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, fs afero.Fs) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack(cfg.Server.RequestTimeout) {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))

	router.Get("/api/health", healthHandler)
	router.Get("/health", healthHandler)

	// Static product images
	assetFiles := newAssetFileServer(fs, cfg.Assets.Dir)
	router.Handle("/product-assets/*", http.StripPrefix("/product-assets", assetFiles))
	if cfg.Assets.URLPrefix != "" && cfg.Assets.URLPrefix != "/product-assets" {
		router.Handle(cfg.Assets.URLPrefix+"/*", http.StripPrefix(cfg.Assets.URLPrefix, assetFiles))
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewVariantRepository(db)

	// Initialize cache
	bundleCache := cache.NewNoopBundleCache()
	if redisClient != nil {
		bundleCache = cache.NewRedisBundleCache(redisClient, cfg.Cache.BundleTTL, logger.Named("cache"))
	}

	// Initialize services
	library := assets.NewLibrary(fs, cfg.Assets.Dir, cfg.Assets.URLPrefix)
	catalogService := service.NewCatalogService(productRepo, variantRepo, library, bundleCache)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)

	rateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "rate_limit:writes",
	}, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router, rateLimit)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
