package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"cumulus/internal/auth"
	"cumulus/internal/config"
	"cumulus/internal/domain/repositories"
	"cumulus/internal/handler"
	"cumulus/internal/middleware"
	"cumulus/internal/repository/memory"
	"cumulus/internal/repository/postgres"
	"cumulus/internal/search"
	"cumulus/internal/service"
	"cumulus/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.Store,
		"storage_backend", cfg.Storage.Backend,
	)

	ctx := context.Background()

	// Token verification: JWKS-backed in production, a fixed dev owner
	// when no JWKS URL is configured
	var verifier auth.Verifier
	if cfg.JWKSURL != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		verifier = jwtVerifier
	} else {
		if cfg.Environment != "dev" {
			log.Fatalf("JWKS_URL is required outside dev")
		}
		logger.Warn("DEV MODE: static auth, every request acts as one owner", "owner_id", cfg.DevOwnerID)
		verifier = auth.NewStaticVerifier(cfg.DevOwnerID)
	}

	// Metadata store
	var (
		fileRepo   repositories.FileRepository
		folderRepo repositories.FolderRepository
		shareRepo  repositories.ShareLinkRepository
		quotaRepo  repositories.QuotaRepository
		txManager  repositories.TransactionManager
	)
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()
		logger.Info("database connected")

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		fileRepo = postgres.NewFileRepository(repoConfig)
		folderRepo = postgres.NewFolderRepository(repoConfig)
		shareRepo = postgres.NewShareLinkRepository(repoConfig)
		quotaRepo = postgres.NewQuotaRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool)
	case config.StoreMemory:
		logger.Warn("in-memory store: all metadata is lost on restart")
		fileRepo = memory.NewFileRepository()
		folderRepo = memory.NewFolderRepository()
		shareRepo = memory.NewShareLinkRepository()
		quotaRepo = memory.NewQuotaRepository()
		txManager = memory.NewTransactionManager()
	}

	// Payload backend
	var backend storage.Backend
	switch cfg.Storage.Backend {
	case config.BackendLocal:
		local, err := storage.NewLocal(cfg.Storage.LocalRoot)
		if err != nil {
			log.Fatalf("Failed to open local storage: %v", err)
		}
		backend = local
	case config.BackendS3:
		s3, err := storage.NewS3(ctx, cfg.Storage.S3)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		backend = s3
	}

	// Create services
	locks := service.NewOwnerLocker()
	indexer := search.NewNotifier(logger)
	quotaTracker := service.NewQuotaTracker(quotaRepo, cfg.QuotaBytes, logger)
	fileService := service.NewFileService(fileRepo, folderRepo, shareRepo, quotaTracker, backend, indexer, locks, txManager, logger)
	folderService := service.NewFolderService(folderRepo, fileRepo, shareRepo, quotaTracker, backend, indexer, locks, txManager, logger)
	shareService := service.NewShareLinkService(shareRepo, fileRepo, locks, logger)

	// Create handlers
	fileHandler := handler.NewFileHandler(fileService, quotaTracker, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	shareHandler := handler.NewShareLinkHandler(shareService, fileService, logger)
	usageHandler := handler.NewUsageHandler(quotaTracker, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", fileHandler.HealthCheck)

	// File routes
	mux.HandleFunc("POST /api/files", fileHandler.Upload)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.Get)
	mux.HandleFunc("GET /api/files/{id}/content", fileHandler.Download)
	mux.HandleFunc("PATCH /api/files/{id}", fileHandler.Update)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.Delete)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.Create)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.Get)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.Update)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.Delete)

	// Listing (absent parent_id = root level)
	mux.HandleFunc("GET /api/list", folderHandler.List)

	// Share link routes
	mux.HandleFunc("POST /api/shares", shareHandler.Issue)
	mux.HandleFunc("DELETE /api/shares/{id}", shareHandler.Revoke)
	mux.HandleFunc("GET /s/{token}", shareHandler.Resolve)

	// Quota
	mux.HandleFunc("GET /api/usage", usageHandler.Get)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	public := func(r *http.Request) bool {
		return r.URL.Path == "/health" || strings.HasPrefix(r.URL.Path, "/s/")
	}
	root = middleware.Auth(verifier, public)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  60 * time.Second, // uploads can be slow
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
