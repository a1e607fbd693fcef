package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	"portfolio-backend/internal/delivery/http/middleware"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/store"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/blob"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/messaging"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/security/antivirus"
	"portfolio-backend/pkg/session"
	"portfolio-backend/pkg/validation"
)

// @title           Portfolio Backend API
// @version         1.0
// @description     Content stores, uploads, admin session and contact relays for a personal portfolio site.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	environment := "development"
	if cfg.IsProduction() {
		environment = "production"
	}
	secLog := security.InitSecurityLogger("portfolio-backend", environment)
	defer func() { _ = secLog.Sync() }()
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "storage", cfg.StorageDriver)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Setup Redis (optional)
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, falling back to in-process counters", "error", err)
		}
	}
	defer redis.Close()
	redisClient := redis.Client()

	// 4. Setup Storage and Content Stores
	storage, err := repository.Open(ctx, cfg, redisClient)
	if err != nil {
		logger.Log.Error("Failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	defaults, err := store.LoadDefaultsFile(cfg.ContentDefaultsFile)
	if err != nil {
		logger.Log.Error("Failed to load content defaults", "error", err)
		os.Exit(1)
	}
	catalog, err := store.OpenCatalog(ctx, storage, defaults, store.WithLogger(logger.Log))
	if err != nil {
		logger.Log.Error("Failed to load content stores", "error", err)
		os.Exit(1)
	}

	if storage.Watch != nil {
		go func() {
			err := storage.Watch(ctx, logger.Log, func(key string) {
				if err := catalog.Reload(ctx, key); err != nil {
					logger.Log.Warn("Reload after external change failed", "key", key, "error", err)
				}
			})
			if err != nil {
				logger.Log.Error("Storage watcher stopped", "error", err)
			}
		}()
	}

	// 5. Setup Upload Backend
	var blobs domain.BlobStore
	optionalDeps := map[string]usecase.Pinger{}
	switch cfg.UploadBackend {
	case "s3":
		s3Store, err := blob.NewS3Store(ctx, blob.S3Config{
			Provider:        blob.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			logger.Log.Error("Failed to setup S3 upload backend", "error", err)
			os.Exit(1)
		}
		blobs = s3Store
		optionalDeps["s3"] = s3Store
	default:
		local, err := blob.NewLocalStore(cfg.UploadDir, cfg.UploadPublicPath)
		if err != nil {
			logger.Log.Error("Failed to setup local upload backend", "error", err)
			os.Exit(1)
		}
		blobs = local
	}

	var scanner antivirus.Scanner
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAVScanner(cfg.ClamAVAddress, 30*time.Second)
		scanner = clam
		optionalDeps["clamav"] = usecase.PingFunc(func(ctx context.Context) error {
			if !clam.Available(ctx) {
				return errors.New("clamd did not answer PING")
			}
			return nil
		})
	}
	if redisClient != nil {
		optionalDeps["redis"] = usecase.PingFunc(redis.HealthCheck)
	}

	// 6. Setup Relays
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact, booking and newsletter will be unavailable")
	}
	whatsApp := messaging.NewWhatsAppClient(cfg)

	// 7. Setup Session Guard
	var codec session.Codec = session.NewLegacyCodec()
	if cfg.SessionSecret != "" {
		signed, err := session.NewSignedCodec(cfg.SessionSecret)
		if err != nil {
			logger.Log.Error("Invalid SESSION_SECRET", "error", err)
			os.Exit(1)
		}
		codec = signed
	} else {
		logger.Log.Warn("SESSION_SECRET not set - admin session cookies are unsigned and can be forged")
	}
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
	}, redisClient, secLog)

	// 8. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(auth.NewCredentials(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPasswordHash), tracker, codec, cfg.SessionTTL)
	contentUCs := usecase.NewContentUsecases(catalog, validate)
	uploadUC := usecase.NewUploadUsecase(blobs, scanner, secLog)
	relayUC := usecase.NewRelayUsecase(emailService, whatsApp)
	exportUC := usecase.NewExportUsecase(catalog)
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Pinger{"storage": storage}, optionalDeps)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		Content:        contentUCs,
		UploadUC:       uploadUC,
		RelayUC:        relayUC,
		ExportUC:       exportUC,
		HealthUC:       healthUC,
		Feed:           catalog,
		RateLimiter:    middleware.NewRateLimiter(redisClient, secLog),
		SecurityLogger: secLog,
		Config:         cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Cancelled on shutdown so SSE streams and the watcher end
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
