package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mystery-tiles/config"
	"mystery-tiles/handlers"
	"mystery-tiles/middleware"
	"mystery-tiles/repository"
	"mystery-tiles/services"
	"mystery-tiles/utils"
	"mystery-tiles/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		log.Fatal("failed to initialize storage backend:", err)
	}

	store, err := repository.Open(ctx, backend)
	if err != nil {
		log.Fatal("failed to load game state:", err)
	}

	// Every goroutine that can panic past a handler flushes through guard first.
	guard := workers.PanicGuard{Store: store, Timeout: cfg.ShutdownTimeout}
	defer guard.Recover("main")

	verifier, err := newVerifier(cfg)
	if err != nil {
		log.Fatal("failed to initialize identity verifier:", err)
	}

	sessions := services.NewSessionRegistry()
	gateway := services.NewGateway()
	arbiter := services.NewArbiter(store, sessions, services.NewAttemptTable(), cfg.StaminaCost)

	gameService := services.NewGameService(services.GameDeps{
		Store:         store,
		Authenticator: services.NewAuthenticator(verifier, cfg.AllowedEmailSuffix),
		Sessions:      sessions,
		Arbiter:       arbiter,
		Gateway:       gateway,
		Messages:      services.NewMessages(cfg.Locale),
	}, services.GameConfig{
		MaxStamina:          cfg.MaxStamina,
		StaminaRecoveryRate: cfg.StaminaRecoveryRate,
		RecoveryInterval:    cfg.StaminaRecoveryInterval,
		SpawnListCap:        cfg.SpawnListCap,
		NotificationTTL:     cfg.NotificationTTL,
	})

	staminaService := services.NewStaminaService(store, sessions, gateway, cfg.MaxStamina, cfg.StaminaRecoveryRate)
	sched, err := staminaService.StartRecoveryScheduler(cfg.StaminaRecoveryInterval)
	if err != nil {
		log.Fatal("failed to start stamina scheduler:", err)
	}

	go func() {
		defer guard.Recover("flush worker")
		workers.RunFlushWorker(ctx, store, cfg.FlushInterval)
	}()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(middleware.RecoverMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
	app.Use(middleware.RequestLogMiddleware())

	handlers.SetupGameRoutes(app, gameService, store, handlers.RouteConfig{
		AdminToken:   cfg.AdminToken,
		WSReadLimit:  cfg.WSReadLimitBytes,
		FlushTimeout: cfg.ShutdownTimeout,
		OnFault:      guard.Fault,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Storage backend: %s", backend.Name())
	log.Printf("✅ Snapshot flush every %s", cfg.FlushInterval)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := sched.Shutdown(); err != nil {
		log.Printf("⚠️ Stamina scheduler shutdown: %v", err)
	}
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	finalFlush(store, cfg)
	log.Println("✅ Shutdown complete")
}

func finalFlush(store *repository.Store, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if !workers.FlushOnce(ctx, store) {
		log.Println("❌ Final flush failed, unsaved changes are lost")
	}
}

func newBackend(ctx context.Context, cfg *config.Config) (repository.Backend, error) {
	switch strings.ToLower(cfg.StorageBackend) {
	case config.StorageFile:
		return repository.NewFileBackend(cfg.DataFile), nil
	case config.StorageR2:
		client, err := utils.NewR2Client(ctx, utils.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
		})
		if err != nil {
			return nil, err
		}
		return repository.NewR2Backend(client, cfg.R2Bucket, cfg.EventName), nil
	case config.StoragePostgres:
		db, err := repository.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresBackend(db, cfg.EventName), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newVerifier(cfg *config.Config) (services.IdentityVerifier, error) {
	switch strings.ToLower(cfg.IdentityBackend) {
	case config.IdentityService:
		return services.NewAuthServiceClient(cfg.AuthServiceURL, cfg.AuthServiceToken), nil
	case config.IdentityJWT:
		return services.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer), nil
	default:
		return nil, fmt.Errorf("unknown identity backend %q", cfg.IdentityBackend)
	}
}
