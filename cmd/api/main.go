package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admisia-go-api/internal/config"
	"github.com/noah-isme/admisia-go-api/internal/database"
	"github.com/noah-isme/admisia-go-api/internal/handler"
	"github.com/noah-isme/admisia-go-api/internal/middleware"
	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/repository"
	"github.com/noah-isme/admisia-go-api/internal/router"
	"github.com/noah-isme/admisia-go-api/internal/service"
	"github.com/noah-isme/admisia-go-api/pkg/letters"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Program{},
		&models.Application{},
		&models.FinancialOffer{},
		&models.Payment{},
		&models.Student{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, dashboard cache disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, notification events will not be published")
	}

	documents, err := letters.New(letters.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create letter generator: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	applicationRepo := repository.NewApplicationRepository(db)
	programRepo := repository.NewProgramRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	notifier := service.NewNotificationService(notificationRepo, natsConn, cfg.NATSSubject, logger)
	offerService := service.NewOfferService(offerRepo, applicationRepo, paymentRepo, documents, validate, logger)
	engine := service.NewAdmissionService(applicationRepo, offerRepo, studentRepo, auditRepo, offerService, documents, notifier, cfg.SideEffectTimeout, logger)
	applicationService := service.NewApplicationService(applicationRepo, programRepo, notificationRepo, validate, logger)
	paymentService := service.NewPaymentService(paymentRepo, offerRepo, applicationRepo, auditRepo, engine, validate, logger)
	adminService := service.NewAdminService(applicationRepo, auditRepo, redisClient, cfg.DashboardCacheTTL, logger)

	applicationHandler := handler.NewApplicationHandler(applicationService, engine, logger)
	admissionHandler := handler.NewAdmissionHandler(engine, offerService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ApplicationHandler: applicationHandler,
		AdmissionHandler:   admissionHandler,
		PaymentHandler:     paymentHandler,
		AdminHandler:       adminHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
