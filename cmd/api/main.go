package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/inkgenius/inkgenius-backend/internal/checkout"
	"github.com/inkgenius/inkgenius-backend/internal/config"
	"github.com/inkgenius/inkgenius-backend/internal/controller"
	"github.com/inkgenius/inkgenius-backend/internal/handler"
	"github.com/inkgenius/inkgenius-backend/internal/middleware"
	"github.com/inkgenius/inkgenius-backend/internal/repository"
	"github.com/inkgenius/inkgenius-backend/internal/service"
	"github.com/inkgenius/inkgenius-backend/pkg/database"
	"github.com/inkgenius/inkgenius-backend/pkg/email"
	"github.com/inkgenius/inkgenius-backend/pkg/imagegen"
	"github.com/inkgenius/inkgenius-backend/pkg/logger"
	"github.com/inkgenius/inkgenius-backend/pkg/payment"
	"github.com/inkgenius/inkgenius-backend/pkg/storage"
	"github.com/inkgenius/inkgenius-backend/pkg/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	zapLogger, err := logger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	cfg := config.LoadConfig()

	// Initialize database
	db, err := database.NewDatabase()
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		zapLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	purchaseRepo := repository.NewCreditPurchaseRepository(db)
	creditsRepo := repository.NewUserCreditsRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)
	generationRepo := repository.NewGenerationRepository(db)

	// Storage
	r2Storage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		zapLogger.Fatal("failed to initialize R2 storage", zap.Error(err))
	}

	// Email service
	emailService := email.NewEmailService(zapLogger)

	// Stripe service
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey)

	// Image generation collaborator
	imageClient := imagegen.NewClient(cfg.ImageGen.BaseURL, cfg.ImageGen.Timeout)

	// Checkout flow tracker; janitor süresi dolan oturumları failed'a çeker
	tracker := checkout.NewTracker(cfg.CheckoutTTL, zapLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tracker.StartJanitor(ctx, time.Minute)

	// Services
	authService := service.NewAuthService(userRepo, creditsRepo, emailService)
	userService := service.NewUserService(userRepo)
	packageService := service.NewPackageService()
	creditsService := service.NewCreditsService(creditsRepo)
	paymentService := service.NewPaymentService(
		stripeService,
		purchaseRepo,
		creditsRepo,
		webhookRepo,
		tracker,
		emailService,
		zapLogger,
	)
	generationService := service.NewGenerationService(
		imageClient,
		r2Storage,
		creditsRepo,
		generationRepo,
		zapLogger,
	)

	// Validator
	validator := utils.NewValidator()

	// Controllers
	paymentController := controller.NewPaymentController(paymentService)
	creditsController := controller.NewCreditsController(creditsService)
	generationController := controller.NewGenerationController(generationService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	userHandler := handler.NewUserHandler(userService, validator)
	paymentHandler := handler.NewPaymentHandler(paymentController, validator, zapLogger)
	creditsHandler := handler.NewCreditsHandler(creditsController)
	generationHandler := handler.NewGenerationHandler(generationController, validator)
	creditPackageHandler := handler.NewCreditPackageHandler(packageService)

	// Router
	app := fiber.New()

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-email", authHandler.VerifyEmail)

	// Stripe webhook (public)
	api.Post("/payment/webhook", paymentHandler.HandleStripeWebhook)

	// Public routes (auth middleware'den ÖNCE olmalı)
	api.Get("/payment/packages", paymentHandler.GetCreditPackages)
	api.Get("/credits/by-email/:email", creditsHandler.GetBalanceByEmail)

	// Protected routes
	api.Use(middleware.AuthMiddleware(zapLogger))

	user := api.Group("/user")
	user.Get("/profile", userHandler.GetMyProfile)
	user.Put("/profile", userHandler.UpdateProfile)

	payments := api.Group("/payment")
	payments.Post("/create", paymentHandler.CreateCheckoutSession)
	payments.Post("/confirm/:sessionId", paymentHandler.ConfirmCheckout)
	payments.Post("/problem/:sessionId", paymentHandler.ReportProblem)
	payments.Post("/retry/:sessionId", paymentHandler.RetryCheckout)
	payments.Get("/history", paymentHandler.GetPurchaseHistory)

	packages := api.Group("/packages")
	packages.Get("/", creditPackageHandler.GetAllPackages)
	packages.Get("/:id", creditPackageHandler.GetPackageByID)

	api.Post("/generate", generationHandler.Generate)
	api.Get("/generations", generationHandler.GetMyGenerations)

	zapLogger.Info("starting api", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
