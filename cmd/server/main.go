package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/cache"
	"laynie-fae-storefront/internal/cart"
	"laynie-fae-storefront/internal/config"
	"laynie-fae-storefront/internal/consultation"
	"laynie-fae-storefront/internal/database"
	"laynie-fae-storefront/internal/handlers"
	"laynie-fae-storefront/internal/middleware"
	"laynie-fae-storefront/internal/repositories"
	"laynie-fae-storefront/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database connection established")

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Create session store for the cart and consultation wizard
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	// Catalog cache: Redis when enabled, otherwise pass-through
	var catalogCache cache.Cache = cache.Noop{}
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			catalogCache = redisCache
			logger.Info("redis catalog cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// Initialize repositories
	productRepo := repositories.NewProductRepository(db.DB)
	categoryRepo := repositories.NewCategoryRepository(db.DB)
	customerRepo := repositories.NewCustomerRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)
	giftCardRepo := repositories.NewGiftCardRepository(db.DB)
	consultationRepo := repositories.NewConsultationRepository(db.DB)

	// Payment service: Square when configured, mock otherwise
	var paymentService services.PaymentService
	if cfg.Square.AccessToken != "" {
		paymentService = services.NewSquareService(services.SquareConfig{
			AccessToken: cfg.Square.AccessToken,
			LocationID:  cfg.Square.LocationID,
			Environment: cfg.Square.Environment,
		})
		logger.Info("square payments enabled", zap.String("environment", cfg.Square.Environment))
	} else {
		paymentService = services.NewMockPaymentService()
		logger.Warn("square not configured, using mock payment service")
	}

	// Email service: Resend when configured, log-only otherwise
	var emailService services.EmailService
	if cfg.Resend.APIKey != "" {
		emailService = services.NewResendEmailService(services.ResendConfig{
			APIKey:     cfg.Resend.APIKey,
			FromEmail:  cfg.Resend.FromEmail,
			FromName:   cfg.Resend.FromName,
			OwnerEmail: cfg.Resend.OwnerEmail,
		})
	} else {
		emailService = services.NewMockEmailService(logger)
		logger.Warn("resend not configured, using mock email service")
	}

	// Storage and image processing
	storageService := services.NewStorageService(cfg.R2, logger)
	imageService := services.NewImageService(storageService)

	// Initialize services
	productService := services.NewProductService(productRepo, catalogCache, logger)
	customerService := services.NewCustomerService(customerRepo, orderRepo, emailService, cfg.Admin.JWTSecret, logger)
	orderService := services.NewOrderService(orderRepo, productRepo, paymentService, emailService, logger)
	giftCardService := services.NewGiftCardService(giftCardRepo, paymentService, emailService, logger)

	// Session-backed stores
	cartSessions := cart.NewSessionStore(sessionStore, cfg.Session.Name, logger)
	wizardSessions := consultation.NewSessionStore(sessionStore, cfg.Session.Name, logger)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService, categoryRepo, logger)
	cartHandler := handlers.NewCartHandler(cartSessions, productService, logger)
	checkoutHandler := handlers.NewCheckoutHandler(cartSessions, orderService, logger)
	customerHandler := handlers.NewCustomerHandler(customerService, logger)
	consultationHandler := handlers.NewConsultationHandler(wizardSessions, consultationRepo, imageService, emailService, logger)
	giftCardHandler := handlers.NewGiftCardHandler(giftCardService, logger)
	adminHandler := handlers.NewAdminHandler(cfg.Admin, productService, categoryRepo, orderService, giftCardService, consultationRepo, imageService, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigin))

	r.Route("/api", func(r chi.Router) {
		productHandler.Routes(r)
		cartHandler.Routes(r)
		consultationHandler.Routes(r)
		giftCardHandler.Routes(r)
		customerHandler.PublicRoutes(r)
		adminHandler.PublicRoutes(r)

		// Checkout works for guests; a bearer token attaches the order
		// to the customer's account.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalCustomerAuth(customerService))
			checkoutHandler.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CustomerAuth(customerService))
			customerHandler.AuthedRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.Admin.JWTSecret))
			adminHandler.AuthedRoutes(r)
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
