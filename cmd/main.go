package main

import (
	"github.com/Abbaskay/watch-sense/internal/handler"
	"github.com/Abbaskay/watch-sense/internal/mailer"
	"github.com/Abbaskay/watch-sense/internal/middleware"
	"github.com/Abbaskay/watch-sense/internal/rules"
	"github.com/Abbaskay/watch-sense/pkg/config"
	"github.com/Abbaskay/watch-sense/pkg/database"
	"github.com/Abbaskay/watch-sense/pkg/jwtutil"
	"github.com/Abbaskay/watch-sense/pkg/logger"
	"github.com/Abbaskay/watch-sense/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting watch-sense service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Ensure the demo tenant and admin user exist
	if err := database.EnsureDefaults(database.GetDB()); err != nil {
		log.Fatal("Failed to bootstrap default tenant", zap.Error(err))
	}
	log.Info("Default tenant verified")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize outbound mail. An empty MAIL_USERNAME leaves mail
	// unconfigured and birthday sends stay mock.
	smtpMailer, err := mailer.New(&cfg.Mail)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}
	if smtpMailer.Configured() {
		log.Info("Outbound mail configured", zap.String("host", cfg.Mail.Host))
	} else {
		log.Info("Outbound mail not configured, birthday sends will be mocked")
	}

	// Wire the rule engine into the event handlers
	handler.SetRuleEngine(rules.NewEngine(database.GetDB(), smtpMailer, log))

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes, login rate-limited per IP
	loginLimiter := echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(rate.Limit(5)))
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login, loginLimiter)
	auth.POST("/register", handler.Register)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.GET("/dashboard", handler.GetDashboard)

	customers := api.Group("/customers")
	customers.GET("", handler.ListCustomers)
	customers.POST("", handler.CreateCustomer)
	customers.GET("/:id", handler.GetCustomer)

	watches := api.Group("/watches")
	watches.GET("", handler.ListWatches)
	watches.POST("", handler.CreateWatch)

	templates := api.Group("/templates")
	templates.GET("", handler.ListTemplates)
	templates.POST("", handler.CreateTemplate)
	templates.PUT("/:id", handler.UpdateTemplate)

	api.GET("/rules", handler.ListRules)
	api.POST("/events/run", handler.RunRules)

	reports := api.Group("/reports")
	reports.GET("", handler.ListMessageLogs)
	reports.GET("/download", handler.DownloadReport)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
