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

	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/config"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/database"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/di"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/events"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/logger"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/middleware"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/redis"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info(fmt.Sprintf("Starting %s...", cfg.App.Name))

	ctx := context.Background()

	// Initialize OpenTelemetry
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", cfg.Database.MinConns, cfg.Database.MaxConns))

	// Redis is optional; without it rate limiting runs in-process
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: 1 * time.Second,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
		}
		defer redisClient.Close()
		appLog.Info("Redis connected")
	}

	// Kafka is optional; without it domain events are dropped
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		publisher, err = events.NewKafkaPublisher(ctx, &events.PublisherConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.Topic,
			ClientID: cfg.Kafka.ClientID,
			Source:   cfg.App.Name,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Kafka connection failed: %v", err))
		}
		appLog.Info(fmt.Sprintf("Kafka connected (topic: %s)", cfg.Kafka.Topic))
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Config:    cfg,
		DB:        db,
		Redis:     redisClient,
		Publisher: publisher,
	})
	defer container.Close()

	router := setupRouter(cfg, container)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		appLog.Info(fmt.Sprintf("%s listening on %s", cfg.App.Name, addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, c *di.Container) *gin.Engine {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Get()))
	router.Use(middleware.CORS())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}

	// The gate classifies every path: headers on all non-excluded
	// responses, session + role enforcement on protected prefixes
	router.Use(c.Gate.Handler(cfg.Auth.SessionCookieName))

	// Probes stay outside the gate
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	// Public staff authentication
	router.POST("/login", c.AuthHandler.Login)
	router.POST("/logout", c.AuthHandler.Logout)

	// Customer self-service area; the session artifact is checked per
	// handler, not by the gate
	cliente := router.Group("/cliente/api")
	{
		cliente.POST("/login", c.CustomerHandler.Login)
		cliente.GET("/me", c.CustomerHandler.Me)
		cliente.GET("/contratos", c.CustomerHandler.Contracts)
		cliente.GET("/contratos/:id/parcelas", c.CustomerHandler.Installments)
	}

	// Seller area; the gate admits vendedor and admin roles
	vendedor := router.Group("/vendedor/api")
	{
		vendedor.GET("/me", c.AuthHandler.Me)
		vendedor.POST("/logout-all", c.AuthHandler.LogoutAll)
		vendedor.GET("/veiculos", c.VehicleHandler.List)
		vendedor.GET("/veiculos/disponiveis", c.VehicleHandler.ListAvailable)
		vendedor.GET("/clientes", c.ClientHandler.List)
		vendedor.POST("/clientes", c.ClientHandler.Create)
		vendedor.GET("/vendas", c.SaleHandler.List)
		vendedor.GET("/vendas/stats", c.SaleHandler.Stats)
		vendedor.POST("/vendas", c.SaleHandler.Create)
		vendedor.GET("/vendas/:id", c.SaleHandler.Get)
		vendedor.PUT("/vendas/:id", c.SaleHandler.Update)
	}

	// Admin area; the gate admits admin only
	admin := router.Group("/admin/api")
	{
		admin.GET("/me", c.AuthHandler.Me)
		admin.POST("/logout-all", c.AuthHandler.LogoutAll)
		admin.GET("/dashboard", c.DashboardHandler.Summary)

		admin.GET("/veiculos", c.VehicleHandler.List)
		admin.POST("/veiculos", c.VehicleHandler.Create)
		admin.GET("/veiculos/:id", c.VehicleHandler.Get)
		admin.PUT("/veiculos/:id", c.VehicleHandler.Update)
		admin.DELETE("/veiculos/:id", c.VehicleHandler.Delete)

		admin.GET("/clientes", c.ClientHandler.List)
		admin.POST("/clientes", c.ClientHandler.Create)
		admin.GET("/clientes/:id", c.ClientHandler.Get)
		admin.PUT("/clientes/:id", c.ClientHandler.Update)

		admin.GET("/vendas", c.SaleHandler.List)
		admin.GET("/vendas/stats", c.SaleHandler.Stats)
		admin.POST("/vendas", c.SaleHandler.Create)
		admin.GET("/vendas/:id", c.SaleHandler.Get)
		admin.PUT("/vendas/:id", c.SaleHandler.Update)

		admin.GET("/contratos", c.ContractHandler.List)
		admin.POST("/contratos", c.ContractHandler.Create)
		admin.GET("/contratos/:id", c.ContractHandler.Get)
		admin.PATCH("/contratos/:id/status", c.ContractHandler.UpdateStatus)
		admin.GET("/contratos/:id/parcelas", c.ContractHandler.Installments)
		admin.POST("/parcelas/:id/pagamento", c.ContractHandler.MarkInstallmentPaid)
	}

	return router
}
