package di

import (
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/config"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/database"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/events"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/handler"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/middleware"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/ratelimit"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/redis"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/repository"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
)

// Container holds all dependencies for the application
type Container struct {
	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Limiter   ratelimit.Limiter
	Publisher events.Publisher

	// Repositories
	ProfileRepo  repository.ProfileRepository
	SessionRepo  repository.SessionRepository
	ClientRepo   repository.ClientRepository
	VehicleRepo  repository.VehicleRepository
	SaleRepo     repository.SaleRepository
	ContractRepo repository.ContractRepository

	// Services
	AuthService     service.AuthService
	VehicleService  service.VehicleService
	ClientService   service.ClientService
	SaleService     service.SaleService
	ContractService service.ContractService

	// Middleware
	Gate *middleware.Gate

	// Handlers
	HealthHandler    *handler.HealthHandler
	AuthHandler      *handler.AuthHandler
	CustomerHandler  *handler.CustomerHandler
	VehicleHandler   *handler.VehicleHandler
	ClientHandler    *handler.ClientHandler
	SaleHandler      *handler.SaleHandler
	ContractHandler  *handler.ContractHandler
	DashboardHandler *handler.DashboardHandler
}

// ContainerConfig contains configuration for building the container.
// Redis and Publisher are optional; the container falls back to the
// in-process limiter and the no-op publisher.
type ContainerConfig struct {
	Config    *config.Config
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher events.Publisher
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Publisher: cfg.Publisher,
	}
	appCfg := cfg.Config

	if c.Publisher == nil {
		c.Publisher = events.NewNoOpPublisher()
	}

	// Rate limiting is shared across instances when Redis is available
	if c.Redis != nil {
		c.Limiter = ratelimit.NewRedisLimiter(ratelimit.RedisLimiterConfig{
			Client:      c.Redis,
			MaxAttempts: appCfg.Auth.RateLimitMax,
			Window:      appCfg.Auth.RateLimitWindow,
		})
	} else {
		c.Limiter = ratelimit.NewFixedWindowLimiter(ratelimit.FixedWindowConfig{
			MaxAttempts: appCfg.Auth.RateLimitMax,
			Window:      appCfg.Auth.RateLimitWindow,
		})
	}

	// Initialize repositories
	pool := c.DB.Pool()
	c.ProfileRepo = repository.NewPostgresProfileRepository(pool)
	c.SessionRepo = repository.NewPostgresSessionRepository(pool)
	c.ClientRepo = repository.NewPostgresClientRepository(pool)
	c.VehicleRepo = repository.NewPostgresVehicleRepository(pool)
	c.SaleRepo = repository.NewPostgresSaleRepository(pool)
	c.ContractRepo = repository.NewPostgresContractRepository(pool)

	// Initialize services
	c.AuthService = service.NewAuthService(
		c.ProfileRepo,
		c.SessionRepo,
		c.ClientRepo,
		c.Limiter,
		&service.AuthServiceConfig{
			JWTSecret:          appCfg.Auth.JWTSecret,
			AccessTokenTTL:     appCfg.Auth.AccessTokenTTL,
			SessionTTL:         appCfg.Auth.SessionTTL,
			CustomerSessionTTL: appCfg.Auth.CustomerSessionTTL,
			BcryptCost:         appCfg.Auth.BcryptCost,
		},
	)
	c.VehicleService = service.NewVehicleService(c.VehicleRepo)
	c.ClientService = service.NewClientService(c.ClientRepo)
	c.SaleService = service.NewSaleService(c.SaleRepo, c.VehicleRepo, c.ClientRepo, c.Publisher)
	c.ContractService = service.NewContractService(c.ContractRepo, c.VehicleRepo, c.ClientRepo, c.Publisher)

	// Initialize the edge gate
	c.Gate = middleware.NewGate(&appCfg.Gate, c.AuthService)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.AuthHandler = handler.NewAuthHandler(
		c.AuthService,
		appCfg.Auth.SessionCookieName,
		appCfg.Auth.SessionTTL,
		appCfg.IsProduction(),
	)
	c.CustomerHandler = handler.NewCustomerHandler(c.AuthService, c.ContractService)
	c.VehicleHandler = handler.NewVehicleHandler(c.VehicleService, c.AuthService)
	c.ClientHandler = handler.NewClientHandler(c.ClientService, c.AuthService)
	c.SaleHandler = handler.NewSaleHandler(c.SaleService, c.AuthService)
	c.ContractHandler = handler.NewContractHandler(c.ContractService, c.AuthService)
	c.DashboardHandler = handler.NewDashboardHandler(c.VehicleService, c.SaleService, c.ContractService, c.AuthService)

	return c
}

// Close releases resources owned by the container
func (c *Container) Close() {
	if l, ok := c.Limiter.(*ratelimit.FixedWindowLimiter); ok {
		l.Stop()
	}
	if c.Publisher != nil {
		c.Publisher.Close()
	}
}
