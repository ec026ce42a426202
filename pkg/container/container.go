package container

import (
	"context"
	"fmt"
	"log"

	"ecowaste-backend/internal/config"
	"ecowaste-backend/internal/infrastructure/cache"
	"ecowaste-backend/internal/infrastructure/database"

	"ecowaste-backend/internal/domains/dustbin"
	dustbinHandler "ecowaste-backend/internal/domains/dustbin/handler"
	dustbinRepo "ecowaste-backend/internal/domains/dustbin/repository"
	dustbinService "ecowaste-backend/internal/domains/dustbin/service"

	"ecowaste-backend/internal/domains/incident"
	incidentHandler "ecowaste-backend/internal/domains/incident/handler"
	incidentRepo "ecowaste-backend/internal/domains/incident/repository"
	incidentService "ecowaste-backend/internal/domains/incident/service"

	"ecowaste-backend/internal/domains/report"
	reportHandler "ecowaste-backend/internal/domains/report/handler"
	reportRepo "ecowaste-backend/internal/domains/report/repository"
	reportService "ecowaste-backend/internal/domains/report/service"

	"ecowaste-backend/internal/domains/rewards"
	rewardsHandler "ecowaste-backend/internal/domains/rewards/handler"
	rewardsRepo "ecowaste-backend/internal/domains/rewards/repository"
	rewardsService "ecowaste-backend/internal/domains/rewards/service"

	"ecowaste-backend/internal/domains/user"
	userHandler "ecowaste-backend/internal/domains/user/handler"
	userRepo "ecowaste-backend/internal/domains/user/repository"
	userService "ecowaste-backend/internal/domains/user/service"

	"ecowaste-backend/pkg/jwt"
)

// Container wires configuration, infrastructure, repositories, services
// and handlers together. Build order matters: config -> infrastructure
// -> repositories -> services -> handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *database.PostgresDB
	Cache      *cache.RedisCache
	JWTManager *jwt.Manager

	// Repositories
	UserRepo     user.Repository
	DustbinRepo  dustbin.Repository
	ReportRepo   report.Repository
	IncidentRepo incident.Repository
	RewardsRepo  rewards.Repository

	// Services
	UserService     user.Service
	DustbinService  dustbin.Service
	ReportService   report.Service
	IncidentService incident.Service
	RewardsService  rewards.Service

	// Handlers
	UserHandler     *userHandler.UserHandler
	DustbinHandler  *dustbinHandler.DustbinHandler
	ReportHandler   *reportHandler.ReportHandler
	IncidentHandler *incidentHandler.IncidentHandler
	RewardsHandler  *rewardsHandler.RewardsHandler
}

// NewContainer builds the full dependency graph for the API process
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	// ========================================
	// 1. CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	// ========================================
	// 2. INFRASTRUCTURE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	c.DB = database.NewPostgresDB(dbConfig)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	c.Cache = cache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Connect(ctx); err != nil {
		c.DB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// ========================================
	// 3. REPOSITORIES
	// ========================================
	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.DustbinRepo = dustbinRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.ReportRepo = reportRepo.NewPostgresRepository(c.DB.Pool)
	c.IncidentRepo = incidentRepo.NewPostgresRepository(c.DB.Pool)
	c.RewardsRepo = rewardsRepo.NewPostgresRepository(c.DB.Pool)

	// ========================================
	// 4. SERVICES
	// ========================================
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.DustbinService = dustbinService.NewDustbinService(c.DustbinRepo)
	c.ReportService = reportService.NewReportService(
		c.ReportRepo,
		c.DustbinRepo,
		c.UserRepo,
		c.Cache,
		int64(cfg.Rewards.PointsPerKg),
	)
	c.IncidentService = incidentService.NewIncidentService(c.IncidentRepo, c.Cache)
	c.RewardsService = rewardsService.NewRewardsService(
		c.RewardsRepo,
		c.Cache,
		int64(cfg.Rewards.PointsPerRupee),
	)

	// ========================================
	// 5. HANDLERS
	// ========================================
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.DustbinHandler = dustbinHandler.NewDustbinHandler(c.DustbinService)
	c.ReportHandler = reportHandler.NewReportHandler(c.ReportService)
	c.IncidentHandler = incidentHandler.NewIncidentHandler(c.IncidentService)
	c.RewardsHandler = rewardsHandler.NewRewardsHandler(c.RewardsService)

	log.Println("[CONTAINER] Dependency graph initialized")

	return c, nil
}

// Cleanup releases infrastructure resources in reverse build order
func (c *Container) Cleanup() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Printf("[CONTAINER] Redis close error: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Println("[CONTAINER] Cleanup complete")
}
