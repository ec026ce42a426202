package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"ecowaste-backend/internal/config"
	reportJob "ecowaste-backend/internal/domains/report/job"
	reportRepo "ecowaste-backend/internal/domains/report/repository"
	rewardsJob "ecowaste-backend/internal/domains/rewards/job"
	rewardsRepo "ecowaste-backend/internal/domains/rewards/repository"
	"ecowaste-backend/internal/infrastructure/database"
	"ecowaste-backend/internal/infrastructure/queue"
	"ecowaste-backend/internal/shared"
	"ecowaste-backend/pkg/logger"
)

// The worker process owns the recurring jobs: the nightly ledger
// reconciliation and the stale pending-report sweep. It shares the
// database with the API but runs its own asynq server + scheduler.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[WORKER] No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[WORKER] Failed to load config: %v", err)
	}
	logger.Init(cfg.App.Environment)

	// ========================================
	// DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatalf("[WORKER] Failed to load database config: %v", err)
	}
	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		log.Fatalf("[WORKER] Failed to connect database: %v", err)
	}
	defer db.Close()

	// ========================================
	// ASYNQ SERVER
	// ========================================
	redisOpt := queue.NewRedisOpt(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			shared.QueueRewards: 2,
			shared.QueueReports: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(shared.TypeReconcileWithdrawnPoints,
		rewardsJob.NewReconcileHandler(rewardsRepo.NewPostgresRepository(db.Pool)))
	mux.Handle(shared.TypeFlagStaleReports,
		reportJob.NewStaleReportsHandler(reportRepo.NewPostgresRepository(db.Pool)))

	// ========================================
	// SCHEDULER
	// ========================================
	scheduler := queue.NewScheduler(redisOpt)
	if err := queue.RegisterSchedules(scheduler); err != nil {
		log.Fatalf("[WORKER] Failed to register schedules: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[WORKER] Scheduler error: %v", err)
		}
	}()

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[WORKER] Server error: %v", err)
		}
	}()

	logger.Info().Msg("worker started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	scheduler.Shutdown()
	srv.Shutdown()

	logger.Info().Msg("worker stopped")
}
