package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"ecowaste-backend/internal/shared"
	"ecowaste-backend/pkg/logger"
)

// NewRedisOpt builds the asynq Redis connection options
func NewRedisOpt(host, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     host,
		Password: password,
		DB:       db,
	}
}

// NewScheduler creates the cron-style scheduler. All schedules run in UTC.
func NewScheduler(redisOpt asynq.RedisClientOpt) *asynq.Scheduler {
	return asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				logger.Error().Err(err).Msg("failed to enqueue scheduled task")
				return
			}
			logger.Info().
				Str("task_type", info.Type).
				Str("queue", info.Queue).
				Msg("scheduled task enqueued")
		},
	})
}

// RegisterSchedules wires the recurring jobs onto the scheduler
func RegisterSchedules(s *asynq.Scheduler) error {
	// Nightly ledger audit at 02:00 UTC
	reconcilePayload, err := json.Marshal(shared.ReconcilePayload{Limit: 1000})
	if err != nil {
		return fmt.Errorf("marshal reconcile payload: %w", err)
	}
	if _, err := s.Register(
		"0 2 * * *",
		asynq.NewTask(shared.TypeReconcileWithdrawnPoints, reconcilePayload),
		asynq.Queue(shared.QueueRewards),
	); err != nil {
		return fmt.Errorf("register reconcile schedule: %w", err)
	}

	// Stale pending-report sweep at 03:00 UTC
	stalePayload, err := json.Marshal(shared.FlagStaleReportsPayload{OlderThanDays: 7})
	if err != nil {
		return fmt.Errorf("marshal stale reports payload: %w", err)
	}
	if _, err := s.Register(
		"0 3 * * *",
		asynq.NewTask(shared.TypeFlagStaleReports, stalePayload),
		asynq.Queue(shared.QueueReports),
	); err != nil {
		return fmt.Errorf("register stale reports schedule: %w", err)
	}

	return nil
}
