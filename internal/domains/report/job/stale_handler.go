package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"ecowaste-backend/internal/domains/report"
	"ecowaste-backend/internal/shared"
	"ecowaste-backend/pkg/logger"
)

// StaleReportsHandler surfaces reports stuck in pending so employees
// can follow up
type StaleReportsHandler struct {
	repo report.Repository
}

// NewStaleReportsHandler creates the job handler
func NewStaleReportsHandler(repo report.Repository) *StaleReportsHandler {
	return &StaleReportsHandler{repo: repo}
}

// ProcessTask handles shared.TypeFlagStaleReports
func (h *StaleReportsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.FlagStaleReportsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal stale reports payload: %w", err)
	}

	days := payload.OlderThanDays
	if days <= 0 {
		days = 7
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	stale, err := h.repo.ListStalePending(ctx, cutoff, 500)
	if err != nil {
		return fmt.Errorf("list stale reports: %w", err)
	}

	for _, rp := range stale {
		logger.Warn().
			Str("report_id", rp.ID.String()).
			Str("collector_id", rp.CollectorID.String()).
			Time("submitted_at", rp.CreatedAt).
			Msg("report pending beyond follow-up window")
	}

	logger.Info().
		Int("stale_count", len(stale)).
		Int("older_than_days", days).
		Msg("stale report sweep finished")

	return nil
}
