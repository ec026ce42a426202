package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"ecowaste-backend/internal/domains/rewards"
	"ecowaste-backend/internal/shared"
	"ecowaste-backend/pkg/logger"
)

// ReconcileHandler runs the nightly counter-vs-ledger audit
type ReconcileHandler struct {
	repo rewards.Repository
}

// NewReconcileHandler creates the job handler
func NewReconcileHandler(repo rewards.Repository) *ReconcileHandler {
	return &ReconcileHandler{repo: repo}
}

// ProcessTask handles shared.TypeReconcileWithdrawnPoints.
// The withdrawal path writes counter and ledger in one transaction, so
// any drift found here came from out-of-band writes. The job only logs;
// repair stays a human decision.
func (h *ReconcileHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal reconcile payload: %w", err)
	}

	limit := payload.Limit
	if limit <= 0 {
		limit = 1000
	}

	drifts, err := h.repo.WithdrawnDrift(ctx, limit)
	if err != nil {
		return fmt.Errorf("query withdrawn drift: %w", err)
	}

	if len(drifts) == 0 {
		logger.Info().Msg("withdrawn points reconciliation: no drift")
		return nil
	}

	for _, d := range drifts {
		logger.Error().
			Str("user_id", d.UserID.String()).
			Int64("counter", d.Counter).
			Int64("ledger_sum", d.LedgerSum).
			Msg("withdrawn points counter disagrees with ledger")
	}

	logger.Warn().
		Int("drift_count", len(drifts)).
		Msg("withdrawn points reconciliation finished with drift")

	return nil
}
