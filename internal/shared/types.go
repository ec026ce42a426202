package shared

// Asynq task types
const (
	TypeReconcileWithdrawnPoints = "rewards:reconcile_withdrawn_points"
	TypeFlagStaleReports         = "reports:flag_stale"
)

// Asynq queues
const (
	QueueRewards = "rewards"
	QueueReports = "reports"
)

// ReconcilePayload is the payload for the withdrawn-points reconciliation job
type ReconcilePayload struct {
	// Limit caps how many users are checked per run; 0 means all
	Limit int `json:"limit,omitempty"`
}

// FlagStaleReportsPayload is the payload for the stale-report sweep
type FlagStaleReportsPayload struct {
	// OlderThanDays flags reports pending longer than this many days
	OlderThanDays int `json:"older_than_days,omitempty"`
}
