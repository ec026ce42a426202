package incident

import "errors"

var (
	ErrIncidentNotFound    = errors.New("incident not found")
	ErrIncidentNotResolved = errors.New("incident is not resolved")
	ErrAlreadyRewarded     = errors.New("incident has already been rewarded")
	ErrReporterMissing     = errors.New("incident has no reporter to reward")
	ErrTerminalStatus      = errors.New("incident status can no longer change")
)
