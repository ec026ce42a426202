package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ecowaste-backend/internal/domains/dustbin"
)

// Status is the report verification state.
// pending is the only non-terminal state: approved and rejected are final.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Report entity - one waste-collection submission by a collector
type Report struct {
	ID          uuid.UUID  `json:"id"`
	CollectorID uuid.UUID  `json:"collector_id"`
	DustbinID   *uuid.UUID `json:"dustbin_id,omitempty"`

	PickupImage   string  `json:"pickup_image,omitempty"`
	DisposalImage string  `json:"disposal_image,omitempty"`
	PickupLat     float64 `json:"pickup_lat"`
	PickupLng     float64 `json:"pickup_lng"`
	DisposalLat   float64 `json:"disposal_lat"`
	DisposalLng   float64 `json:"disposal_lng"`
	Description   string  `json:"description,omitempty"`

	Status        Status           `json:"status"`
	Points        int64            `json:"points"`
	WasteWeightKg *decimal.Decimal `json:"waste_weight_kg,omitempty"`

	// Best-effort enrichment computed at submission time when a dustbin
	// is referenced. The snapshot keeps the report meaningful even if
	// the dustbin is renamed or moved later.
	DisposalDistanceM *float64          `json:"disposal_distance_m,omitempty"`
	DustbinSnapshot   *dustbin.Snapshot `json:"dustbin_snapshot,omitempty"`

	VerifiedBy          *uuid.UUID `json:"verified_by,omitempty"`
	VerificationComment string     `json:"verification_comment,omitempty"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
