package report

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateReportRequest - collector submits a pickup/disposal pair
type CreateReportRequest struct {
	PickupImage   string  `json:"pickup_image"`
	DisposalImage string  `json:"disposal_image"`
	PickupLat     float64 `json:"pickup_lat"`
	PickupLng     float64 `json:"pickup_lng"`
	DisposalLat   float64 `json:"disposal_lat"`
	DisposalLng   float64 `json:"disposal_lng"`
	Description   string  `json:"description"`
	DustbinID     *string `json:"dustbin_id"`
}

func (r CreateReportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PickupImage, validation.Required),
		validation.Field(&r.DisposalImage, validation.Required),
		validation.Field(&r.PickupLat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&r.PickupLng, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&r.DisposalLat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&r.DisposalLng, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&r.DustbinID, validation.When(r.DustbinID != nil, validation.By(validUUID))),
	)
}

// VerifyReportRequest - employee approves or rejects a pending report.
// Approval must carry positive points; rejection ignores points.
type VerifyReportRequest struct {
	Status  string `json:"status"`
	Points  int64  `json:"points"`
	Comment string `json:"comment"`
}

func (r VerifyReportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required,
			validation.In(string(StatusApproved), string(StatusRejected))),
		validation.Field(&r.Points,
			validation.When(r.Status == string(StatusApproved),
				validation.Required.Error("points must be positive when approving"),
				validation.Min(int64(1)))),
	)
}

// ListFilter - optional query filters for listing reports
type ListFilter struct {
	Status      string
	CollectorID *uuid.UUID
	DustbinID   *uuid.UUID
	Limit       int
	Offset      int
}

func validUUID(value interface{}) error {
	s, _ := value.(*string)
	if s == nil {
		return nil
	}
	if _, err := uuid.Parse(*s); err != nil {
		return validation.NewError("validation_invalid_uuid", "must be a valid UUID")
	}
	return nil
}
