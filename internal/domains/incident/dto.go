package incident

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateIncidentRequest - any authenticated user reports an event
type CreateIncidentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Urgency     string   `json:"urgency"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (r CreateIncidentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Category, validation.Required),
		validation.Field(&r.Urgency, validation.Required, validation.In(ValidUrgencies...)),
		validation.Field(&r.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&r.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// UpdateStatusRequest - employee advances the incident lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(ValidStatuses...)),
	)
}

// AwardRequest - employee grants a one-time reward on a resolved incident
type AwardRequest struct {
	Points int64  `json:"points"`
	Note   string `json:"note"`
}

func (r AwardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Points, validation.Required.Error("points must be positive"),
			validation.Min(int64(1))),
	)
}

// ListFilter - optional query filters for listing incidents
type ListFilter struct {
	Status     string
	ReporterID *uuid.UUID
	Limit      int
	Offset     int
}
