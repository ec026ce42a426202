package dustbin

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateDustbinRequest - employee registers a new bin on the map
type CreateDustbinRequest struct {
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	CapacityLiters int     `json:"capacity_liters"`
	PhotoBase64    string  `json:"photo_base64"`
}

func (r CreateDustbinRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&r.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&r.CapacityLiters, validation.Required, validation.Min(1)),
	)
}

// UpdateDustbinRequest - employee updates fill level and/or status.
// Pointers distinguish "not provided" from zero values.
type UpdateDustbinRequest struct {
	FillLevel *int    `json:"fill_level"`
	Status    *string `json:"status"`
}

func (r UpdateDustbinRequest) Validate() error {
	if r.FillLevel == nil && r.Status == nil {
		return validation.NewError("validation_empty_update", "at least one of fill_level or status is required")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.FillLevel, validation.Min(0), validation.Max(100)),
		validation.Field(&r.Status, validation.In(ValidStatuses...)),
	)
}

// ListFilter - optional query filters for listing dustbins
type ListFilter struct {
	Status string
}
