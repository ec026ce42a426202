package dustbin

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the operational state of a dustbin
type Status string

const (
	StatusActive   Status = "active"
	StatusFull     Status = "full"
	StatusDamaged  Status = "damaged"
	StatusInactive Status = "inactive"
)

// ValidStatuses for request validation
var ValidStatuses = []interface{}{
	string(StatusActive), string(StatusFull), string(StatusDamaged), string(StatusInactive),
}

// MaxPhotoHistory bounds the rolling photo history per dustbin
const MaxPhotoHistory = 20

// Dustbin entity - represents a physical waste container on the map
type Dustbin struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	CapacityLiters int       `json:"capacity_liters"`
	FillLevel      int       `json:"fill_level"` // 0-100
	Status         Status    `json:"status"`
	PhotoBase64    string    `json:"photo_base64,omitempty"`
	PhotoHistory   []string  `json:"photo_history,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PushPhoto archives the current photo into the bounded history and
// installs the new one. Oldest entries are evicted beyond MaxPhotoHistory.
func (d *Dustbin) PushPhoto(newPhoto string) {
	if d.PhotoBase64 != "" {
		d.PhotoHistory = append(d.PhotoHistory, d.PhotoBase64)
	}
	if len(d.PhotoHistory) > MaxPhotoHistory {
		d.PhotoHistory = d.PhotoHistory[len(d.PhotoHistory)-MaxPhotoHistory:]
	}
	d.PhotoBase64 = newPhoto
}

// Snapshot is the denormalized view embedded into reports at submission
// time, so the report stays meaningful even if the dustbin changes later.
type Snapshot struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// ToSnapshot builds the denormalized view
func (d *Dustbin) ToSnapshot() Snapshot {
	return Snapshot{
		ID:        d.ID,
		Name:      d.Name,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
	}
}
