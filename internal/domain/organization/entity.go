package organization

import (
	"time"

	"github.com/studiofit/attendance-backend-go/internal/pkg/geo"
)

// Geofence is the single per-organization location policy gating mobile
// submissions. One center, one radius; disabled organizations accept mobile
// submissions from anywhere.
type Geofence struct {
	CenterLat    float64
	CenterLng    float64
	RadiusMeters float64
	Enabled      bool
}

// Fence converts the settings row into the validator's fence type.
func (g Geofence) Fence() geo.Fence {
	return geo.Fence{CenterLat: g.CenterLat, CenterLng: g.CenterLng, RadiusMeters: g.RadiusMeters}
}

type Organization struct {
	ID        string
	Name      string
	Timezone  string
	Geofence  Geofence
	CreatedAt time.Time
	UpdatedAt time.Time
}
