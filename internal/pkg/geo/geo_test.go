package geo

import (
	"math"
	"testing"
)

func TestHaversineMeters(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", -6.2, 106.8, -6.2, 106.8, 0, 0.001},
		// Monas to Bundaran HI, roughly 2 km
		{"across central Jakarta", -6.1754, 106.8272, -6.1934, 106.8230, 2055, 150},
		// One degree of latitude is about 111.19 km
		{"one degree of latitude", 0, 0, 1, 0, 111195, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineMeters() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestFenceWithin(t *testing.T) {
	fence := Fence{CenterLat: -6.2, CenterLng: 106.8, RadiusMeters: 100}

	if !fence.Within(-6.2, 106.8) {
		t.Error("center should be within the fence")
	}

	// About 55 meters north of center
	if !fence.Within(-6.1995, 106.8) {
		t.Error("point inside the radius should be within the fence")
	}

	// About 555 meters north of center
	if fence.Within(-6.195, 106.8) {
		t.Error("point outside the radius should not be within the fence")
	}
}

func TestFenceBoundaryInclusive(t *testing.T) {
	fence := Fence{CenterLat: 0, CenterLng: 0, RadiusMeters: 0}
	if !fence.Within(0, 0) {
		t.Error("a point at exactly the radius distance should be within the fence")
	}

	// Pin the radius to the measured distance so the point sits exactly on
	// the boundary.
	d := fence.Distance(0.001, 0)
	fence.RadiusMeters = d
	if !fence.Within(0.001, 0) {
		t.Error("boundary point should be within the fence")
	}
}
