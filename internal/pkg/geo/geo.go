package geo

import "math"

// Fence is a circular geofence: a center coordinate plus a radius in meters.
type Fence struct {
	CenterLat    float64
	CenterLng    float64
	RadiusMeters float64
}

// HaversineMeters menghitung jarak antara dua titik koordinat dalam Meter.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // Jari-jari bumi dalam Meter

	// Konversi ke Radian
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	// Rumus Haversine
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Distance returns the distance in meters from the fence center to the point.
func (f Fence) Distance(lat, lng float64) float64 {
	return HaversineMeters(lat, lng, f.CenterLat, f.CenterLng)
}

// Within reports whether the point lies inside the fence. A point exactly on
// the boundary is inside.
func (f Fence) Within(lat, lng float64) bool {
	return f.Distance(lat, lng) <= f.RadiusMeters
}
