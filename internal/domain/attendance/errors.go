package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Check-in/out window errors
	ErrOutsideHours = errors.New("attendance action attempted outside the allowed hours")

	// Session state errors
	ErrAlreadyActive = errors.New("an open session already exists for today")
	ErrNoRecord      = errors.New("no attendance record exists for today")
	ErrNoOpenSession = errors.New("no open session to check out of")

	// Mobile submission errors
	ErrBiometricRequired = errors.New("biometric verification is required for mobile submissions")
	ErrLocationRequired  = errors.New("location payload is required for mobile submissions")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)

// OutsideGeofenceError reports a mobile submission outside the configured
// radius, carrying the measured distance for the caller.
type OutsideGeofenceError struct {
	DistanceMeters float64
}

func (e *OutsideGeofenceError) Error() string {
	return fmt.Sprintf("location is outside the allowed radius (%.0f m from center)", e.DistanceMeters)
}
