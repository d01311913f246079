package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/studiofit/attendance-backend-go/internal/domain/attendance"
	"github.com/studiofit/attendance-backend-go/internal/domain/classsession"
	"github.com/studiofit/attendance-backend-go/internal/domain/organization"
	"github.com/studiofit/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence rejections carry the measured distance for the client
	var geofenceErr *attendance.OutsideGeofenceError
	if errors.As(err, &geofenceErr) {
		Error(w, http.StatusForbidden, "OUTSIDE_GEOFENCE", geofenceErr.Error(), map[string]string{
			"distance_meters": fmt.Sprintf("%.1f", geofenceErr.DistanceMeters),
		})
		return
	}

	// Attendance domain errors
	switch {
	case errors.Is(err, attendance.ErrOutsideHours):
		Error(w, http.StatusUnprocessableEntity, "OUTSIDE_HOURS", err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyActive):
		Error(w, http.StatusConflict, "ALREADY_ACTIVE", err.Error(), nil)
	case errors.Is(err, attendance.ErrNoRecord):
		Error(w, http.StatusNotFound, "NO_RECORD", err.Error(), nil)
	case errors.Is(err, attendance.ErrNoOpenSession):
		Error(w, http.StatusConflict, "NO_OPEN_SESSION", err.Error(), nil)
	case errors.Is(err, attendance.ErrBiometricRequired):
		Error(w, http.StatusForbidden, "BIOMETRIC_REQUIRED", err.Error(), nil)
	case errors.Is(err, attendance.ErrLocationRequired):
		Error(w, http.StatusUnprocessableEntity, "LOCATION_REQUIRED", err.Error(), nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Class session domain errors
	case errors.Is(err, classsession.ErrWorkSessionRequired):
		Error(w, http.StatusConflict, "WORK_SESSION_REQUIRED", err.Error(), nil)
	case errors.Is(err, classsession.ErrNotAssigned):
		Error(w, http.StatusForbidden, "NOT_ASSIGNED", err.Error(), nil)
	case errors.Is(err, classsession.ErrClassSessionActive):
		Error(w, http.StatusConflict, "CLASS_SESSION_ACTIVE", err.Error(), nil)
	case errors.Is(err, classsession.ErrAlreadyClosed):
		Error(w, http.StatusConflict, "ALREADY_CLOSED", err.Error(), nil)
	case errors.Is(err, classsession.ErrClassNotFound):
		NotFound(w, "Class not found")
	case errors.Is(err, classsession.ErrRecordNotFound):
		NotFound(w, "Class session not found")

	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
