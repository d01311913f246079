package attendance

import (
	"time"

	"github.com/studiofit/attendance-backend-go/internal/pkg/validator"
)

// Source identifies the submission channel. Mobile submissions carry a
// location payload and a biometric assertion; web submissions do not.
const (
	SourceWeb    = "web"
	SourceMobile = "mobile"
)

// LocationPayload is the device-reported position attached to mobile
// submissions.
type LocationPayload struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type CheckInRequest struct {
	Source         string           `json:"source"`
	Location       *LocationPayload `json:"location,omitempty"`
	BiometricToken string           `json:"biometric_token,omitempty"`
}

func (r CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Source != SourceWeb && r.Source != SourceMobile {
		errs = append(errs, validator.ValidationError{Field: "source", Message: "must be 'web' or 'mobile'"})
	}
	if r.Source == SourceMobile && r.Location != nil {
		if r.Location.Latitude < -90 || r.Location.Latitude > 90 {
			errs = append(errs, validator.ValidationError{Field: "location.lat", Message: "must be between -90 and 90"})
		}
		if r.Location.Longitude < -180 || r.Location.Longitude > 180 {
			errs = append(errs, validator.ValidationError{Field: "location.lng", Message: "must be between -180 and 180"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	Source         string           `json:"source"`
	Location       *LocationPayload `json:"location,omitempty"`
	BiometricToken string           `json:"biometric_token,omitempty"`
}

func (r CheckOutRequest) Validate() error {
	return CheckInRequest{Source: r.Source, Location: r.Location}.Validate()
}

type StatusRequest struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r StatusRequest) Validate() error {
	if r.Date != nil && *r.Date != "" {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			return validator.ValidationErrors{{Field: "date", Message: "must be a valid date in YYYY-MM-DD format"}}
		}
	}
	return nil
}

type SessionResponse struct {
	CheckIn  string  `json:"check_in"`
	CheckOut *string `json:"check_out,omitempty"`
}

type RecordResponse struct {
	ID           string            `json:"id"`
	EmployeeID   string            `json:"employee_id"`
	Date         string            `json:"date"`
	Status       Status            `json:"status"`
	Sessions     []SessionResponse `json:"sessions"`
	CheckInTime  *string           `json:"check_in_time"`
	CheckOutTime *string           `json:"check_out_time"`
}

type StatusResponse struct {
	IsCheckedIn bool              `json:"is_checked_in"`
	Status      Status            `json:"status"`
	Sessions    []SessionResponse `json:"sessions"`
	TodayHours  float64           `json:"today_hours"`
}

type ChallengeResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// NewRecordResponse maps a Record into its transport shape. Timestamps are
// rendered in the organization-local zone.
func NewRecordResponse(r Record, loc *time.Location) RecordResponse {
	resp := RecordResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date.Format("2006-01-02"),
		Status:     r.Status,
		Sessions:   make([]SessionResponse, 0, len(r.Sessions)),
	}
	for _, s := range r.Sessions {
		resp.Sessions = append(resp.Sessions, newSessionResponse(s, loc))
	}
	if r.CheckInTime != nil {
		v := r.CheckInTime.In(loc).Format("2006-01-02 15:04:05")
		resp.CheckInTime = &v
	}
	if r.CheckOutTime != nil {
		v := r.CheckOutTime.In(loc).Format("2006-01-02 15:04:05")
		resp.CheckOutTime = &v
	}
	return resp
}

func newSessionResponse(s Session, loc *time.Location) SessionResponse {
	resp := SessionResponse{
		CheckIn: s.CheckIn.In(loc).Format("2006-01-02 15:04:05"),
	}
	if s.CheckOut != nil {
		v := s.CheckOut.In(loc).Format("2006-01-02 15:04:05")
		resp.CheckOut = &v
	}
	return resp
}
