package classsession

import (
	"time"

	"github.com/studiofit/attendance-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	ClassID string `json:"class_id"`
}

func (r CheckInRequest) Validate() error {
	if validator.IsEmpty(r.ClassID) {
		return validator.ValidationErrors{{Field: "class_id", Message: "is required"}}
	}
	return nil
}

type CheckOutRequest struct {
	AttendanceID string `json:"attendance_id"`
}

func (r CheckOutRequest) Validate() error {
	if validator.IsEmpty(r.AttendanceID) {
		return validator.ValidationErrors{{Field: "attendance_id", Message: "is required"}}
	}
	return nil
}

type RecordResponse struct {
	ID           string  `json:"id"`
	TrainerID    string  `json:"trainer_id"`
	ClassID      string  `json:"class_id"`
	Date         string  `json:"date"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	AutoCheckout bool    `json:"auto_checkout"`
	Active       bool    `json:"active"`
	EndsAt       string  `json:"ends_at"`
}

// NewRecordResponse maps a Record into its transport shape, deriving the
// active flag lazily from the effective cutoff.
func NewRecordResponse(r Record, now time.Time, loc *time.Location) RecordResponse {
	resp := RecordResponse{
		ID:           r.ID,
		TrainerID:    r.TrainerID,
		ClassID:      r.ClassID,
		Date:         r.Date.Format("2006-01-02"),
		CheckInTime:  r.CheckInTime.In(loc).Format("2006-01-02 15:04:05"),
		AutoCheckout: r.AutoCheckout,
		Active:       r.EffectivelyActive(now),
		EndsAt:       r.EffectiveCutoff().In(loc).Format("2006-01-02 15:04:05"),
	}
	if r.CheckOutTime != nil {
		v := r.CheckOutTime.In(loc).Format("2006-01-02 15:04:05")
		resp.CheckOutTime = &v
	}
	return resp
}
