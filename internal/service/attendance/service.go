package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/studiofit/attendance-backend-go/internal/domain/attendance"
	"github.com/studiofit/attendance-backend-go/internal/domain/organization"
	"github.com/studiofit/attendance-backend-go/internal/pkg/clock"
	"github.com/studiofit/attendance-backend-go/internal/pkg/database"
	"github.com/studiofit/attendance-backend-go/internal/pkg/timepolicy"
)

type AttendanceServiceImpl struct {
	tx             database.TxManager
	attendanceRepo attendance.Repository
	orgRepo        organization.Repository
	challenges     attendance.ChallengeVerifier
	clock          clock.Clock
	sweeper        attendance.SweepTrigger
	challengeTTL   time.Duration
}

func NewAttendanceService(
	tx database.TxManager,
	attendanceRepo attendance.Repository,
	orgRepo organization.Repository,
	challenges attendance.ChallengeVerifier,
	clk clock.Clock,
	sweeper attendance.SweepTrigger,
	challengeTTL time.Duration,
) attendance.Service {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		orgRepo:        orgRepo,
		challenges:     challenges,
		clock:          clk,
		sweeper:        sweeper,
		challengeTTL:   challengeTTL,
	}
}

// identityFromContext extracts the verified employee and organization from
// the request token.
func identityFromContext(ctx context.Context) (employeeID string, organizationID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	organizationID, ok = claims["organization_id"].(string)
	if !ok || organizationID == "" {
		return "", "", fmt.Errorf("organization_id claim is missing or invalid")
	}

	return employeeID, organizationID, nil
}

// CheckIn implements attendance.Service.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	employeeID, organizationID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	nowUTC := s.clock.Now()
	nowLocal := nowUTC.In(s.clock.Location())

	if !timepolicy.CheckInAllowed(nowLocal) {
		return attendance.RecordResponse{}, attendance.ErrOutsideHours
	}

	if req.Source == attendance.SourceMobile {
		if err := s.gateMobileSubmission(ctx, employeeID, organizationID, req.Location, req.BiometricToken); err != nil {
			return attendance.RecordResponse{}, err
		}
	}

	dateLocal := nowLocal.Format("2006-01-02")

	var result attendance.Record
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		rec, err := s.attendanceRepo.GetForUpdate(txCtx, employeeID, dateLocal, organizationID)
		if err != nil {
			return fmt.Errorf("failed to load attendance record: %w", err)
		}

		if rec == nil {
			// First check-in of the day: arrival classification happens
			// here and sticks for the rest of the day.
			status := attendance.StatusPresent
			if timepolicy.IsLate(nowLocal) {
				status = attendance.StatusLate
			}

			newRec := attendance.Record{
				EmployeeID:     employeeID,
				OrganizationID: organizationID,
				Date:           time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC),
				Status:         status,
			}
			newRec.AppendSession(nowUTC)

			created, err := s.attendanceRepo.Create(txCtx, newRec)
			if err != nil {
				return err
			}
			result = created
			return nil
		}

		if rec.HasOpenSession() {
			return attendance.ErrAlreadyActive
		}

		// Re-entry after a check-out: append a session, keep the status
		// fixed at first arrival.
		rec.AppendSession(nowUTC)
		if err := s.attendanceRepo.UpdateSessions(txCtx, *rec); err != nil {
			return err
		}
		result = *rec
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return attendance.NewRecordResponse(result, s.clock.Location()), nil
}

// CheckOut implements attendance.Service.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	employeeID, organizationID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	nowUTC := s.clock.Now()
	nowLocal := nowUTC.In(s.clock.Location())

	// Past the cutoff the open session belongs to the sweep.
	if !timepolicy.CheckOutAllowed(nowLocal) {
		return attendance.RecordResponse{}, attendance.ErrOutsideHours
	}

	if req.Source == attendance.SourceMobile {
		if err := s.gateMobileSubmission(ctx, employeeID, organizationID, req.Location, req.BiometricToken); err != nil {
			return attendance.RecordResponse{}, err
		}
	}

	dateLocal := nowLocal.Format("2006-01-02")

	var result attendance.Record
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		rec, err := s.attendanceRepo.GetForUpdate(txCtx, employeeID, dateLocal, organizationID)
		if err != nil {
			return fmt.Errorf("failed to load attendance record: %w", err)
		}

		if rec == nil {
			return attendance.ErrNoRecord
		}
		if !rec.CloseOpenSession(nowUTC) {
			return attendance.ErrNoOpenSession
		}

		if err := s.attendanceRepo.UpdateSessions(txCtx, *rec); err != nil {
			return err
		}
		result = *rec
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return attendance.NewRecordResponse(result, s.clock.Location()), nil
}

// Status implements attendance.Service.
func (s *AttendanceServiceImpl) Status(ctx context.Context, req attendance.StatusRequest) (attendance.StatusResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.StatusResponse{}, err
	}

	employeeID, organizationID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	nowUTC := s.clock.Now()
	nowLocal := nowUTC.In(s.clock.Location())
	dateLocal := nowLocal.Format("2006-01-02")

	if req.Date != nil && *req.Date != "" {
		dateLocal = *req.Date
	}

	// Status reads double as a sweep trigger so reconciliation does not
	// depend on the external scheduler firing.
	if s.sweeper != nil && dateLocal == nowLocal.Format("2006-01-02") {
		s.sweeper.TriggerSweep()
	}

	rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, dateLocal, organizationID)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to load attendance record: %w", err)
	}

	if rec == nil {
		return attendance.StatusResponse{Sessions: []attendance.SessionResponse{}}, nil
	}

	day, _ := time.ParseInLocation("2006-01-02", dateLocal, s.clock.Location())
	cutoffUTC := timepolicy.WorkdayCutoff(day, s.clock.Location()).UTC()

	resp := attendance.StatusResponse{
		// Reads are defensive: a structurally open session past the cutoff
		// is reported closed even before the sweep gets to it.
		IsCheckedIn: rec.HasOpenSession() && nowUTC.Before(cutoffUTC),
		Status:      rec.Status,
		Sessions:    make([]attendance.SessionResponse, 0, len(rec.Sessions)),
		TodayHours:  rec.WorkedDuration(nowUTC, cutoffUTC).Hours(),
	}
	full := attendance.NewRecordResponse(*rec, s.clock.Location())
	resp.Sessions = full.Sessions

	return resp, nil
}

// IssueChallenge implements attendance.Service.
func (s *AttendanceServiceImpl) IssueChallenge(ctx context.Context) (attendance.ChallengeResponse, error) {
	employeeID, _, err := identityFromContext(ctx)
	if err != nil {
		return attendance.ChallengeResponse{}, err
	}

	token, err := s.challenges.Issue(ctx, employeeID)
	if err != nil {
		return attendance.ChallengeResponse{}, fmt.Errorf("failed to issue challenge: %w", err)
	}

	return attendance.ChallengeResponse{
		Token:     token,
		ExpiresIn: int(s.challengeTTL.Seconds()),
	}, nil
}

// gateMobileSubmission enforces the biometric assertion and the geofence on
// mobile check-ins and check-outs.
func (s *AttendanceServiceImpl) gateMobileSubmission(ctx context.Context, employeeID string, organizationID string, loc *attendance.LocationPayload, biometricToken string) error {
	verified, err := s.challenges.Verify(ctx, employeeID, biometricToken)
	if err != nil {
		return fmt.Errorf("failed to verify biometric challenge: %w", err)
	}
	if !verified {
		return attendance.ErrBiometricRequired
	}

	org, err := s.orgRepo.GetByID(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("failed to load organization settings: %w", err)
	}

	if !org.Geofence.Enabled {
		return nil
	}
	if loc == nil {
		return attendance.ErrLocationRequired
	}

	fence := org.Geofence.Fence()
	if distance := fence.Distance(loc.Latitude, loc.Longitude); distance > fence.RadiusMeters {
		return &attendance.OutsideGeofenceError{DistanceMeters: distance}
	}

	return nil
}
