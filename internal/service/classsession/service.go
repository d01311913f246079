package classsession

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/studiofit/attendance-backend-go/internal/domain/attendance"
	"github.com/studiofit/attendance-backend-go/internal/domain/classsession"
	"github.com/studiofit/attendance-backend-go/internal/pkg/clock"
)

type ClassSessionServiceImpl struct {
	classRepo      classsession.Repository
	attendanceRepo attendance.Repository
	clock          clock.Clock
}

func NewClassSessionService(
	classRepo classsession.Repository,
	attendanceRepo attendance.Repository,
	clk clock.Clock,
) classsession.Service {
	return &ClassSessionServiceImpl{
		classRepo:      classRepo,
		attendanceRepo: attendanceRepo,
		clock:          clk,
	}
}

func identityFromContext(ctx context.Context) (trainerID string, organizationID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	trainerID, ok := claims["employee_id"].(string)
	if !ok || trainerID == "" {
		return "", "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	organizationID, ok = claims["organization_id"].(string)
	if !ok || organizationID == "" {
		return "", "", fmt.Errorf("organization_id claim is missing or invalid")
	}

	return trainerID, organizationID, nil
}

// CheckIn implements classsession.Service.
func (s *ClassSessionServiceImpl) CheckIn(ctx context.Context, req classsession.CheckInRequest) (classsession.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return classsession.RecordResponse{}, err
	}

	trainerID, organizationID, err := identityFromContext(ctx)
	if err != nil {
		return classsession.RecordResponse{}, err
	}

	nowUTC := s.clock.Now()
	nowLocal := nowUTC.In(s.clock.Location())
	dateLocal := nowLocal.Format("2006-01-02")

	// A class session rides on top of an open work session.
	workRec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, trainerID, dateLocal, organizationID)
	if err != nil {
		return classsession.RecordResponse{}, fmt.Errorf("failed to load work attendance record: %w", err)
	}
	if workRec == nil || !workRec.HasOpenSession() {
		return classsession.RecordResponse{}, classsession.ErrWorkSessionRequired
	}

	cls, err := s.classRepo.GetClass(ctx, req.ClassID, organizationID)
	if err != nil {
		return classsession.RecordResponse{}, err
	}

	assigned, err := s.classRepo.HasActiveAssignment(ctx, trainerID, req.ClassID, organizationID)
	if err != nil {
		return classsession.RecordResponse{}, fmt.Errorf("failed to check class assignment: %w", err)
	}
	if !assigned {
		return classsession.RecordResponse{}, classsession.ErrNotAssigned
	}

	// One class at a time, across all of the trainer's classes for the
	// date. "Active" is derived from the effective cutoff, so a session
	// whose cutoff passed no longer blocks a new one.
	records, err := s.classRepo.ListByTrainerAndDate(ctx, trainerID, dateLocal, organizationID)
	if err != nil {
		return classsession.RecordResponse{}, fmt.Errorf("failed to list class attendance records: %w", err)
	}
	for _, rec := range records {
		if rec.EffectivelyActive(nowUTC) {
			return classsession.RecordResponse{}, classsession.ErrClassSessionActive
		}
	}

	existing, err := s.classRepo.GetByTrainerClassAndDate(ctx, trainerID, req.ClassID, dateLocal, organizationID)
	if err != nil {
		return classsession.RecordResponse{}, fmt.Errorf("failed to load class attendance record: %w", err)
	}

	if existing != nil {
		// Re-entry into the same class after the earlier session ended.
		existing.CheckInTime = nowUTC
		existing.CheckOutTime = nil
		existing.AutoCheckout = true
		if err := s.classRepo.Update(ctx, *existing); err != nil {
			return classsession.RecordResponse{}, err
		}
		return classsession.NewRecordResponse(*existing, nowUTC, s.clock.Location()), nil
	}

	created, err := s.classRepo.Create(ctx, classsession.Record{
		TrainerID:      trainerID,
		ClassID:        req.ClassID,
		OrganizationID: organizationID,
		Date:           time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC),
		CheckInTime:    nowUTC,
		AutoCheckout:   true,
		DurationHours:  cls.DurationHours,
	})
	if err != nil {
		return classsession.RecordResponse{}, err
	}

	return classsession.NewRecordResponse(created, nowUTC, s.clock.Location()), nil
}

// CheckOut implements classsession.Service.
func (s *ClassSessionServiceImpl) CheckOut(ctx context.Context, req classsession.CheckOutRequest) (classsession.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return classsession.RecordResponse{}, err
	}

	trainerID, organizationID, err := identityFromContext(ctx)
	if err != nil {
		return classsession.RecordResponse{}, err
	}

	nowUTC := s.clock.Now()

	rec, err := s.classRepo.GetByID(ctx, req.AttendanceID, organizationID)
	if err != nil {
		return classsession.RecordResponse{}, err
	}
	if rec.TrainerID != trainerID {
		return classsession.RecordResponse{}, classsession.ErrRecordNotFound
	}
	if rec.CheckOutTime != nil {
		return classsession.RecordResponse{}, classsession.ErrAlreadyClosed
	}

	// Explicit early check-out. Sessions past their cutoff stay lazily
	// ended without a written check-out, so this is only reachable before
	// the cutoff or shortly after it.
	rec.CheckOutTime = &nowUTC
	rec.AutoCheckout = false
	if err := s.classRepo.Update(ctx, rec); err != nil {
		return classsession.RecordResponse{}, err
	}

	return classsession.NewRecordResponse(rec, nowUTC, s.clock.Location()), nil
}
