package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/studiofit/attendance-backend-go/internal/domain/processing"
)

type ProcessingJobs struct {
	processingSvc processing.Service
}

func NewProcessingJobs(processingSvc processing.Service) *ProcessingJobs {
	return &ProcessingJobs{processingSvc: processingSvc}
}

func (j *ProcessingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("attendance_sweep", 1*time.Hour, j.RunAttendanceSweep)
}

func (j *ProcessingJobs) RunAttendanceSweep(ctx context.Context) error {
	result, err := j.processingSvc.RunSweep(ctx)
	if err != nil {
		return err
	}

	slog.Info("Cron: Attendance sweep finished",
		"auto_checkouts", result.AutoCheckouts,
		"absent_records", result.AbsentRecords,
		"missed_days_processed", result.MissedDaysProcessed)
	return nil
}
