package classsession

import "context"

// Repository defines data access for classes, trainer assignments, and class
// attendance records. Dates are organization-local YYYY-MM-DD strings.
type Repository interface {
	GetClass(ctx context.Context, classID string, organizationID string) (Class, error)

	// HasActiveAssignment reports whether the trainer currently holds an
	// active assignment for the class.
	HasActiveAssignment(ctx context.Context, trainerID string, classID string, organizationID string) (bool, error)

	// ListByTrainerAndDate returns all of the trainer's class records for
	// the date, with class duration joined in.
	ListByTrainerAndDate(ctx context.Context, trainerID string, date string, organizationID string) ([]Record, error)

	// GetByTrainerClassAndDate returns the record for (trainer, class, date)
	// or nil when none exists.
	GetByTrainerClassAndDate(ctx context.Context, trainerID string, classID string, date string, organizationID string) (*Record, error)

	GetByID(ctx context.Context, id string, organizationID string) (Record, error)

	Create(ctx context.Context, record Record) (Record, error)

	// Update persists check-in/check-out changes on an existing record.
	Update(ctx context.Context, record Record) error
}

// Service defines the class session overlay's operations.
type Service interface {
	// CheckIn opens a class session for the calling trainer.
	CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)

	// CheckOut ends a class session early, before its effective cutoff.
	CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)
}
