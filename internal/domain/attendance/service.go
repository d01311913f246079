package attendance

import (
	"context"
)

// Service defines the attendance engine's operations. Identity comes from
// verified claims in the request context.
type Service interface {
	// CheckIn opens a work session for the calling employee.
	CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)

	// CheckOut closes the calling employee's open work session.
	CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)

	// Status reports the employee's attendance state for a date. Reading
	// today's status opportunistically triggers the processing sweep.
	Status(ctx context.Context, req StatusRequest) (StatusResponse, error)

	// IssueChallenge hands out a short-lived biometric challenge token for
	// the calling employee's next mobile submission.
	IssueChallenge(ctx context.Context) (ChallengeResponse, error)
}

// ChallengeVerifier consumes a biometric challenge token. Implemented by the
// Redis-backed challenge store.
type ChallengeVerifier interface {
	Issue(ctx context.Context, employeeID string) (string, error)
	Verify(ctx context.Context, employeeID string, token string) (bool, error)
}

// SweepTrigger lets a status read kick the processing sweep without binding
// the attendance engine to the scheduler implementation.
type SweepTrigger interface {
	TriggerSweep()
}
