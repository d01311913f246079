package employee

import "context"

// Repository is the collaborator contract the sweeps need: who is currently
// an active employee of an organization.
type Repository interface {
	// ListActiveIDs returns the IDs of all active employees.
	ListActiveIDs(ctx context.Context, organizationID string) ([]string, error)
}
