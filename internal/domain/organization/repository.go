package organization

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Organization, error)

	// List returns all organizations. The sweeps iterate these.
	List(ctx context.Context) ([]Organization, error)
}
