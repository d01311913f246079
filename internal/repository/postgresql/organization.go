package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/studiofit/attendance-backend-go/internal/domain/organization"
	"github.com/studiofit/attendance-backend-go/internal/pkg/database"
)

type organizationRepository struct {
	db *database.DB
}

func NewOrganizationRepository(db *database.DB) organization.Repository {
	return &organizationRepository{db: db}
}

const organizationColumns = `
	id, name, timezone,
	geofence_center_lat, geofence_center_lng, geofence_radius_meters, geofence_enabled,
	created_at, updated_at
`

func scanOrganization(row pgx.Row) (organization.Organization, error) {
	var org organization.Organization
	err := row.Scan(
		&org.ID, &org.Name, &org.Timezone,
		&org.Geofence.CenterLat, &org.Geofence.CenterLng, &org.Geofence.RadiusMeters, &org.Geofence.Enabled,
		&org.CreatedAt, &org.UpdatedAt,
	)
	return org, err
}

// GetByID implements organization.Repository.
func (o *organizationRepository) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	q := GetQuerier(ctx, o.db)

	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`

	org, err := scanOrganization(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return organization.Organization{}, organization.ErrOrganizationNotFound
		}
		return organization.Organization{}, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

// List implements organization.Repository.
func (o *organizationRepository) List(ctx context.Context) ([]organization.Organization, error) {
	q := GetQuerier(ctx, o.db)

	query := `SELECT ` + organizationColumns + ` FROM organizations ORDER BY id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	var orgs []organization.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	return orgs, nil
}
