package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/studiofit/attendance-backend-go/internal/domain/classsession"
	"github.com/studiofit/attendance-backend-go/internal/pkg/database"
)

type classSessionRepository struct {
	db *database.DB
}

func NewClassSessionRepository(db *database.DB) classsession.Repository {
	return &classSessionRepository{db: db}
}

const classRecordColumns = `
	ca.id, ca.trainer_id, ca.class_id, ca.organization_id, ca.date,
	ca.check_in_time, ca.check_out_time, ca.auto_checkout,
	c.duration_hours,
	ca.created_at, ca.updated_at
`

func scanClassRecord(row pgx.Row) (classsession.Record, error) {
	var rec classsession.Record
	err := row.Scan(
		&rec.ID, &rec.TrainerID, &rec.ClassID, &rec.OrganizationID, &rec.Date,
		&rec.CheckInTime, &rec.CheckOutTime, &rec.AutoCheckout,
		&rec.DurationHours,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// GetClass implements classsession.Repository.
func (r *classSessionRepository) GetClass(ctx context.Context, classID string, organizationID string) (classsession.Class, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, name, duration_hours
		FROM classes
		WHERE id = $1 AND organization_id = $2
	`

	var cls classsession.Class
	err := q.QueryRow(ctx, query, classID, organizationID).Scan(
		&cls.ID, &cls.OrganizationID, &cls.Name, &cls.DurationHours,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return classsession.Class{}, classsession.ErrClassNotFound
		}
		return classsession.Class{}, fmt.Errorf("failed to get class: %w", err)
	}

	return cls, nil
}

// HasActiveAssignment implements classsession.Repository.
func (r *classSessionRepository) HasActiveAssignment(ctx context.Context, trainerID string, classID string, organizationID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM class_assignments
			WHERE trainer_id = $1
			  AND class_id = $2
			  AND organization_id = $3
			  AND active = TRUE
		)
	`

	var assigned bool
	if err := q.QueryRow(ctx, query, trainerID, classID, organizationID).Scan(&assigned); err != nil {
		return false, fmt.Errorf("failed to check class assignment: %w", err)
	}

	return assigned, nil
}

// ListByTrainerAndDate implements classsession.Repository.
func (r *classSessionRepository) ListByTrainerAndDate(ctx context.Context, trainerID string, date string, organizationID string) ([]classsession.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + classRecordColumns + `
		FROM class_attendances ca
		JOIN classes c ON c.id = ca.class_id
		WHERE ca.trainer_id = $1
		  AND ca.date = $2
		  AND ca.organization_id = $3
		ORDER BY ca.check_in_time
	`

	rows, err := q.Query(ctx, query, trainerID, date, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query class attendance records: %w", err)
	}
	defer rows.Close()

	var records []classsession.Record
	for rows.Next() {
		rec, err := scanClassRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan class attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// GetByTrainerClassAndDate implements classsession.Repository.
func (r *classSessionRepository) GetByTrainerClassAndDate(ctx context.Context, trainerID string, classID string, date string, organizationID string) (*classsession.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + classRecordColumns + `
		FROM class_attendances ca
		JOIN classes c ON c.id = ca.class_id
		WHERE ca.trainer_id = $1
		  AND ca.class_id = $2
		  AND ca.date = $3
		  AND ca.organization_id = $4
		LIMIT 1
	`

	rec, err := scanClassRecord(q.QueryRow(ctx, query, trainerID, classID, date, organizationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get class attendance record: %w", err)
	}

	return &rec, nil
}

// GetByID implements classsession.Repository.
func (r *classSessionRepository) GetByID(ctx context.Context, id string, organizationID string) (classsession.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + classRecordColumns + `
		FROM class_attendances ca
		JOIN classes c ON c.id = ca.class_id
		WHERE ca.id = $1 AND ca.organization_id = $2
	`

	rec, err := scanClassRecord(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return classsession.Record{}, classsession.ErrRecordNotFound
		}
		return classsession.Record{}, fmt.Errorf("failed to get class attendance record: %w", err)
	}

	return rec, nil
}

// Create implements classsession.Repository.
func (r *classSessionRepository) Create(ctx context.Context, rec classsession.Record) (classsession.Record, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := `
		INSERT INTO class_attendances (
			id, trainer_id, class_id, organization_id, date,
			check_in_time, check_out_time, auto_checkout
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.TrainerID, rec.ClassID, rec.OrganizationID, rec.Date,
		rec.CheckInTime, rec.CheckOutTime, rec.AutoCheckout,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return classsession.Record{}, fmt.Errorf("failed to create class attendance record: %w", err)
	}

	return rec, nil
}

// Update implements classsession.Repository.
func (r *classSessionRepository) Update(ctx context.Context, rec classsession.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE class_attendances
		SET check_in_time = $1,
			check_out_time = $2,
			auto_checkout = $3,
			updated_at = $4
		WHERE id = $5 AND organization_id = $6
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		rec.CheckInTime, rec.CheckOutTime, rec.AutoCheckout, time.Now().UTC(),
		rec.ID, rec.OrganizationID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return classsession.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update class attendance record: %w", err)
	}

	return nil
}
