package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/studiofit/attendance-backend-go/internal/domain/attendance"
	"github.com/studiofit/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// sessionDoc is the versioned JSONB shape of the sessions column. It is the
// only place session payloads are encoded or decoded.
type sessionDoc struct {
	Version  int                  `json:"version"`
	Sessions []attendance.Session `json:"sessions"`
}

func encodeSessions(sessions []attendance.Session) ([]byte, error) {
	if sessions == nil {
		sessions = []attendance.Session{}
	}
	return json.Marshal(sessionDoc{Version: attendance.SessionSchemaVersion, Sessions: sessions})
}

func decodeSessions(raw []byte) ([]attendance.Session, error) {
	var doc sessionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode session document: %w", err)
	}
	if doc.Version != attendance.SessionSchemaVersion {
		return nil, fmt.Errorf("unsupported session document version %d", doc.Version)
	}
	return doc.Sessions, nil
}

const attendanceColumns = `
	id, employee_id, organization_id, date, status, sessions,
	check_in_time, check_out_time, created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	var rawSessions []byte
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.OrganizationID, &rec.Date, &rec.Status, &rawSessions,
		&rec.CheckInTime, &rec.CheckOutTime, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Sessions, err = decodeSessions(rawSessions)
	if err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}

// Create implements attendance.Repository. The unique index on
// (employee_id, date) makes this safe against racing check-ins and racing
// absence sweeps: the second writer gets no row back.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rawSessions, err := encodeSessions(rec.Sessions)
	if err != nil {
		return attendance.Record{}, err
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, organization_id, date, status, sessions,
			check_in_time, check_out_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.OrganizationID,
		rec.Date,
		rec.Status,
		rawSessions,
		rec.CheckInTime,
		rec.CheckOutTime,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			// Another writer created the record between our read and this
			// insert.
			return attendance.Record{}, attendance.ErrAlreadyActive
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string, organizationID string) (*attendance.Record, error) {
	return a.getByEmployeeAndDate(ctx, employeeID, date, organizationID, "")
}

// GetForUpdate implements attendance.Repository. Only meaningful inside a
// transaction started through the TxManager.
func (a *attendanceRepository) GetForUpdate(ctx context.Context, employeeID string, date string, organizationID string) (*attendance.Record, error) {
	return a.getByEmployeeAndDate(ctx, employeeID, date, organizationID, "FOR UPDATE")
}

func (a *attendanceRepository) getByEmployeeAndDate(ctx context.Context, employeeID string, date string, organizationID string, lock string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		  AND organization_id = $3
		LIMIT 1 ` + lock

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, organizationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No record for this date
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &rec, nil
}

// UpdateSessions implements attendance.Repository.
func (a *attendanceRepository) UpdateSessions(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	rawSessions, err := encodeSessions(rec.Sessions)
	if err != nil {
		return err
	}

	query := `
		UPDATE attendances
		SET sessions = $1,
			status = $2,
			check_in_time = $3,
			check_out_time = $4,
			updated_at = $5
		WHERE id = $6 AND organization_id = $7
		RETURNING id
	`

	var updatedID string
	err = q.QueryRow(ctx, query,
		rawSessions,
		rec.Status,
		rec.CheckInTime,
		rec.CheckOutTime,
		time.Now().UTC(),
		rec.ID,
		rec.OrganizationID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance sessions: %w", err)
	}

	return nil
}

// ListOpenForDate implements attendance.Repository. A record is open when its
// session document still contains an element without a check_out.
func (a *attendanceRepository) ListOpenForDate(ctx context.Context, date string, organizationID string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date = $1
		  AND organization_id = $2
		  AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(sessions->'sessions') s
			WHERE s->'check_out' IS NULL
		  )
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, date, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// ListEmployeeIDsWithRecord implements attendance.Repository.
func (a *attendanceRepository) ListEmployeeIDsWithRecord(ctx context.Context, date string, organizationID string) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT employee_id
		FROM attendances
		WHERE date = $1 AND organization_id = $2
	`

	rows, err := q.Query(ctx, query, date, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees with records: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// BulkCreateAbsent implements attendance.Repository. Conflicting rows are
// skipped, so a racing check-in always wins over the sweep.
func (a *attendanceRepository) BulkCreateAbsent(ctx context.Context, records []attendance.Record) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, organization_id, date, status, sessions
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	created := 0
	for _, rec := range records {
		rawSessions, err := encodeSessions(rec.Sessions)
		if err != nil {
			return created, err
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		tag, err := q.Exec(ctx, query,
			rec.ID, rec.EmployeeID, rec.OrganizationID, rec.Date, rec.Status, rawSessions,
		)
		if err != nil {
			return created, fmt.Errorf("failed to create absence record for employee %s: %w", rec.EmployeeID, err)
		}
		created += int(tag.RowsAffected())
	}

	return created, nil
}
