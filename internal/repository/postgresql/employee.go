package postgresql

import (
	"context"
	"fmt"

	"github.com/studiofit/attendance-backend-go/internal/domain/employee"
	"github.com/studiofit/attendance-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

// ListActiveIDs implements employee.Repository.
func (e *employeeRepository) ListActiveIDs(ctx context.Context, organizationID string) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id
		FROM employees
		WHERE organization_id = $1
		  AND active = TRUE
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active employees: %w", err)
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
