package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/studiofit/attendance-backend-go/internal/domain/processing"
	"github.com/studiofit/attendance-backend-go/internal/pkg/database"
)

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) processing.LedgerRepository {
	return &ledgerRepository{db: db}
}

// IsCompleted implements processing.LedgerRepository.
func (l *ledgerRepository) IsCompleted(ctx context.Context, date string, organizationID string) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM processing_ledger
			WHERE date = $1
			  AND organization_id = $2
			  AND status = $3
		)
	`

	var completed bool
	if err := q.QueryRow(ctx, query, date, organizationID, processing.LedgerStatusCompleted).Scan(&completed); err != nil {
		return false, fmt.Errorf("failed to check ledger entry: %w", err)
	}

	return completed, nil
}

// MarkCompleted implements processing.LedgerRepository. The unique index on
// (organization_id, date) makes the entry write-once; re-marking is a no-op.
func (l *ledgerRepository) MarkCompleted(ctx context.Context, date string, organizationID string, recordsProcessed int) error {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO processing_ledger (id, organization_id, date, records_processed, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id, date) DO NOTHING
	`

	_, err := q.Exec(ctx, query, uuid.NewString(), organizationID, date, recordsProcessed, processing.LedgerStatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to write ledger entry: %w", err)
	}

	return nil
}
