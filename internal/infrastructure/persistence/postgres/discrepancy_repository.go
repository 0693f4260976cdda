package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/jackc/pgx/v5"
)

type DiscrepancyRepository struct {
	q Executor
}

func NewDiscrepancyRepository(db *DB) *DiscrepancyRepository {
	return &DiscrepancyRepository{q: db.Pool}
}

// Record appends to the manual reconciliation queue and sets d.ID.
func (r *DiscrepancyRepository) Record(ctx context.Context, d *domain.PaymentDiscrepancy) error {
	query := `
		INSERT INTO payment_discrepancies (
			external_payment_ref, user_id, expected_minor, captured_minor, detected_at
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		d.ExternalRef,
		d.UserID,
		d.ExpectedMinor,
		d.CapturedMinor,
		d.DetectedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("failed to record discrepancy: %w", err)
	}
	return nil
}

// ListUnresolved returns the oldest open entries first.
func (r *DiscrepancyRepository) ListUnresolved(ctx context.Context, limit int) ([]*domain.PaymentDiscrepancy, error) {
	query := `
		SELECT id, external_payment_ref, user_id, expected_minor, captured_minor,
		       detected_at, resolved_at, resolution
		FROM payment_discrepancies
		WHERE resolved_at IS NULL
		ORDER BY detected_at ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unresolved discrepancies: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PaymentDiscrepancy, error) {
		var m DiscrepancyModel
		err := row.Scan(
			&m.ID, &m.ExternalPaymentRef, &m.UserID, &m.ExpectedMinor, &m.CapturedMinor,
			&m.DetectedAt, &m.ResolvedAt, &m.Resolution,
		)
		return toDomainDiscrepancy(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan unresolved discrepancies: %w", err)
	}
	return results, nil
}

// Resolve closes an open entry. Already resolved or unknown ids are NotFound.
func (r *DiscrepancyRepository) Resolve(ctx context.Context, id int64, note string, resolvedAt time.Time) error {
	query := `
		UPDATE payment_discrepancies
		SET resolved_at = $1, resolution = $2
		WHERE id = $3 AND resolved_at IS NULL
	`

	results, err := r.q.Exec(ctx, query, resolvedAt, note, id)
	if err != nil {
		return fmt.Errorf("failed to resolve discrepancy: %w", err)
	}
	if results.RowsAffected() == 0 {
		return domain.NewDiscrepancyNotFoundError(id)
	}
	return nil
}
