package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CatalogRepository reads current supplement prices. Catalog maintenance
// happens elsewhere; this side only resolves.
type CatalogRepository struct {
	q Executor
}

func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{q: db.Pool}
}

// ResolveMany returns the price of every requested product that exists and is
// not soft-deleted. Missing ids are simply absent from the map.
func (r *CatalogRepository) ResolveMany(ctx context.Context, productIDs []int64) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return prices, nil
	}

	query := `
		SELECT id, price
		FROM supplements
		WHERE id = ANY($1) AND is_deleted = FALSE
	`

	rows, err := r.q.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("query supplement prices: %w", err)
	}

	type priceRow struct {
		id    int64
		price decimal.Decimal
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (priceRow, error) {
		var p priceRow
		err := row.Scan(&p.id, &p.price)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan supplement prices: %w", err)
	}

	for _, p := range results {
		prices[p.id] = p.price
	}
	return prices, nil
}
