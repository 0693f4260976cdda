package testhelpers

import (
	"context"
	"fmt"
	"testing"

	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/DanielPopoola/gymfit-backoffice/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// CreateUser inserts a buyer and returns its id.
func CreateUser(t *testing.T, ctx context.Context, db *postgres.DB) int64 {
	t.Helper()

	var id int64
	email := fmt.Sprintf("member-%s@gymfit.test", uuid.NewString()[:8])
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO users (email, full_name) VALUES ($1, $2) RETURNING id`,
		email, "Test Member",
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSupplement inserts a catalog entry priced at price (e.g. "24.99").
func CreateSupplement(t *testing.T, ctx context.Context, db *postgres.DB, name, price string) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO supplements (name, price) VALUES ($1, $2) RETURNING id`,
		name, decimal.RequireFromString(price),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// SoftDeleteSupplement hides a product from price resolution.
func SoftDeleteSupplement(t *testing.T, ctx context.Context, db *postgres.DB, id int64) {
	t.Helper()

	_, err := db.Pool.Exec(ctx, `UPDATE supplements SET is_deleted = TRUE WHERE id = $1`, id)
	require.NoError(t, err)
}

// SetSupplementPrice simulates a catalog price change.
func SetSupplementPrice(t *testing.T, ctx context.Context, db *postgres.DB, id int64, price string) {
	t.Helper()

	_, err := db.Pool.Exec(ctx, `UPDATE supplements SET price = $1 WHERE id = $2`, decimal.RequireFromString(price), id)
	require.NoError(t, err)
}

// NewPaymentRef returns a unique gateway-style reference.
func NewPaymentRef() string {
	return "pi_" + uuid.NewString()
}

// DefaultCart returns a cart for the given products, one unit each.
func DefaultCart(productIDs ...int64) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(productIDs))
	for _, id := range productIDs {
		items = append(items, domain.CartItem{ProductID: id, Quantity: 1})
	}
	return items
}
