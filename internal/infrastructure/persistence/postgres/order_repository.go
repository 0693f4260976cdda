package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const externalRefConstraint = "orders_external_payment_ref_key"

const orderColumns = `
	id::text, user_id, total_amount, status, external_payment_ref,
	purchase_date, delivered_at, cancelled_at, cancellation_reason, is_deleted`

type OrderRepository struct {
	db   *DB
	q    Executor
	inTx bool
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db, q: db.Pool}
}

// WithTx runs fn against a repository bound to a single transaction. Nested
// calls reuse the outer transaction.
func (r *OrderRepository) WithTx(ctx context.Context, fn func(application.OrderRepository) error) error {
	if r.inTx {
		return fn(r)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(&OrderRepository{db: r.db, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a live order with its items
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.findByID(ctx, id, "")
}

// FindByIDForUpdate retrieves an order with a row-level lock held until the
// surrounding transaction ends.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return r.findByID(ctx, id, "FOR UPDATE")
}

func (r *OrderRepository) findByID(ctx context.Context, id, lock string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewOrderNotFoundError(id)
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1 AND is_deleted = FALSE
		` + lock

	m, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewOrderNotFoundError(id)
		}
		return nil, err
	}

	items, err := r.findItems(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return toDomainOrder(*m, items), nil
}

// FindByExternalRef includes soft-deleted orders: a payment stays consumed.
func (r *OrderRepository) FindByExternalRef(ctx context.Context, externalRef string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE external_payment_ref = $1`

	m, err := scanOrder(r.q.QueryRow(ctx, query, externalRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.findItems(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return toDomainOrder(*m, items), nil
}

// InsertAtomic inserts the order row and all item rows in one transaction and
// sets order.ID from the generated key.
func (r *OrderRepository) InsertAtomic(ctx context.Context, order *domain.Order) error {
	if !r.inTx {
		return r.WithTx(ctx, func(tx application.OrderRepository) error {
			return tx.InsertAtomic(ctx, order)
		})
	}

	m := toOrderModel(order)
	query := `
		INSERT INTO orders (
			user_id, total_amount, status, external_payment_ref,
			purchase_date, delivered_at, cancelled_at, cancellation_reason, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text
	`

	var id string
	err := r.q.QueryRow(ctx, query,
		m.UserID,
		m.TotalAmount,
		m.Status,
		m.ExternalPaymentRef,
		m.PurchaseDate,
		m.DeliveredAt,
		m.CancelledAt,
		m.CancellationReason,
		m.IsDeleted,
	).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err, externalRefConstraint) {
			return fmt.Errorf("%w: %s", application.ErrUniqueViolation, externalRefConstraint)
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range order.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, product_id, quantity, unit_price_at_purchase)
			VALUES ($1, $2, $3, $4)`,
			id, item.ProductID, item.Quantity, item.UnitPriceAtPurchase,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	for range order.Items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	order.ID = id
	return nil
}

// Update persists lifecycle fields. Items and totals are immutable.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $1,
			delivered_at = $2,
			cancelled_at = $3,
			cancellation_reason = $4,
			is_deleted = $5
		WHERE id = $6
	`

	m := toOrderModel(order)
	results, err := r.q.Exec(ctx, query,
		m.Status,
		m.DeliveredAt,
		m.CancelledAt,
		m.CancellationReason,
		m.IsDeleted,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if results.RowsAffected() == 0 {
		return domain.NewOrderNotFoundError(order.ID)
	}
	return nil
}

// List returns a page of live orders, newest first, with the total match count.
func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	query := `SELECT ` + orderColumns + `, COUNT(*) OVER()
		FROM orders
		WHERE is_deleted = FALSE
		  AND ($1::bigint IS NULL OR user_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY purchase_date DESC, id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.q.Query(ctx, query, filter.UserID, status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}

	var total int
	models, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (OrderModel, error) {
		var m OrderModel
		err := row.Scan(
			&m.ID, &m.UserID, &m.TotalAmount, &m.Status, &m.ExternalPaymentRef,
			&m.PurchaseDate, &m.DeliveredAt, &m.CancelledAt, &m.CancellationReason, &m.IsDeleted,
			&total,
		)
		return m, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan orders: %w", err)
	}

	if len(models) == 0 {
		return []*domain.Order{}, 0, nil
	}

	itemsByOrder, err := r.findItemsForOrders(ctx, models)
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, toDomainOrder(m, itemsByOrder[m.ID]))
	}
	return orders, total, nil
}

func (r *OrderRepository) findItems(ctx context.Context, orderID string) ([]OrderItemModel, error) {
	rows, err := r.q.Query(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanOrderItem)
	if err != nil {
		return nil, fmt.Errorf("scan order items: %w", err)
	}
	return items, nil
}

// findItemsForOrders loads the items of a page of orders in one round trip.
func (r *OrderRepository) findItemsForOrders(ctx context.Context, orders []OrderModel) (map[string][]OrderItemModel, error) {
	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(itemsQuery, o.ID)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()

	result := make(map[string][]OrderItemModel, len(orders))
	for _, o := range orders {
		rows, err := br.Query()
		if err != nil {
			return nil, fmt.Errorf("query order items: %w", err)
		}
		items, err := pgx.CollectRows(rows, scanOrderItem)
		if err != nil {
			return nil, fmt.Errorf("scan order items: %w", err)
		}
		result[o.ID] = items
	}
	return result, nil
}

const itemsQuery = `
	SELECT order_id::text, product_id, quantity, unit_price_at_purchase
	FROM order_items
	WHERE order_id = $1
	ORDER BY id
`

func scanOrderItem(row pgx.CollectableRow) (OrderItemModel, error) {
	var m OrderItemModel
	err := row.Scan(&m.OrderID, &m.ProductID, &m.Quantity, &m.UnitPriceAtPurchase)
	return m, err
}

// scanOrder converts a database row into an OrderModel, passing pgx.ErrNoRows through.
func scanOrder(row pgx.Row) (*OrderModel, error) {
	var m OrderModel
	err := row.Scan(
		&m.ID, &m.UserID, &m.TotalAmount, &m.Status, &m.ExternalPaymentRef,
		&m.PurchaseDate, &m.DeliveredAt, &m.CancelledAt, &m.CancellationReason, &m.IsDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &m, nil
}
