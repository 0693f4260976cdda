package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeCatalog struct {
	ResolveManyFn func(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error)
}

func (f *fakeCatalog) ResolveMany(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	return f.ResolveManyFn(ctx, ids)
}

// staticCatalog prices products from a fixed table, e.g. {1: "19.995"}.
func staticCatalog(prices map[int64]string) *fakeCatalog {
	return &fakeCatalog{ResolveManyFn: func(_ context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
		out := make(map[int64]decimal.Decimal, len(ids))
		for _, id := range ids {
			if p, ok := prices[id]; ok {
				out[id] = decimal.RequireFromString(p)
			}
		}
		return out, nil
	}}
}

// memOrderStore is an in-memory OrderRepository that enforces the
// one-order-per-payment-reference constraint. The Fn fields override single
// methods when set.
type memOrderStore struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	byRef  map[string]string

	FindByExternalRefFn func(ctx context.Context, ref string) (*domain.Order, error)
	UpdateFn            func(ctx context.Context, order *domain.Order) error
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{
		orders: make(map[string]*domain.Order),
		byRef:  make(map[string]string),
	}
}

func (s *memOrderStore) FindByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok || o.IsDeleted {
		return nil, domain.NewOrderNotFoundError(id)
	}
	return o.Clone(), nil
}

func (s *memOrderStore) FindByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return s.FindByID(ctx, id)
}

func (s *memOrderStore) FindByExternalRef(ctx context.Context, ref string) (*domain.Order, error) {
	if s.FindByExternalRefFn != nil {
		return s.FindByExternalRefFn(ctx, ref)
	}
	return s.lookupRef(ref), nil
}

func (s *memOrderStore) lookupRef(ref string) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byRef[ref]
	if !ok {
		return nil
	}
	return s.orders[id].Clone()
}

func (s *memOrderStore) InsertAtomic(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := order.PaymentRef()
	if _, taken := s.byRef[ref]; ref != "" && taken {
		return fmt.Errorf("%w: orders_external_payment_ref_key", application.ErrUniqueViolation)
	}

	order.ID = uuid.NewString()
	s.orders[order.ID] = order.Clone()
	if ref != "" {
		s.byRef[ref] = order.ID
	}
	return nil
}

func (s *memOrderStore) Update(ctx context.Context, order *domain.Order) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, order)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return domain.NewOrderNotFoundError(order.ID)
	}
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *memOrderStore) List(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*domain.Order
	for _, o := range s.orders {
		if o.IsDeleted {
			continue
		}
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		matched = append(matched, o.Clone())
	}
	slices.SortFunc(matched, func(a, b *domain.Order) int {
		return b.PurchaseDate.Compare(a.PurchaseDate)
	})

	total := len(matched)
	start := min(filter.Offset, total)
	end := min(start+filter.Limit, total)
	return matched[start:end], total, nil
}

func (s *memOrderStore) WithTx(_ context.Context, fn func(application.OrderRepository) error) error {
	return fn(s)
}

func (s *memOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// seed stores an order directly, bypassing the engine.
func (s *memOrderStore) seed(userID int64, status domain.OrderStatus, ref string) *domain.Order {
	o := &domain.Order{
		UserID: userID,
		Items: []domain.OrderItem{
			{ProductID: 1, Quantity: 2, UnitPriceAtPurchase: decimal.RequireFromString("10.00")},
		},
		TotalAmount:  decimal.RequireFromString("20.00"),
		Status:       status,
		PurchaseDate: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	if ref != "" {
		o.ExternalPaymentRef = &ref
	}
	if err := s.InsertAtomic(context.Background(), o); err != nil {
		panic(err)
	}
	return o
}

type fakeDiscrepancies struct {
	mu       sync.Mutex
	recorded []*domain.PaymentDiscrepancy

	RecordFn  func(ctx context.Context, d *domain.PaymentDiscrepancy) error
	ResolveFn func(ctx context.Context, id int64, note string, at time.Time) error
}

func (f *fakeDiscrepancies) Record(ctx context.Context, d *domain.PaymentDiscrepancy) error {
	if f.RecordFn != nil {
		return f.RecordFn(ctx, d)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d.ID = int64(len(f.recorded) + 1)
	f.recorded = append(f.recorded, d)
	return nil
}

func (f *fakeDiscrepancies) ListUnresolved(_ context.Context, limit int) ([]*domain.PaymentDiscrepancy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit < len(f.recorded) {
		return slices.Clone(f.recorded[:limit]), nil
	}
	return slices.Clone(f.recorded), nil
}

func (f *fakeDiscrepancies) Resolve(ctx context.Context, id int64, note string, at time.Time) error {
	if f.ResolveFn != nil {
		return f.ResolveFn(ctx, id, note, at)
	}
	return nil
}

type recordingSink struct {
	mu   sync.Mutex
	sent []application.Notification
}

func (s *recordingSink) Send(n application.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
}

func (s *recordingSink) kinds() []application.NotificationKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]application.NotificationKind, 0, len(s.sent))
	for _, n := range s.sent {
		out = append(out, n.Kind)
	}
	return out
}
