// Package worker runs background loops next to the HTTP server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

// UnresolvedLister reads the manual reconciliation queue.
type UnresolvedLister interface {
	ListUnresolved(ctx context.Context, limit int) ([]*domain.PaymentDiscrepancy, error)
}

// DiscrepancyMonitor periodically reports payment discrepancies nobody has
// resolved yet. It never resolves anything itself.
type DiscrepancyMonitor struct {
	repo      UnresolvedLister
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewDiscrepancyMonitor(
	repo UnresolvedLister,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *DiscrepancyMonitor {
	return &DiscrepancyMonitor{
		repo:      repo,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (m *DiscrepancyMonitor) Start(ctx context.Context) {
	m.logger.Info("discrepancy monitor started", "interval", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("discrepancy monitor stopping")
			return
		case <-ticker.C:
			if _, err := m.RunOnce(ctx); err != nil {
				m.logger.Error("discrepancy check failed", "error", err)
			}
		}
	}
}

// RunOnce logs each unresolved entry at ERROR and returns how many were found.
func (m *DiscrepancyMonitor) RunOnce(ctx context.Context) (int, error) {
	pending, err := m.repo.ListUnresolved(ctx, m.batchSize)
	if err != nil {
		return 0, err
	}

	for _, d := range pending {
		m.logger.Error("unresolved payment discrepancy",
			"discrepancy_id", d.ID,
			"external_ref", d.ExternalRef,
			"user_id", d.UserID,
			"expected_minor", d.ExpectedMinor,
			"captured_minor", d.CapturedMinor,
			"age", time.Since(d.DetectedAt).Round(time.Second).String(),
		)
	}

	if len(pending) > 0 {
		m.logger.Error("payment discrepancies awaiting manual reconciliation", "count", len(pending))
	}
	return len(pending), nil
}
