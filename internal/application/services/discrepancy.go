package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
)

// DiscrepancyService exposes the manual reconciliation queue to admins.
type DiscrepancyService struct {
	repo   application.DiscrepancyRepository
	clock  application.Clock
	logger *slog.Logger
}

func NewDiscrepancyService(repo application.DiscrepancyRepository, clock application.Clock, logger *slog.Logger) *DiscrepancyService {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &DiscrepancyService{repo: repo, clock: clock, logger: logger}
}

func (s *DiscrepancyService) ListUnresolved(ctx context.Context, limit int) ([]*domain.PaymentDiscrepancy, error) {
	items, err := s.repo.ListUnresolved(ctx, clampLimit(limit))
	if err != nil {
		return nil, storeFailure(err)
	}
	return items, nil
}

// Resolve marks an entry as handled. The note records what the operator did.
func (s *DiscrepancyService) Resolve(ctx context.Context, id int64, note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return domain.NewMissingRequiredFieldError("resolution note")
	}

	if err := s.repo.Resolve(ctx, id, note, s.clock.Now()); err != nil {
		return storeFailure(err)
	}

	s.logger.Info("payment discrepancy resolved", "discrepancy_id", id)
	return nil
}
