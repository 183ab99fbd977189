package service

import (
	"context"
	"fmt"
	"log/slog"

	"kelime/internal/store"
)

// ReconcileService repairs word_count drift left by failed counter calls
type ReconcileService struct {
	store  store.Store
	logger *slog.Logger
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(s store.Store, logger *slog.Logger) *ReconcileService {
	return &ReconcileService{store: s, logger: logger}
}

// Reconcile counts every profile's words and corrects word_count where it
// differs. It returns how many profiles were repaired.
func (s *ReconcileService) Reconcile(ctx context.Context) (int, error) {
	profiles, err := s.store.ListProfilesByPointsDesc(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	words, err := s.store.ListAllWords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list words: %w", err)
	}

	owned := make(map[string]int, len(profiles))
	for _, w := range words {
		owned[w.UserID]++
	}

	repaired := 0
	for _, p := range profiles {
		if owned[p.ID] == p.WordCount {
			continue
		}
		// The lists above are not one snapshot; recount in the store
		actual, err := s.store.RecountWordCount(ctx, p.ID)
		if err != nil {
			s.logger.Error("Failed to repair word count", slog.String("user_id", p.ID), slog.Any("error", err))
			continue
		}
		s.logger.Warn("Repaired word count",
			slog.String("kind", KindConsistencyWarning),
			slog.String("user_id", p.ID),
			slog.Int("stored", p.WordCount),
			slog.Int("actual", actual))
		repaired++
	}
	return repaired, nil
}
