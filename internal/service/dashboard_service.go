package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"kelime/internal/dashboard"
	"kelime/internal/models"
	"kelime/internal/store"
)

// DashboardService fetches the dashboard inputs and aggregates them
type DashboardService struct {
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

// NewDashboardService creates a new dashboard service. Calendar days are
// bucketed in loc.
func NewDashboardService(s store.Store, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{store: s, loc: loc, now: time.Now}
}

// Now returns the current time in the dashboard's location
func (s *DashboardService) Now() time.Time {
	return s.now().In(s.loc)
}

// Summary builds the dashboard for month of year. A zero year or month
// means the current one.
func (s *DashboardService) Summary(ctx context.Context, year int, month time.Month) (*dashboard.Summary, error) {
	now := s.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}

	var (
		profiles []models.Profile
		recent   []models.RecentWord
		words    []models.Word
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = s.store.ListProfilesByPointsDesc(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.store.ListRecentWords(gctx, dashboard.RecentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		words, err = s.store.ListAllWords(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	summary := dashboard.Build(profiles, recent, words, year, month, now, s.loc)
	return &summary, nil
}
