package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kelime/internal/avatar"
	"kelime/internal/dashboard"
	"kelime/internal/service"
)

// DashboardHandler serves the family dashboard
type DashboardHandler struct {
	dashboardService *service.DashboardService
	avatars          *avatar.Resolver
	logger           *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, avatars *avatar.Resolver, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		avatars:          avatars,
		logger:           logger,
	}
}

// Dashboard returns the summary for the month and year given in the query.
// Missing values mean the current month.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r, h.dashboardService.Now())
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, MsgInvalidRequest, "", nil)
		return
	}

	summary, err := h.dashboardService.Summary(r.Context(), year, month)
	if err != nil {
		respondWithServiceError(w, h.logger, err, MsgDashboardFailed, "Failed to build dashboard")
		return
	}

	avatars := make(map[string]string, len(summary.Leaderboard)+len(summary.Recent))
	for _, p := range summary.Leaderboard {
		avatars[p.Username] = h.avatars.Resolve(p.Username, p.AvatarURL)
	}
	for _, rw := range summary.Recent {
		if _, ok := avatars[rw.Owner.Username]; !ok {
			avatars[rw.Owner.Username] = h.avatars.Resolve(rw.Owner.Username, rw.Owner.AvatarURL)
		}
	}

	respondWithJSON(w, http.StatusOK, DashboardResponse{Summary: summary, Avatars: avatars})
}

var errInvalidPeriod = errors.New("invalid period")

// parsePeriod reads ?year= and ?month=. Zero values are left for the
// service to fill in.
func parsePeriod(r *http.Request, now time.Time) (int, time.Month, error) {
	var (
		year  int
		month int
		err   error
	)
	if v := r.URL.Query().Get("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil || year < dashboard.FirstYear || year > now.Year() {
			return 0, 0, errInvalidPeriod
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return 0, 0, errInvalidPeriod
		}
	}
	return year, time.Month(month), nil
}
