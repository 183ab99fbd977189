// Package dashboard derives the leaderboard, activity heat-map and goal
// progress from raw profile and word lists. Everything here is pure.
package dashboard

import (
	"sort"
	"time"

	"kelime/internal/models"
)

const (
	// BarFloorPoints is the minimum scale of the bar chart
	BarFloorPoints = 100
	// MinBarRatio keeps zero-point bars visible
	MinBarRatio = 0.2
	// BarCount is how many ranked profiles the bar chart shows
	BarCount    = 5
	PodiumSize  = 3
	WordGoal    = 100
	RecentLimit = 4
	// FirstYear is the earliest selectable year
	FirstYear = 2024
)

// Band is a heat-map intensity bucket
type Band string

const (
	BandNone   Band = "none"
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Leaderboard returns profiles sorted by points descending. Ties keep their
// input order. The input is not modified.
func Leaderboard(profiles []models.Profile) []models.Profile {
	out := make([]models.Profile, len(profiles))
	copy(out, profiles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}

// Podium returns ranks 1 to 3 of an already ranked list
func Podium(ranked []models.Profile) []models.Profile {
	if len(ranked) > PodiumSize {
		return ranked[:PodiumSize]
	}
	return ranked
}

// Bar is one entry of the points bar chart
type Bar struct {
	Profile models.Profile `json:"profile"`
	Ratio   float64        `json:"ratio"`
}

// Bars scales the top five ranked profiles against the highest score of
// all profiles, never lower than BarFloorPoints
func Bars(ranked []models.Profile) []Bar {
	scale := BarFloorPoints
	for _, p := range ranked {
		scale = max(scale, p.Points)
	}

	n := min(len(ranked), BarCount)
	bars := make([]Bar, n)
	for i, p := range ranked[:n] {
		bars[i] = Bar{Profile: p, Ratio: max(float64(p.Points)/float64(scale), MinBarRatio)}
	}
	return bars
}

// DaysIn returns the number of days of month in year
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BandFor maps a day's word count to its heat-map band
func BandFor(count int) Band {
	switch {
	case count <= 0:
		return BandNone
	case count <= 2:
		return BandLow
	case count <= 4:
		return BandMedium
	default:
		return BandHigh
	}
}

// Cell is one day of a heat-map row
type Cell struct {
	Day   int  `json:"day"`
	Count int  `json:"count"`
	Band  Band `json:"band"`
}

// ActivityRow is one profile's month of activity
type ActivityRow struct {
	Profile models.Profile `json:"profile"`
	Cells   []Cell         `json:"cells"`
}

// ActivityGrid counts, for every profile and every day of the month, the
// words the profile created on that day as seen in loc
func ActivityGrid(profiles []models.Profile, words []models.Word, year int, month time.Month, loc *time.Location) []ActivityRow {
	if loc == nil {
		loc = time.UTC
	}
	days := DaysIn(year, month)

	counts := make(map[string][]int, len(profiles))
	for _, p := range profiles {
		counts[p.ID] = make([]int, days+1)
	}
	for _, w := range words {
		perDay, ok := counts[w.UserID]
		if !ok {
			continue
		}
		y, m, d := w.CreatedAt.In(loc).Date()
		if y == year && m == month {
			perDay[d]++
		}
	}

	rows := make([]ActivityRow, len(profiles))
	for i, p := range profiles {
		cells := make([]Cell, days)
		for d := 1; d <= days; d++ {
			n := counts[p.ID][d]
			cells[d-1] = Cell{Day: d, Count: n, Band: BandFor(n)}
		}
		rows[i] = ActivityRow{Profile: p, Cells: cells}
	}
	return rows
}

// GoalRatio is progress towards WordGoal words, clamped to [0, 1]
func GoalRatio(wordCount int) float64 {
	if wordCount <= 0 {
		return 0
	}
	return min(float64(wordCount)/WordGoal, 1.0)
}

// Goal is one profile's progress towards the word goal
type Goal struct {
	Profile models.Profile `json:"profile"`
	Ratio   float64        `json:"ratio"`
}

func Goals(ranked []models.Profile) []Goal {
	goals := make([]Goal, len(ranked))
	for i, p := range ranked {
		goals[i] = Goal{Profile: p, Ratio: GoalRatio(p.WordCount)}
	}
	return goals
}

// Years lists the selectable years from FirstYear through now's year
func Years(now time.Time) []int {
	var years []int
	for y := FirstYear; y <= now.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// Summary is the full dashboard payload
type Summary struct {
	Year        int                 `json:"year"`
	Month       int                 `json:"month"`
	Years       []int               `json:"years"`
	Leaderboard []models.Profile    `json:"leaderboard"`
	Podium      []models.Profile    `json:"podium"`
	Bars        []Bar               `json:"bars"`
	Activity    []ActivityRow       `json:"activity"`
	Goals       []Goal              `json:"goals"`
	Recent      []models.RecentWord `json:"recent"`
}

// Build assembles the dashboard for the given month
func Build(profiles []models.Profile, recent []models.RecentWord, words []models.Word, year int, month time.Month, now time.Time, loc *time.Location) Summary {
	ranked := Leaderboard(profiles)
	if recent == nil {
		recent = []models.RecentWord{}
	}
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return Summary{
		Year:        year,
		Month:       int(month),
		Years:       Years(now),
		Leaderboard: ranked,
		Podium:      Podium(ranked),
		Bars:        Bars(ranked),
		Activity:    ActivityGrid(ranked, words, year, month, loc),
		Goals:       Goals(ranked),
		Recent:      recent,
	}
}
