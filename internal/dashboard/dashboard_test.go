package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelime/internal/models"
)

func profile(id string, points, words int) models.Profile {
	return models.Profile{ID: id, Username: id, Points: points, WordCount: words}
}

func ids(ps []models.Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestLeaderboardStable(t *testing.T) {
	in := []models.Profile{profile("a", 10, 0), profile("b", 30, 0), profile("c", 10, 0), profile("d", 50, 0)}

	ranked := Leaderboard(in)
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(ranked))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(in), "input is not modified")
	assert.ElementsMatch(t, in, ranked)

	assert.Equal(t, []string{"d", "b", "a"}, ids(Podium(ranked)))
	assert.Len(t, Podium(ranked[:2]), 2)
}

func TestBars(t *testing.T) {
	t.Run("floor scale", func(t *testing.T) {
		bars := Bars([]models.Profile{profile("a", 50, 0), profile("b", 0, 0)})
		require.Len(t, bars, 2)
		assert.InDelta(t, 0.5, bars[0].Ratio, 1e-9)
		assert.InDelta(t, MinBarRatio, bars[1].Ratio, 1e-9)
	})

	t.Run("top five of larger scores", func(t *testing.T) {
		ranked := Leaderboard([]models.Profile{
			profile("a", 400, 0), profile("b", 200, 0), profile("c", 100, 0),
			profile("d", 60, 0), profile("e", 40, 0), profile("f", 20, 0),
		})
		bars := Bars(ranked)
		require.Len(t, bars, BarCount)
		assert.InDelta(t, 1.0, bars[0].Ratio, 1e-9)
		assert.InDelta(t, 0.5, bars[1].Ratio, 1e-9)
		assert.InDelta(t, 0.25, bars[2].Ratio, 1e-9)
		assert.InDelta(t, MinBarRatio, bars[3].Ratio, 1e-9)
		assert.InDelta(t, MinBarRatio, bars[4].Ratio, 1e-9)
	})
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2025, time.February, 28},
		{2025, time.April, 30},
		{2025, time.January, 31},
		{2025, time.December, 31},
		{1900, time.February, 28},
		{2000, time.February, 29},
	}

	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
		grid := ActivityGrid([]models.Profile{profile("a", 0, 0)}, nil, tt.year, tt.month, time.UTC)
		assert.Len(t, grid[0].Cells, tt.want)
	}
}

func TestBandFor(t *testing.T) {
	counts := []int{0, 1, 2, 3, 4, 5, 9}
	want := []Band{BandNone, BandLow, BandLow, BandMedium, BandMedium, BandHigh, BandHigh}

	for i, c := range counts {
		assert.Equal(t, want[i], BandFor(c), "count %d", c)
	}
}

func TestGoalRatio(t *testing.T) {
	tests := []struct {
		words int
		want  float64
	}{
		{0, 0}, {50, 0.5}, {100, 1}, {150, 1}, {-3, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, GoalRatio(tt.words), 1e-9, "word_count %d", tt.words)
	}
}

func TestActivityGridScenario(t *testing.T) {
	at := func(day, hour int) time.Time {
		return time.Date(2025, time.January, day, hour, 0, 0, 0, time.UTC)
	}
	profiles := []models.Profile{profile("elif", 0, 3), profile("uraz", 0, 0)}
	words := []models.Word{
		{UserID: "elif", CreatedAt: at(5, 9)},
		{UserID: "elif", CreatedAt: at(5, 18)},
		{UserID: "elif", CreatedAt: at(20, 12)},
		{UserID: "elif", CreatedAt: time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)},
		{UserID: "elif", CreatedAt: time.Date(2025, time.February, 5, 9, 0, 0, 0, time.UTC)},
		{UserID: "ghost", CreatedAt: at(5, 9)},
	}

	grid := ActivityGrid(profiles, words, 2025, time.January, time.UTC)
	require.Len(t, grid, 2)

	for _, cell := range grid[0].Cells {
		switch cell.Day {
		case 5:
			assert.Equal(t, 2, cell.Count)
			assert.Equal(t, BandLow, cell.Band)
		case 20:
			assert.Equal(t, 1, cell.Count)
			assert.Equal(t, BandLow, cell.Band)
		default:
			assert.Zero(t, cell.Count, "day %d", cell.Day)
			assert.Equal(t, BandNone, cell.Band)
		}
	}
	for _, cell := range grid[1].Cells {
		assert.Zero(t, cell.Count)
	}
}

func TestActivityGridUsesLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	// 22:30 UTC on Jan 31 is Feb 1 in Istanbul
	words := []models.Word{{UserID: "a", CreatedAt: time.Date(2025, time.January, 31, 22, 30, 0, 0, time.UTC)}}
	profiles := []models.Profile{profile("a", 0, 1)}

	jan := ActivityGrid(profiles, words, 2025, time.January, istanbul)
	assert.Zero(t, jan[0].Cells[30].Count)

	feb := ActivityGrid(profiles, words, 2025, time.February, istanbul)
	assert.Equal(t, 1, feb[0].Cells[0].Count)
}

func TestYears(t *testing.T) {
	assert.Equal(t, []int{2024, 2025, 2026}, Years(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []int{2024}, Years(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBuild(t *testing.T) {
	profiles := []models.Profile{profile("a", 10, 20), profile("b", 90, 120)}
	recent := make([]models.RecentWord, 6)
	now := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)

	s := Build(profiles, recent, nil, 2025, time.May, now, time.UTC)
	assert.Equal(t, []string{"b", "a"}, ids(s.Leaderboard))
	assert.Len(t, s.Recent, RecentLimit)
	assert.Equal(t, 5, s.Month)
	require.Len(t, s.Goals, 2)
	assert.InDelta(t, 1.0, s.Goals[0].Ratio, 1e-9)
	assert.InDelta(t, 0.2, s.Goals[1].Ratio, 1e-9)
	assert.Equal(t, "b", s.Activity[0].Profile.ID)
}
