package store

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func exerciseStore(t *testing.T, s EpisodeStore, code string) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := &EpisodeRecord{
			ArenaCode:  code,
			Episode:    i,
			Outcome:    "blue_win",
			Steps:      10 * (i + 1),
			BlueReward: 1,
			RedReward:  -1,
			EndedAt:    time.Now().UTC(),
		}
		require.NoError(t, s.SaveEpisode(ctx, rec))
		assert.NotZero(t, rec.ID)
	}
	require.NoError(t, s.SaveEpisode(ctx, &EpisodeRecord{ArenaCode: code + "X", Outcome: "red_win"}))

	all, err := s.ListEpisodes(ctx, code, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, 4, all[0].Episode, "newest first")
	assert.Equal(t, 0, all[4].Episode)

	recent, err := s.ListEpisodes(ctx, code, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, []int{4, 3}, []int{recent[0].Episode, recent[1].Episode})

	none, err := s.ListEpisodes(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s, "ABC123")
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := OpenPostgres(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	// unique code so reruns against the same database don't collide
	exerciseStore(t, s, uuid.NewString()[:8])
}

func TestOpenPostgres_BadDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "postgres://%zz", zap.NewNop())
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	recs := []EpisodeRecord{
		{Outcome: "blue_win", Steps: 10, BlueReward: 1.5, RedReward: -1},
		{Outcome: "red_win", Steps: 20, BlueReward: -1, RedReward: 1.5},
		{Outcome: "blue_win", Steps: 30, BlueReward: 1.5, RedReward: -1},
		{Outcome: "interrupted", Steps: 40, BlueReward: 0, RedReward: 0},
	}

	s := Summarize(recs)

	assert.Equal(t, 4, s.Episodes)
	assert.Equal(t, map[string]int{"blue_win": 2, "red_win": 1, "interrupted": 1}, s.Outcomes)
	assert.InDelta(t, 0.5, s.BlueReward.Mean, 1e-12)
	assert.InDelta(t, -0.125, s.RedReward.Mean, 1e-12)
	assert.InDelta(t, 25, s.Steps.Mean, 1e-12)
	// sample standard deviation of 10,20,30,40
	assert.InDelta(t, math.Sqrt(500.0/3), s.Steps.StdDev, 1e-9)
}

func TestSummarize_Small(t *testing.T) {
	empty := Summarize(nil)
	assert.Zero(t, empty.Episodes)
	assert.Empty(t, empty.Outcomes)

	one := Summarize([]EpisodeRecord{{Outcome: "out_of_bounds", Steps: 7, RedReward: -1}})
	assert.Equal(t, 7.0, one.Steps.Mean)
	assert.Zero(t, one.Steps.StdDev)
	assert.False(t, math.IsNaN(one.RedReward.StdDev))
}
