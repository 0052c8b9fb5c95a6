package store

import (
	"context"
	"time"
)

// EpisodeRecord is one finished episode of one arena.
type EpisodeRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ArenaCode  string    `gorm:"size:16;index:idx_arena_episode,priority:1;not null" json:"arena_code"`
	Episode    int       `gorm:"index:idx_arena_episode,priority:2" json:"episode"`
	Outcome    string    `gorm:"size:32;not null" json:"outcome"`
	Steps      int       `json:"steps"`
	BlueReward float64   `json:"blue_reward"`
	RedReward  float64   `json:"red_reward"`
	EndedAt    time.Time `json:"ended_at"`
}

type EpisodeStore interface {
	SaveEpisode(ctx context.Context, rec *EpisodeRecord) error
	// ListEpisodes returns the newest records first. limit <= 0 means all.
	ListEpisodes(ctx context.Context, arenaCode string, limit int) ([]EpisodeRecord, error)
	Close() error
}
