package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tiebago/tieba/internal/models"
)

const statsSlot = "default"

// ErrNoCachedStats is returned when no snapshot has been saved yet.
var ErrNoCachedStats = errors.New("no cached unread stats")

// StatsRepository persists the last computed unread counters so they can
// be shown before (or without) a successful fetch.
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates an unread-stats repository.
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Save replaces the cached snapshot.
func (r *StatsRepository) Save(stats models.MessageStats) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.conn.Exec(
		`INSERT INTO unread_stats (slot, total, system, reply, liked, follow, mention, private, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
			total = excluded.total,
			system = excluded.system,
			reply = excluded.reply,
			liked = excluded.liked,
			follow = excluded.follow,
			mention = excluded.mention,
			private = excluded.private,
			updated_at = excluded.updated_at`,
		statsSlot, stats.UnreadCount, stats.UnreadSystem, stats.UnreadReply,
		stats.UnreadLike, stats.UnreadFollow, stats.UnreadMention, stats.UnreadPrivate, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save unread stats: %w", err)
	}
	return nil
}

// Load returns the cached snapshot and when it was saved.
func (r *StatsRepository) Load() (models.MessageStats, time.Time, error) {
	var stats models.MessageStats
	var updatedAt string

	err := r.db.conn.QueryRow(
		`SELECT total, system, reply, liked, follow, mention, private, updated_at
		 FROM unread_stats WHERE slot = ?`, statsSlot,
	).Scan(&stats.UnreadCount, &stats.UnreadSystem, &stats.UnreadReply,
		&stats.UnreadLike, &stats.UnreadFollow, &stats.UnreadMention,
		&stats.UnreadPrivate, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MessageStats{}, time.Time{}, ErrNoCachedStats
	}
	if err != nil {
		return models.MessageStats{}, time.Time{}, fmt.Errorf("failed to load unread stats: %w", err)
	}

	saved, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		saved = time.Time{}
	}
	return stats, saved, nil
}
