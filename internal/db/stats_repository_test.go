package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tiebago/tieba/internal/models"
)

func TestStatsRoundTrip(t *testing.T) {
	repo := NewStatsRepository(openTestDB(t))

	stats := models.MessageStats{
		UnreadCount:   7,
		UnreadSystem:  1,
		UnreadReply:   2,
		UnreadLike:    1,
		UnreadFollow:  1,
		UnreadMention: 1,
		UnreadPrivate: 1,
	}
	require.NoError(t, repo.Save(stats))

	loaded, savedAt, err := repo.Load()
	require.NoError(t, err)
	require.Equal(t, stats, loaded)
	require.WithinDuration(t, time.Now(), savedAt, 5*time.Second)
}

func TestStatsSaveOverwrites(t *testing.T) {
	repo := NewStatsRepository(openTestDB(t))

	require.NoError(t, repo.Save(models.MessageStats{UnreadCount: 3, UnreadReply: 3}))
	require.NoError(t, repo.Save(models.MessageStats{UnreadCount: 1, UnreadLike: 1}))

	loaded, _, err := repo.Load()
	require.NoError(t, err)
	require.Equal(t, 1, loaded.UnreadCount)
	require.Equal(t, 1, loaded.UnreadLike)
	require.Zero(t, loaded.UnreadReply)
}

func TestStatsLoadWithoutSnapshot(t *testing.T) {
	repo := NewStatsRepository(openTestDB(t))

	_, _, err := repo.Load()
	require.ErrorIs(t, err, ErrNoCachedStats)
}
