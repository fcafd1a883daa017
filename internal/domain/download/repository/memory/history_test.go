package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

func TestHistoryRepository_ListAndStats(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(10)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	records := []entities.DownloadRecord{
		{ID: "1", ChatID: 1, State: "DONE", Bytes: 100, FinishedAt: base},
		{ID: "2", ChatID: 2, State: "ERROR", FinishedAt: base.Add(time.Minute)},
		{ID: "3", ChatID: 1, State: "DONE", Bytes: 50, FinishedAt: base.Add(2 * time.Minute)},
	}
	for i := range records {
		require.NoError(t, repo.Save(ctx, &records[i]))
	}

	list, err := repo.ListByChat(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "3", list[0].ID)
	assert.Equal(t, "1", list[1].ID)

	list, err = repo.ListByChat(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByState["DONE"])
	assert.Equal(t, int64(1), stats.ByState["ERROR"])
	assert.Equal(t, int64(150), stats.TotalBytes)
}

func TestHistoryRepository_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(2)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, &entities.DownloadRecord{ID: id, ChatID: 9}))
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)

	list, err := repo.ListByChat(ctx, 9, 0)
	require.NoError(t, err)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{"b", "c"}, ids)
}
