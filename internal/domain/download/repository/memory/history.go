// Package memory contains in-memory repository implementations
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

// DefaultCapacity bounds the number of kept records
const DefaultCapacity = 1000

type historyRepository struct {
	mu       sync.RWMutex
	records  []entities.DownloadRecord
	capacity int
}

// NewHistoryRepository creates a history that keeps the latest capacity records
func NewHistoryRepository(capacity int) deps.HistoryRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &historyRepository{capacity: capacity}
}

// Save saves a finished pipeline run, evicting the oldest record when full
func (r *historyRepository) Save(_ context.Context, record *entities.DownloadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.records) >= r.capacity {
		r.records = r.records[1:]
	}
	r.records = append(r.records, *record)
	return nil
}

// ListByChat returns the latest records of a chat, newest first
func (r *historyRepository) ListByChat(_ context.Context, chatID int64, limit int) ([]entities.DownloadRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entities.DownloadRecord
	for _, rec := range r.records {
		if rec.ChatID == chatID {
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats aggregates all kept records
func (r *historyRepository) Stats(_ context.Context) (*entities.DownloadStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &entities.DownloadStats{ByState: make(map[string]int64)}
	for _, rec := range r.records {
		stats.Total++
		stats.ByState[rec.State]++
		stats.TotalBytes += rec.Bytes
	}
	return stats, nil
}
