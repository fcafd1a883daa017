// Package postgres contains PostgreSQL repository implementations
package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new download history repository
func NewHistoryRepository(db *gorm.DB) deps.HistoryRepository {
	return &historyRepository{db: db}
}

// Save saves a finished pipeline run
func (r *historyRepository) Save(ctx context.Context, record *entities.DownloadRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByChat returns the latest records of a chat, newest first
func (r *historyRepository) ListByChat(ctx context.Context, chatID int64, limit int) ([]entities.DownloadRecord, error) {
	var records []entities.DownloadRecord
	query := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("finished_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

type stateCount struct {
	State string
	Count int64
	Bytes int64
}

// Stats aggregates all records
func (r *historyRepository) Stats(ctx context.Context) (*entities.DownloadStats, error) {
	var rows []stateCount
	err := r.db.WithContext(ctx).
		Model(&entities.DownloadRecord{}).
		Select("state, COUNT(*) AS count, COALESCE(SUM(bytes), 0) AS bytes").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &entities.DownloadStats{ByState: make(map[string]int64, len(rows))}
	for _, row := range rows {
		stats.Total += row.Count
		stats.TotalBytes += row.Bytes
		stats.ByState[row.State] = row.Count
	}
	return stats, nil
}
