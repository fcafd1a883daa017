// Package entities contains domain entities for the download domain
package entities

import (
	"io"
	"time"
)

// Mode is the kind of media the user asked for
type Mode string

const (
	ModeVideo Mode = "video"
	ModeAudio Mode = "audio"
)

// Valid reports whether m belongs to the closed set of modes
func (m Mode) Valid() bool {
	return m == ModeVideo || m == ModeAudio
}

// RequestContext identifies one download request
type RequestContext struct {
	ChatID  int64
	VideoID string
	Mode    Mode
}

// Format describes one stream offered by the hosting platform
type Format struct {
	ItagNo        int
	MimeType      string
	QualityLabel  string
	Bitrate       int
	Width         int
	Height        int
	AudioChannels int
	ContentLength int64
}

// HasVideo reports whether the format carries a video track
func (f Format) HasVideo() bool {
	return f.Width > 0 && f.Height > 0
}

// HasAudio reports whether the format carries an audio track
func (f Format) HasAudio() bool {
	return f.AudioChannels > 0
}

// VideoMetadata holds what the platform reports about a video
type VideoMetadata struct {
	ID        string
	Title     string
	Likes     int64 // -1 when the backend does not report likes
	Duration  time.Duration
	Author    string
	AuthorURL string
	Uploaded  time.Time
	Formats   []Format

	// Best is the best combined audio+video format with a declared size
	Best   Format
	SizeMB int64
}

// Stream is an open download of one format
type Stream struct {
	Body   io.ReadCloser
	Format Format
	// Size is the length announced by the server, 0 when unknown
	Size int64

	Title    string
	Author   string
	Duration time.Duration
}

// MediaFile is a finished download on local storage
type MediaFile struct {
	Path     string
	Mode     Mode
	Bytes    int64
	Title    string
	Author   string
	Duration time.Duration
	// UploadName is the file name shown to the user
	UploadName string
}

// Button is one inline keyboard button
type Button struct {
	Text         string
	CallbackData string
}

// Keyboard is an inline keyboard attached to a message
type Keyboard struct {
	Rows [][]Button
}

// DownloadRecord is the history entry of one finished pipeline run
type DownloadRecord struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	ChatID     int64     `gorm:"not null;index"`
	VideoID    string    `gorm:"not null;size:11;index"`
	Mode       string    `gorm:"not null;size:8"`
	State      string    `gorm:"not null;size:16"`
	Bytes      int64     `gorm:"not null;default:0"`
	SizeMB     int64     `gorm:"not null;default:0"`
	Error      string    `gorm:"type:text"`
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DownloadRecord) TableName() string {
	return "download_history"
}

// SystemSnapshot holds host figures shown to the bot owner
type SystemSnapshot struct {
	CPUPercent float64
	MemUsed    uint64
	MemTotal   uint64
	DiskFree   uint64
	DiskTotal  uint64
	Uptime     time.Duration
	Goroutines int
}

// DownloadStats aggregates history records
type DownloadStats struct {
	Total      int64
	ByState    map[string]int64
	TotalBytes int64
}

// State is a Delivery Pipeline state
type State string

const (
	StateNotifiedStart State = "NOTIFIED_START"
	StateDownloading   State = "DOWNLOADING"
	StateSizeCheck     State = "SIZE_CHECK"
	StateSending       State = "SENDING"
	StateDone          State = "DONE"
	StateError         State = "ERROR"
)

// Terminal reports whether no transition leaves s
func (s State) Terminal() bool {
	return s == StateDone || s == StateError
}
