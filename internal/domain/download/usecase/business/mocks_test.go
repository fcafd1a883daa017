package business

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/repository/filesystem"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/repository/memory"
)

const (
	testChatID  int64 = 4242
	testVideoID       = "dQw4w9WgXcQ"
	mb                = 1 << 20
)

type sentMessage struct {
	ChatID   int64
	Text     string
	Keyboard *entities.Keyboard
	ID       int
}

// mockMessenger is a recording implementation of deps.Messenger
type mockMessenger struct {
	mu        sync.Mutex
	nextID    int
	sent      []sentMessage
	deleted   []int
	delivered []*entities.MediaFile
	stickers  []string
	answers   []string

	sendVideoFunc     func(ctx context.Context, chatID int64, file *entities.MediaFile) error
	sendAudioFunc     func(ctx context.Context, chatID int64, file *entities.MediaFile) error
	deleteMessageFunc func(ctx context.Context, chatID int64, messageID int) error
}

func (m *mockMessenger) SendMessage(_ context.Context, chatID int64, text string, keyboard *entities.Keyboard) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text, Keyboard: keyboard, ID: m.nextID})
	return m.nextID, nil
}

func (m *mockMessenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, messageID)
	m.mu.Unlock()
	if m.deleteMessageFunc != nil {
		return m.deleteMessageFunc(ctx, chatID, messageID)
	}
	return nil
}

func (m *mockMessenger) SendVideo(ctx context.Context, chatID int64, file *entities.MediaFile) error {
	m.record(file)
	if m.sendVideoFunc != nil {
		return m.sendVideoFunc(ctx, chatID, file)
	}
	return nil
}

func (m *mockMessenger) SendAudio(ctx context.Context, chatID int64, file *entities.MediaFile) error {
	m.record(file)
	if m.sendAudioFunc != nil {
		return m.sendAudioFunc(ctx, chatID, file)
	}
	return nil
}

func (m *mockMessenger) SendSticker(_ context.Context, _ int64, stickerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stickers = append(m.stickers, stickerID)
	return nil
}

func (m *mockMessenger) AnswerCallback(_ context.Context, _ string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, text)
	return nil
}

func (m *mockMessenger) record(file *entities.MediaFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivered = append(m.delivered, file)
}

func (m *mockMessenger) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		out = append(out, msg.Text)
	}
	return out
}

func (m *mockMessenger) deletedIDs() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.deleted...)
}

func (m *mockMessenger) deliveredFiles() []*entities.MediaFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.MediaFile(nil), m.delivered...)
}

// mockVideoHost is a mock implementation of deps.VideoHost
type mockVideoHost struct {
	fetchMetadataFunc func(ctx context.Context, videoID string) (*entities.VideoMetadata, error)
	openStreamFunc    func(ctx context.Context, videoID string, mode entities.Mode) (*entities.Stream, error)
}

func (m *mockVideoHost) FetchMetadata(ctx context.Context, videoID string) (*entities.VideoMetadata, error) {
	if m.fetchMetadataFunc != nil {
		return m.fetchMetadataFunc(ctx, videoID)
	}
	return metadataWithSize(videoID, 10), nil
}

func (m *mockVideoHost) OpenStream(ctx context.Context, videoID string, mode entities.Mode) (*entities.Stream, error) {
	if m.openStreamFunc != nil {
		return m.openStreamFunc(ctx, videoID, mode)
	}
	return contentStream("media-bytes", mode), nil
}

// sizedStore reports a fixed size for every file it holds
type sizedStore struct {
	*filesystem.Store
	size int64
}

func (s *sizedStore) Size(string) (int64, error) {
	return s.size, nil
}

// faultyStore fails Create or Remove with the configured errors
type faultyStore struct {
	*filesystem.Store
	createErr error
	removeErr error
}

func (s *faultyStore) Create(chatID int64, mode entities.Mode, ext string) (*os.File, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.Store.Create(chatID, mode, ext)
}

func (s *faultyStore) Remove(path string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	return s.Store.Remove(path)
}

// mockPublisher is a recording implementation of deps.EventPublisher
type mockPublisher struct {
	mu      sync.Mutex
	records []*entities.DownloadRecord
}

func (m *mockPublisher) PublishDownloadFinished(_ context.Context, record *entities.DownloadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

// mockArchive is a mock implementation of deps.Archive
type mockArchive struct {
	storeFunc func(ctx context.Context, chatID int64, file *entities.MediaFile) (string, error)
}

func (m *mockArchive) Store(ctx context.Context, chatID int64, file *entities.MediaFile) (string, error) {
	if m.storeFunc != nil {
		return m.storeFunc(ctx, chatID, file)
	}
	return "", nil
}

// mockProbe is a mock implementation of deps.SystemProbe
type mockProbe struct {
	snapshot *entities.SystemSnapshot
	err      error
}

func (m *mockProbe) Snapshot(context.Context, string) (*entities.SystemSnapshot, error) {
	return m.snapshot, m.err
}

// mockMetrics records pipeline transitions and ignores everything else
type mockMetrics struct {
	mu            sync.Mutex
	transitions   []string
	rejected      int
	cleanupErrors []string
}

func (m *mockMetrics) RecordEvent(string) {}
func (m *mockMetrics) RecordRateLimited() {}
func (m *mockMetrics) RecordMetadataFetch(string, float64) {}
func (m *mockMetrics) PipelineStarted() {}
func (m *mockMetrics) PipelineFinished(string, string, string) {}
func (m *mockMetrics) RecordDownload(string, int64, float64) {}

func (m *mockMetrics) RecordCleanupError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupErrors = append(m.cleanupErrors, kind)
}

func (m *mockMetrics) RecordOptionsRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected++
}

func (m *mockMetrics) RecordTransition(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, state)
}

// testEnv holds a UseCase and its collaborators
type testEnv struct {
	uc        *UseCase
	messenger *mockMessenger
	host      *mockVideoHost
	store     *filesystem.Store
	history   deps.HistoryRepository
	events    *mockPublisher
	archive   *mockArchive
	probe     *mockProbe
	metrics   *mockMetrics
}

// newTestEnv builds a UseCase over a real store in a temp dir.
// wrap, when set, replaces the store the use case sees.
func newTestEnv(t *testing.T, wrap func(*filesystem.Store) deps.MediaStore) *testEnv {
	t.Helper()

	store, err := filesystem.NewStore(filepath.Join(t.TempDir(), "media"), zerolog.Nop())
	require.NoError(t, err)

	env := &testEnv{
		messenger: &mockMessenger{},
		host:      &mockVideoHost{},
		store:     store,
		history:   memory.NewHistoryRepository(100),
		events:    &mockPublisher{},
		archive:   &mockArchive{},
		probe:     &mockProbe{},
		metrics:   &mockMetrics{},
	}

	var mediaStore deps.MediaStore = store
	if wrap != nil {
		mediaStore = wrap(store)
	}

	settings := Settings{
		MaxFileSizeMB:   50,
		DownloadTimeout: time.Minute,
		OwnerChatID:     1,
		TempDir:         store.Dir(),
	}

	env.uc = NewUseCase(
		env.host,
		mediaStore,
		env.history,
		env.events,
		env.archive,
		env.probe,
		env.metrics,
		NewRunner(zerolog.Nop()),
		settings,
		zerolog.Nop(),
	)
	env.uc.SetSender(env.messenger)

	return env
}

func withSize(size int64) func(*filesystem.Store) deps.MediaStore {
	return func(store *filesystem.Store) deps.MediaStore {
		return &sizedStore{Store: store, size: size}
	}
}

// leftovers lists files remaining in the media directory
func (e *testEnv) leftovers(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.store.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func metadataWithSize(videoID string, sizeMB int64) *entities.VideoMetadata {
	return &entities.VideoMetadata{
		ID:       videoID,
		Title:    "Test <Video>",
		Likes:    -1,
		Duration: 212 * time.Second,
		Author:   "Tester",
		Formats: []entities.Format{
			{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Width: 640, Height: 360, AudioChannels: 2, Bitrate: 500000, ContentLength: sizeMB * mb},
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, Bitrate: 128000, ContentLength: 3 * mb},
		},
	}
}

func contentStream(content string, mode entities.Mode) *entities.Stream {
	format := entities.Format{ItagNo: 18, MimeType: "video/mp4", Width: 640, Height: 360, AudioChannels: 2}
	if mode == entities.ModeAudio {
		format = entities.Format{ItagNo: 140, MimeType: "audio/mp4", AudioChannels: 2}
	}
	return &entities.Stream{
		Body:   io.NopCloser(strings.NewReader(content)),
		Format: format,
		Size:   int64(len(content)),
		Title:  "Test Video",
		Author: "Tester",
	}
}
