package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "media"), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestStore_CreateNamesFile(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.Unix(0, 1700000000123456789) }

	file, err := store.Create(12345, entities.ModeVideo, "mp4")
	require.NoError(t, err)
	defer file.Close()

	name := filepath.Base(file.Name())
	assert.True(t, strings.HasPrefix(name, "video_12345_1700000000123456789_"), name)
	assert.True(t, strings.HasSuffix(name, ".mp4"), name)
	assert.Equal(t, store.Dir(), filepath.Dir(file.Name()))
}

func TestStore_SameTickIsUnique(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.Unix(0, 42) }

	first, err := store.Create(1, entities.ModeAudio, ".m4a")
	require.NoError(t, err)
	defer first.Close()

	second, err := store.Create(1, entities.ModeAudio, ".m4a")
	require.NoError(t, err)
	defer second.Close()

	assert.NotEqual(t, first.Name(), second.Name())
}

func TestStore_ConcurrentChats(t *testing.T) {
	store := newTestStore(t)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		names = make(map[string]struct{})
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			file, err := store.Create(chatID, entities.ModeVideo, ".mp4")
			if !assert.NoError(t, err) {
				return
			}
			file.Close()

			mu.Lock()
			names[file.Name()] = struct{}{}
			mu.Unlock()
		}(int64(i % 2))
	}
	wg.Wait()

	assert.Len(t, names, 20)
}

func TestStore_RemoveAndSize(t *testing.T) {
	store := newTestStore(t)

	file, err := store.Create(7, entities.ModeVideo, ".mp4")
	require.NoError(t, err)
	_, err = file.WriteString("hello")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	size, err := store.Size(file.Name())
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	require.NoError(t, store.Remove(file.Name()))
	_, err = os.Stat(file.Name())
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	assert.NoError(t, store.Remove(file.Name()))
	assert.NoError(t, store.Remove(""))
}

func TestStore_HealthCheck(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.HealthCheck(context.Background()))

	require.NoError(t, os.RemoveAll(store.Dir()))
	assert.Error(t, store.HealthCheck(context.Background()))
}
