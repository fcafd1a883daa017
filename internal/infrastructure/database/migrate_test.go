package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"migrations/000001_download_history.up.sql",
		"migrations/000001_download_history.down.sql",
	}, names)

	up, err := fs.ReadFile(migrationsFS, "migrations/000001_download_history.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS download_history")
}

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "bot",
		Password: "secret",
		Name:     "downloads",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=bot password=secret dbname=downloads sslmode=disable", DSN(cfg))
}
