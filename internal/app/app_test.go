package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestCreateApp(t *testing.T) {
	// Set required environment variables for test
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token-123")
	t.Setenv("DOWNLOAD_TEMP_DIR", t.TempDir())

	// Validate fx dependency graph
	require.NoError(t, fx.ValidateApp(CreateApp()))
}

func TestCreateApp_WithOptionalSubsystems(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token-123")
	t.Setenv("KAFKA_BROKERS", "localhost:9093")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("S3_ENDPOINT", "localhost:9000")
	t.Setenv("S3_ACCESS_KEY", "minio")
	t.Setenv("S3_SECRET_KEY", "minio123")

	require.NoError(t, fx.ValidateApp(CreateApp()))
}
