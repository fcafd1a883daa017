package workers

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agshin2004/yt-video-downloader-bot/config"
)

func TestNewRequestConsumer_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.KafkaConfig
	}{
		{name: "no brokers", cfg: config.KafkaConfig{TopicDownloadRequests: "downloads.requested"}},
		{name: "no topic", cfg: config.KafkaConfig{Brokers: []string{"localhost:9092"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, NewRequestConsumer(&tt.cfg, nil, zerolog.Nop()))
		})
	}
}

func TestNewRequestConsumer(t *testing.T) {
	cfg := &config.KafkaConfig{
		Brokers:               []string{"localhost:9092"},
		GroupID:               "test",
		TopicDownloadRequests: "downloads.requested",
	}

	consumer := NewRequestConsumer(cfg, nil, zerolog.Nop())
	require.NotNil(t, consumer)

	assert.NoError(t, consumer.Stop())
}
