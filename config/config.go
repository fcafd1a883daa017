package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Supported video backends
const (
	BackendKkdai = "kkdai"
	BackendYtDlp = "ytdlp"
)

// Config holds all configuration for the bot
type Config struct {
	Telegram TelegramConfig
	Download DownloadConfig
	Kafka    KafkaConfig
	Database DatabaseConfig
	S3       S3Config
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken    string
	OwnerChatID int64
	// RateLimit is the number of links a chat may send per minute
	RateLimit int
	RateBurst int
}

// DownloadConfig holds download limits and backend selection
type DownloadConfig struct {
	MaxFileSizeMB int64
	Timeout       time.Duration
	TempDir       string
	Backend       string
	YtDlpPath     string
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables Kafka.
type KafkaConfig struct {
	Brokers               []string
	GroupID               string
	TopicDownloadEvents   string
	TopicDownloadFailed   string
	TopicDownloadRequests string
}

// Enabled reports whether brokers are configured
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// DatabaseConfig holds PostgreSQL configuration. Empty Host keeps history in memory.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether a database host is configured
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// S3Config holds archive storage configuration. Empty Endpoint disables archiving.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether an S3 endpoint is configured
func (c *S3Config) Enabled() bool {
	return c.Endpoint != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
	// Format is "console" or "json"
	Format string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name     string
	Port     string
	GRPCPort string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Download *DownloadConfig
	Kafka    *KafkaConfig
	Database *DatabaseConfig
	S3       *S3Config
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Download: &cfg.Download,
		Kafka:    &cfg.Kafka,
		Database: &cfg.Database,
		S3:       &cfg.S3,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	maxFileSize, err := getEnvInt64("MAX_FILE_SIZE", 50)
	if err != nil {
		return nil, err
	}
	ownerChatID, err := getEnvInt64("OWNER_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvInt64("RATE_LIMIT_PER_MINUTE", 10)
	if err != nil {
		return nil, err
	}
	rateBurst, err := getEnvInt64("RATE_LIMIT_BURST", 3)
	if err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(getEnv("DOWNLOAD_TIMEOUT", "10m"))
	if err != nil {
		return nil, fmt.Errorf("DOWNLOAD_TIMEOUT is not a valid duration: %w", err)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", os.Getenv("API_KEY")),
			OwnerChatID: ownerChatID,
			RateLimit:   int(rateLimit),
			RateBurst:   int(rateBurst),
		},
		Download: DownloadConfig{
			MaxFileSizeMB: maxFileSize,
			Timeout:       timeout,
			TempDir:       getEnv("DOWNLOAD_TEMP_DIR", os.TempDir()),
			Backend:       strings.ToLower(getEnv("DOWNLOAD_BACKEND", BackendKkdai)),
			YtDlpPath:     getEnv("YTDLP_PATH", "yt-dlp"),
		},
		Kafka: KafkaConfig{
			Brokers:               splitList(getEnv("KAFKA_BROKERS", "")),
			GroupID:               getEnv("KAFKA_GROUP_ID", "yt-download-bot"),
			TopicDownloadEvents:   getEnv("KAFKA_TOPIC_DOWNLOADS_COMPLETED", "downloads.completed"),
			TopicDownloadFailed:   getEnv("KAFKA_TOPIC_DOWNLOADS_FAILED", "downloads.failed"),
			TopicDownloadRequests: getEnv("KAFKA_TOPIC_DOWNLOADS_REQUESTED", "downloads.requested"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "ytbot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", "yt-downloads"),
			UseSSL:    getEnv("S3_USE_SSL", "false") == "true",
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Service: ServiceConfig{
			Name:     getEnv("SERVICE_NAME", "yt-download-bot"),
			Port:     getEnv("SERVICE_PORT", "8080"),
			GRPCPort: getEnv("GRPC_PORT", "50051"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN (or API_KEY) is required")
	}

	if c.Download.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be a positive number of megabytes")
	}

	if c.Download.Timeout <= 0 {
		return fmt.Errorf("DOWNLOAD_TIMEOUT must be positive")
	}

	switch c.Download.Backend {
	case BackendKkdai, BackendYtDlp:
	default:
		return fmt.Errorf("DOWNLOAD_BACKEND must be %q or %q", BackendKkdai, BackendYtDlp)
	}

	if c.Telegram.RateLimit <= 0 || c.Telegram.RateBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}

	if c.S3.Enabled() && (c.S3.AccessKey == "" || c.S3.SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt64 parses an integer environment variable
func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
