package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Availability
	// DefaultWakeUpHour はwake_up未設定ユーザーの起床時刻（ローカル時、0〜23）。
	// 運用側が明示的に決める値であり、コード内のデフォルトは持たない。
	DefaultWakeUpHour int

	// Worker
	SnapshotInterval   time.Duration
	TokenRetentionDays int

	// Rate Limit
	RateLimitGeneral int

	// Server
	ServerPort  string
	MetricsPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあればローカル開発用として先に読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	// .envは存在しない環境（本番コンテナ等）では単に無視する
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	wakeUpHour := os.Getenv("DEFAULT_WAKE_UP_HOUR")
	if wakeUpHour == "" {
		missing = append(missing, "DEFAULT_WAKE_UP_HOUR")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	hour, err := strconv.Atoi(wakeUpHour)
	if err != nil || hour < 0 || hour > 23 {
		return nil, fmt.Errorf("DEFAULT_WAKE_UP_HOUR must be an hour between 0 and 23: %q", wakeUpHour)
	}
	cfg.DefaultWakeUpHour = hour

	// Optional fields with defaults
	cfg.SnapshotInterval = getEnvDuration("SNAPSHOT_INTERVAL", 1*time.Minute)
	cfg.TokenRetentionDays = getEnvInt("TOKEN_RETENTION_DAYS", 30)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.MetricsPort = getEnvString("METRICS_PORT", "9090")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
