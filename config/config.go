package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	HTTP      ServerConfig
	MySQL     MySQLConfig
	Log       LogConfig
	Lenco     LencoConfig
	Donations DonationsConfig
	Content   ContentConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	ServiceName   string
	AdminAPIKey   string
	PublicBaseURL string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type LencoConfig struct {
	BaseURL       string
	SecretKey     string
	APIKey        string
	WebhookSecret string
	HTTPTimeout   time.Duration
}

type DonationsConfig struct {
	Currency            string
	PendingTimeout      time.Duration
	ReconcileStaleAfter time.Duration
	JobBatchSize        int32
}

type ContentConfig struct {
	Dir string
}

type JobsConfig struct {
	ReconcileInterval     time.Duration
	ExpirePendingInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName:   getEnv("APP_SERVICE_NAME", "foundation-site"),
			AdminAPIKey:   getEnv("ADMIN_API_KEY", ""),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Lenco: LencoConfig{
			BaseURL:       getEnv("LENCO_API_BASE_URL", "https://api.lenco.co/access/v1"),
			SecretKey:     getEnv("LENCO_SECRET_KEY", ""),
			APIKey:        getEnv("LENCO_API_KEY", ""),
			WebhookSecret: getEnv("LENCO_WEBHOOK_SECRET", ""),
			HTTPTimeout:   getSecondsEnv("LENCO_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Donations: DonationsConfig{
			Currency:            getEnv("DONATIONS_CURRENCY", "USD"),
			PendingTimeout:      getMinutesEnv("DONATIONS_PENDING_TIMEOUT_MINUTES", 24*60*time.Minute),
			ReconcileStaleAfter: getMinutesEnv("DONATIONS_RECONCILE_STALE_AFTER_MINUTES", 15*time.Minute),
			JobBatchSize:        int32(getIntEnv("DONATIONS_JOB_BATCH_SIZE", 100)),
		},
		Content: ContentConfig{
			Dir: getEnv("CONTENT_DIR", "data/content"),
		},
		Jobs: JobsConfig{
			ReconcileInterval:     getMinutesEnv("DONATIONS_RECONCILE_INTERVAL_MINUTES", 5*time.Minute),
			ExpirePendingInterval: getMinutesEnv("DONATIONS_EXPIRE_PENDING_INTERVAL_MINUTES", 30*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
