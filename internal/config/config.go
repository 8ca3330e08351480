// Package config provides runtime configuration values for the shop.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds configuration knobs for the HTTP server, storage, payments,
// mail delivery, and the notification worker pool.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	Env             string        `yaml:"env"`
	SecretKey       string        `yaml:"secret_key"`
	DatabaseURL     string        `yaml:"database_url"`
	AdminPassword   string        `yaml:"admin_password"`
	UploadDir       string        `yaml:"upload_dir"`
	MaxUploadMB     int64         `yaml:"max_upload_mb"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	StripeSecretKey      string `yaml:"stripe_secret_key"`
	StripePublishableKey string `yaml:"stripe_publishable_key"`
	StripeWebhookSecret  string `yaml:"stripe_webhook_secret"`
	GooglePlacesKey      string `yaml:"google_places_key"`

	MailHost     string `yaml:"mail_host"`
	MailPort     int    `yaml:"mail_port"`
	MailUsername string `yaml:"mail_username"`
	MailPassword string `yaml:"mail_password"`
	MailSender   string `yaml:"mail_sender"`

	MailWorkerCount         int           `yaml:"mail_worker_count"`
	MailWorkerMin           int           `yaml:"mail_worker_min"`
	MailWorkerMax           int           `yaml:"mail_worker_max"`
	ScaleInterval           time.Duration `yaml:"scale_interval"`
	ScaleUpBacklogPerWorker int           `yaml:"scale_up_backlog_per_worker"`
	ScaleDownIdleTicks      int           `yaml:"scale_down_idle_ticks"`
	QueueHighWatermark      int           `yaml:"queue_high_watermark"`
}

// Debug reports whether the shop runs in development mode. Debug-only
// surfaces such as the seed endpoint refuse to act outside it.
func (c Config) Debug() bool { return c.Env == "development" }

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from the environment with defaults. A .env
// file in the working directory is read first when present. When CONFIG_FILE
// names a YAML file, values set there override the environment.
func Load() Config {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	minWorkers := atoienv("MAIL_WORKER_MIN", 1)
	maxWorkers := atoienv("MAIL_WORKER_MAX", 4)
	initialWorkers := atoienv("MAIL_WORKER_COUNT", minWorkers)
	cfg := Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		Env:             getenv("APP_ENV", "development"),
		SecretKey:       getenv("SECRET_KEY", "change-me"),
		DatabaseURL:     getenv("DATABASE_URL", "dev.db"),
		AdminPassword:   getenv("ADMIN_PASSWORD", "admin123"),
		UploadDir:       getenv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:     int64(atoienv("MAX_UPLOAD_MB", 16)),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),

		StripeSecretKey:      getenv("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: getenv("STRIPE_PUBLISHABLE_KEY", ""),
		StripeWebhookSecret:  getenv("STRIPE_WEBHOOK_SECRET", ""),
		GooglePlacesKey:      getenv("GOOGLE_PLACES_API_KEY", ""),

		MailHost:     getenv("MAIL_SERVER", "smtp.gmail.com"),
		MailPort:     atoienv("MAIL_PORT", 587),
		MailUsername: getenv("MAIL_USERNAME", ""),
		MailPassword: getenv("MAIL_PASSWORD", ""),
		MailSender:   getenv("MAIL_DEFAULT_SENDER", "noreply@example.com"),

		MailWorkerCount:         initialWorkers,
		MailWorkerMin:           minWorkers,
		MailWorkerMax:           maxWorkers,
		ScaleInterval:           durenvms("MAIL_SCALE_INTERVAL_MS", 500),
		ScaleUpBacklogPerWorker: atoienv("MAIL_SCALE_UP_BACKLOG_PER_WORKER", 50),
		ScaleDownIdleTicks:      atoienv("MAIL_SCALE_DOWN_IDLE_TICKS", 6),
		QueueHighWatermark:      atoienv("MAIL_QUEUE_HIGH_WATERMARK", 1000),
	}

	if path := getenv("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
	}
	return cfg
}

// loadFile overlays YAML values onto the already-populated config. Keys
// absent from the file keep their environment values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}
