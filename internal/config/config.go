package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"loyalty_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	Version     string
	DatabaseURL string
	DBMaxConns  int32

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel string
	LogJSON  bool

	// Redis is optional; without it rate limiting falls back to in-process counters
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit    int
	APIRateWindow   time.Duration
	AuthRateLimit   int
	AuthRateWindow  time.Duration
	CoinRateLimit   int
	CoinRateWindow  time.Duration
	IdleTimeout     time.Duration
	MaxUploadBytes  int64
	AllowedOrigins  string
	ShutdownTimeout time.Duration

	CDN  CDNConfig
	Push PushConfig
}

// CDNConfig holds Cloudinary credentials. Uploads fall back to the
// placeholder image while CloudName is empty.
type CDNConfig struct {
	CloudName      string
	APIKey         string
	APISecret      string
	Folder         string
	PlaceholderURL string
}

// PushConfig points at a Firebase service account. Push is disabled while
// CredentialsFile is empty.
type PushConfig struct {
	CredentialsFile string
	ProjectID       string
}

const defaultPlaceholder = "https://res.cloudinary.com/demo/image/upload/placeholder.png"

// Load reads configuration from env (and .env when present), exiting on error.
func Load() *Config {
	cfg, err := FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv reads configuration from the environment.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return &Config{
		AppPort:     envString("APP_PORT", "8080"),
		Version:     envString("APP_VERSION", "dev"),
		DatabaseURL: dbURL,
		DBMaxConns:  int32(envInt("DB_MAX_CONNS", 10)),

		JWTSecret: jwtSecret,
		JWTTTL:    envSeconds("JWT_TTL_SECONDS", 24*time.Hour),

		LogLevel: envString("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_FORMAT") == "json",

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		APIRateLimit:    envInt("API_RATE_LIMIT", 120),
		APIRateWindow:   envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:   envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow:  envSeconds("AUTH_RATE_WINDOW_SECONDS", time.Minute),
		CoinRateLimit:   envInt("COIN_RATE_LIMIT", 20),
		CoinRateWindow:  envSeconds("COIN_RATE_WINDOW_SECONDS", time.Minute),
		IdleTimeout:     envSeconds("HTTP_IDLE_TIMEOUT_SECONDS", 5*time.Minute),
		MaxUploadBytes:  int64(envInt("MAX_UPLOAD_MB", 10)) << 20,
		AllowedOrigins:  os.Getenv("ALLOWED_ORIGINS"),
		ShutdownTimeout: envSeconds("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),

		CDN: CDNConfig{
			CloudName:      os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:         os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:      os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:         envString("CLOUDINARY_FOLDER", "loyalty"),
			PlaceholderURL: envString("CDN_PLACEHOLDER_URL", defaultPlaceholder),
		},
		Push: PushConfig{
			CredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		},
	}, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt ignores malformed or non-positive values and keeps the default.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
