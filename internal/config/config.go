package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL         string
	RedisPoolSize    int
	RedisDialTimeout time.Duration
	RedisReadTimeout time.Duration
	StoreNamespace   string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	MaxSessionsPerUser int

	MinIOEndpoint       string
	MinIOPublicEndpoint string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOBucket         string
	MinIOUseSSL         bool
	MinIOPublicUseSSL   bool

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string
	Domain       string

	NATSURL string

	OCRServiceURL        string
	FaceServiceURL       string
	CollaboratorTimeout  time.Duration
	OCRCacheTTL          time.Duration
	LocationsFile        string
	ResultsTreeShape     string
	ResultsSingleState   string
	FaceMatchThreshold   float64
	FaceAuthPollInterval time.Duration
	FaceAuthTimeout      time.Duration
	FaceAuthSessionTTL   time.Duration
	SingleBallot         bool

	AdminSignupCode string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisPoolSize:    getIntEnv("REDIS_POOL_SIZE", 0),
		RedisDialTimeout: getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisReadTimeout: getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
		StoreNamespace:   getEnv("STORE_NAMESPACE", "voting:"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		MaxSessionsPerUser: getIntEnv("MAX_SESSIONS_PER_USER", 5),

		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOPublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:         getEnv("MINIO_BUCKET", "voter-documents"),
		MinIOUseSSL:         getBoolEnv("MINIO_USE_SSL", false),
		MinIOPublicUseSSL:   getBoolEnv("MINIO_PUBLIC_USE_SSL", true),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
		Domain:       getEnv("DOMAIN", "localhost:3000"),

		NATSURL: getEnv("NATS_URL", ""),

		OCRServiceURL:        getEnv("OCR_SERVICE_URL", "http://localhost:8884"),
		FaceServiceURL:       getEnv("FACE_SERVICE_URL", "http://localhost:8885"),
		CollaboratorTimeout:  getDurationEnv("COLLABORATOR_TIMEOUT", 20*time.Second),
		OCRCacheTTL:          getDurationEnv("OCR_CACHE_TTL", 10*time.Minute),
		LocationsFile:        getEnv("LOCATIONS_FILE", ""),
		ResultsTreeShape:     getEnv("RESULTS_TREE_SHAPE", "auto"),
		ResultsSingleState:   getEnv("RESULTS_SINGLE_STATE_KEY", "MH"),
		FaceMatchThreshold:   getFloatEnv("FACE_MATCH_THRESHOLD", 0.6),
		FaceAuthPollInterval: getDurationEnv("FACE_AUTH_POLL_INTERVAL", 100*time.Millisecond),
		FaceAuthTimeout:      getDurationEnv("FACE_AUTH_TIMEOUT", 30*time.Second),
		FaceAuthSessionTTL:   getDurationEnv("FACE_AUTH_SESSION_TTL", 2*time.Minute),
		SingleBallot:         getBoolEnv("SINGLE_BALLOT", false),

		AdminSignupCode: getEnv("ADMIN_SIGNUP_CODE", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesMemoryStore reports whether the key-path document store is kept in
// process memory instead of Redis.
func (c *Config) UsesMemoryStore() bool {
	return c.Environment == "memory"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
