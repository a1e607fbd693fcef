package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	FrontendURL string
	// Extra origins allowed by CORS on top of FrontendURL
	CORSAllowedOrigins []string
	CSRFProtection     bool

	// Storage (persistence port for the entity stores)
	StorageDriver       string // file, postgres, sqlite, redis, memory
	StorageDir          string
	StorageTable        string
	StorageWatch        bool
	DBUrl               string
	SQLitePath          string
	ContentDefaultsFile string

	// Session guard
	AdminEmail              string
	AdminPassword           string
	AdminPasswordHash       string // bcrypt; takes precedence over AdminPassword
	SessionCookieName       string
	SessionTTL              time.Duration
	SessionSecret           string // enables signed tokens when set
	FailedLoginMaxAttempts  int
	FailedLoginBlockMinutes int

	// Upload relay
	UploadBackend    string // local, s3
	UploadDir        string
	UploadPublicPath string
	S3Provider       string
	S3AccessKeyID    string
	S3SecretKey      string
	S3Region         string
	S3Bucket         string
	S3Endpoint       string
	S3PublicBaseURL  string
	ClamAVAddress    string

	// SMTP Configuration
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string
	ContactEmailTo string
	// Messaging relay (WhatsApp gateway)
	WhatsAppAPIURL   string
	WhatsAppAPIToken string
	WhatsAppTo       string
	RelayTimeout     time.Duration

	// Redis Configuration
	RedisURL      string
	RedisPassword string

	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitContact         int
	RateLimitBooking         int
	RateLimitNewsletter      int
	RateLimitUpload          int
}

func LoadConfig() (*Config, error) {
	// Load .env file when present; real environment wins
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "debug"),
		FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		CSRFProtection:     getEnvBool("CSRF_PROTECTION", true),

		StorageDriver:       strings.ToLower(getEnv("STORAGE_DRIVER", "file")),
		StorageDir:          getEnv("STORAGE_DIR", "./data"),
		StorageTable:        getEnv("STORAGE_TABLE", "portfolio_storage"),
		StorageWatch:        getEnvBool("STORAGE_WATCH", false),
		DBUrl:               getEnv("DATABASE_URL", ""),
		SQLitePath:          getEnv("SQLITE_PATH", "./data/portfolio.db"),
		ContentDefaultsFile: getEnv("CONTENT_DEFAULTS_FILE", ""),

		AdminEmail:              getEnv("ADMIN_EMAIL", ""),
		AdminPassword:           getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash:       getEnv("ADMIN_PASSWORD_HASH", ""),
		SessionCookieName:       getEnv("SESSION_COOKIE_NAME", "admin_session"),
		SessionTTL:              getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionSecret:           getEnv("SESSION_SECRET", ""),
		FailedLoginMaxAttempts:  getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		FailedLoginBlockMinutes: getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),

		UploadBackend:    strings.ToLower(getEnv("UPLOAD_BACKEND", "local")),
		UploadDir:        getEnv("UPLOAD_DIR", "./public/uploads"),
		UploadPublicPath: "/" + strings.Trim(getEnv("UPLOAD_PUBLIC_PATH", "/uploads"), "/"),
		S3Provider:       getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:    getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:      getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3PublicBaseURL:  strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		ClamAVAddress:    getEnv("CLAMAV_ADDRESS", ""),

		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", ""),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", ""),

		WhatsAppAPIURL:   getEnv("WHATSAPP_API_URL", ""),
		WhatsAppAPIToken: getEnv("WHATSAPP_API_TOKEN", ""),
		WhatsAppTo:       getEnv("WHATSAPP_TO", ""),
		RelayTimeout:     getEnvDuration("RELAY_TIMEOUT", 10*time.Second),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitContact:         getEnvInt("RATE_LIMIT_CONTACT", 5),
		RateLimitBooking:         getEnvInt("RATE_LIMIT_BOOKING", 3),
		RateLimitNewsletter:      getEnvInt("RATE_LIMIT_NEWSLETTER", 3),
		RateLimitUpload:          getEnvInt("RATE_LIMIT_UPLOAD", 10),
	}

	if cfg.SMTPFromEmail == "" {
		cfg.SMTPFromEmail = cfg.SMTPUsername
	}

	if cfg.AdminEmail == "" || (cfg.AdminPassword == "" && cfg.AdminPasswordHash == "") {
		log.Println("WARNING: ADMIN_EMAIL / ADMIN_PASSWORD not configured. Admin login will always fail.")
	}
	if cfg.StorageDriver == "postgres" && cfg.DBUrl == "" {
		log.Println("WARNING: STORAGE_DRIVER=postgres but DATABASE_URL is missing.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting and login tracking are per-process.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// RateLimitWindow returns the shared window for the per-endpoint limits
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration syntax ("15m", "24h")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimRight(strings.TrimSpace(item), "/"); item != "" {
			out = append(out, item)
		}
	}
	return out
}
