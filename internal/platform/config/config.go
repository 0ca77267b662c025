package config

import (
	"log"
	"strings"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret      = "a-very-secret-key-should-be-longer-and-random"
	defaultRequestTimeout = 10 * time.Second
	defaultMailTimeout    = 5 * time.Second
	defaultSemesterCredit = "1000.00"
	defaultCouponPrefix   = "CUP"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string
	MigrationsPath string

	JWTSecret          string
	JWTIssuer          string
	CORSAllowedOrigins []string
	RateLimit          string
	RequestTimeout     time.Duration

	// Notification delivery
	MailRelayURL    string
	MailRelayToken  string
	MailFrom        string
	MailTimeout     time.Duration
	NotifyQueueSize int
	NotifyWorkers   int

	// Ledger
	CouponPrefix         string
	SemesterCreditAmount decimal.Decimal
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "campus-coin-ledger")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("REQUEST_TIMEOUT", defaultRequestTimeout.String())
	viper.SetDefault("MAIL_RELAY_URL", "")
	viper.SetDefault("MAIL_RELAY_TOKEN", "")
	viper.SetDefault("MAIL_FROM", "no-reply@campus-coin.local")
	viper.SetDefault("MAIL_TIMEOUT", defaultMailTimeout.String())
	viper.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	viper.SetDefault("NOTIFY_WORKERS", 2)
	viper.SetDefault("COUPON_PREFIX", defaultCouponPrefix)
	viper.SetDefault("SEMESTER_CREDIT_AMOUNT", defaultSemesterCredit)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.RequestTimeout = durationOrDefault("REQUEST_TIMEOUT", defaultRequestTimeout)

	cfg.MailRelayURL = viper.GetString("MAIL_RELAY_URL")
	if cfg.MailRelayURL == "" {
		log.Println("Warning: MAIL_RELAY_URL not set. Notifications will only be logged.")
	}
	cfg.MailRelayToken = viper.GetString("MAIL_RELAY_TOKEN")
	cfg.MailFrom = viper.GetString("MAIL_FROM")
	cfg.MailTimeout = durationOrDefault("MAIL_TIMEOUT", defaultMailTimeout)

	cfg.NotifyQueueSize = viper.GetInt("NOTIFY_QUEUE_SIZE")
	if cfg.NotifyQueueSize <= 0 {
		log.Printf("Warning: Invalid NOTIFY_QUEUE_SIZE (%d). Defaulting to 256.\n", cfg.NotifyQueueSize)
		cfg.NotifyQueueSize = 256
	}
	cfg.NotifyWorkers = viper.GetInt("NOTIFY_WORKERS")
	if cfg.NotifyWorkers <= 0 {
		log.Printf("Warning: Invalid NOTIFY_WORKERS (%d). Defaulting to 2.\n", cfg.NotifyWorkers)
		cfg.NotifyWorkers = 2
	}

	cfg.CouponPrefix = strings.ToUpper(strings.TrimSpace(viper.GetString("COUPON_PREFIX")))
	if !domain.ValidCouponPrefix(cfg.CouponPrefix) {
		log.Printf("Warning: Invalid value for COUPON_PREFIX ('%s'). Defaulting to %s.\n", cfg.CouponPrefix, defaultCouponPrefix)
		cfg.CouponPrefix = defaultCouponPrefix
	}

	creditStr := viper.GetString("SEMESTER_CREDIT_AMOUNT")
	credit, err := decimal.NewFromString(creditStr)
	if err == nil {
		err = domain.ValidateAmount(credit)
	}
	if err != nil {
		log.Printf("Warning: Invalid value for SEMESTER_CREDIT_AMOUNT ('%s'). Defaulting to %s.\n", creditStr, defaultSemesterCredit)
		credit = decimal.RequireFromString(defaultSemesterCredit)
	}
	cfg.SemesterCreditAmount = credit

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
