package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"

	"github.com/crownhub/crowns-be/internal/payments"
	"github.com/crownhub/crowns-be/internal/policy"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// environment is the raw shape of the process environment.
type environment struct {
	Port          string `env:"PORT,default=8080"`
	StorageDriver string `env:"STORAGE_DRIVER,default=postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`

	JWTSecret     string `env:"JWT_SECRET"`
	JWTIssuer     string `env:"JWT_ISSUER,default=crowns-backend"`
	JWTTTLMinutes int    `env:"JWT_TTL_MINUTES,default=60"`
	CORSOrigins   string `env:"CORS_ALLOWED_ORIGINS,default=*"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	MediaDir     string `env:"MEDIA_DIR,default=./media"`
	MediaBaseURL string `env:"MEDIA_BASE_URL,default=/media"`
	MaxUploadMB  int64  `env:"MAX_UPLOAD_MB,default=50"`

	PaymentLinks         string `env:"PAYMENT_LINKS"`
	PaymentWebhookSecret string `env:"PAYMENT_WEBHOOK_SECRET"`
	AdminAPIKey          string `env:"ADMIN_API_KEY"`

	AuthRatePerSecond float64 `env:"AUTH_RATE_PER_SECOND,default=1"`
	AuthRateBurst     int     `env:"AUTH_RATE_BURST,default=10"`

	AdmissionStrict            bool   `env:"ADMISSION_STRICT,default=false"`
	CreatorCapacity            int    `env:"CREATOR_CAPACITY,default=500"`
	PriceMultiplier            string `env:"PRICE_MULTIPLIER,default=1.5"`
	FeeMultiplier              string `env:"FEE_MULTIPLIER,default=0.5"`
	PayoutMultiplier           string `env:"PAYOUT_MULTIPLIER,default=1.0"`
	WithdrawalPenaltyThreshold int64  `env:"WITHDRAWAL_PENALTY_THRESHOLD,default=1000000"`
	WithdrawalPenaltyRate      string `env:"WITHDRAWAL_PENALTY_RATE,default=0.5"`
}

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string
	StorageDriver string
	DatabaseURL   string

	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string

	LogLevel  string
	LogFormat string

	MediaDir       string
	MediaBaseURL   string
	MaxUploadBytes int64

	PaymentLinks         payments.Links
	PaymentWebhookSecret string
	AdminAPIKey          string

	AuthRatePerSecond float64
	AuthRateBurst     int

	AdmissionStrict bool
	Policy          policy.Policy
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var env environment
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	cfg := Config{
		Port:                 strings.TrimSpace(env.Port),
		StorageDriver:        strings.ToLower(strings.TrimSpace(env.StorageDriver)),
		DatabaseURL:          strings.TrimSpace(env.DatabaseURL),
		JWTSecret:            strings.TrimSpace(env.JWTSecret),
		JWTIssuer:            strings.TrimSpace(env.JWTIssuer),
		CORSOrigins:          parseCSV(env.CORSOrigins),
		LogLevel:             env.LogLevel,
		LogFormat:            env.LogFormat,
		MediaDir:             env.MediaDir,
		MediaBaseURL:         "/" + strings.Trim(env.MediaBaseURL, "/"),
		PaymentWebhookSecret: strings.TrimSpace(env.PaymentWebhookSecret),
		AdminAPIKey:          strings.TrimSpace(env.AdminAPIKey),
		AuthRatePerSecond:    env.AuthRatePerSecond,
		AuthRateBurst:        env.AuthRateBurst,
		AdmissionStrict:      env.AdmissionStrict,
	}

	if env.JWTTTLMinutes > 0 {
		cfg.JWTTTL = time.Duration(env.JWTTTLMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}
	if env.MaxUploadMB > 0 {
		cfg.MaxUploadBytes = env.MaxUploadMB << 20
	} else {
		cfg.MaxUploadBytes = 50 << 20
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER %q is not supported", cfg.StorageDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.PaymentWebhookSecret == "" {
		return Config{}, errors.New("PAYMENT_WEBHOOK_SECRET is required")
	}
	if cfg.AdminAPIKey == "" {
		return Config{}, errors.New("ADMIN_API_KEY is required")
	}

	links, err := payments.ParseLinks(env.PaymentLinks)
	if err != nil {
		return Config{}, fmt.Errorf("PAYMENT_LINKS: %w", err)
	}
	cfg.PaymentLinks = links

	p, err := policy.Parse(env.CreatorCapacity, env.PriceMultiplier, env.FeeMultiplier, env.PayoutMultiplier,
		env.WithdrawalPenaltyThreshold, env.WithdrawalPenaltyRate)
	if err != nil {
		return Config{}, fmt.Errorf("policy: %w", err)
	}
	cfg.Policy = p

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
