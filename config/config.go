package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StorageR2       = "r2"
	StoragePostgres = "postgres"

	IdentityService = "service"
	IdentityJWT     = "jwt"
)

// Config is the whole process configuration, read from the environment.
type Config struct {
	Port           string   `env:"PORT" envDefault:"3000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	AdminToken     string   `env:"ADMIN_TOKEN"`
	Locale         string   `env:"LOCALE" envDefault:"vi"`

	// Only emails ending with this suffix may log in. Empty disables the check.
	AllowedEmailSuffix string `env:"ALLOWED_EMAIL_SUFFIX" envDefault:"firegroup.io"`

	MaxStamina              int           `env:"MAX_STAMINA" envDefault:"20"`
	StaminaRecoveryRate     int           `env:"STAMINA_RECOVERY_RATE" envDefault:"1"`
	StaminaCost             int           `env:"STAMINA_COST" envDefault:"4"`
	StaminaRecoveryInterval time.Duration `env:"STAMINA_RECOVERY_INTERVAL" envDefault:"1m"`

	FlushInterval    time.Duration `env:"FLUSH_INTERVAL" envDefault:"5m"`
	SpawnListCap     int           `env:"SPAWN_LIST_CAP" envDefault:"50"`
	NotificationTTL  time.Duration `env:"NOTIFICATION_TTL" envDefault:"5s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	WSReadLimitBytes int64         `env:"WS_READ_LIMIT_BYTES" envDefault:"65536"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	DataFile       string `env:"DATA_FILE" envDefault:"./data/database.json"`
	DatabaseURL    string `env:"DATABASE_URL"`
	EventName      string `env:"EVENT_NAME" envDefault:"mystery tiles"`

	R2AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	R2Bucket          string `env:"R2_BUCKET_NAME"`

	IdentityBackend  string `env:"IDENTITY_BACKEND" envDefault:"service"`
	AuthServiceURL   string `env:"AUTH_SERVICE_URL"`
	AuthServiceToken string `env:"AUTH_SERVICE_TOKEN"`
	JWTSecret        string `env:"JWT_SECRET"`
	JWTIssuer        string `env:"JWT_ISSUER"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the cross-field requirements env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.MaxStamina <= 0 {
		errs = append(errs, errors.New("MAX_STAMINA must be positive"))
	}
	if c.StaminaCost <= 0 || c.StaminaCost >= c.MaxStamina {
		errs = append(errs, errors.New("STAMINA_COST must be positive and below MAX_STAMINA"))
	}
	if c.StaminaRecoveryRate <= 0 {
		errs = append(errs, errors.New("STAMINA_RECOVERY_RATE must be positive"))
	}
	if c.StaminaRecoveryInterval < time.Minute {
		errs = append(errs, errors.New("STAMINA_RECOVERY_INTERVAL must be at least 1m"))
	}
	if c.FlushInterval <= 0 {
		errs = append(errs, errors.New("FLUSH_INTERVAL must be positive"))
	}
	if c.SpawnListCap < 0 {
		errs = append(errs, errors.New("SPAWN_LIST_CAP must not be negative"))
	}

	switch strings.ToLower(c.StorageBackend) {
	case StorageFile:
		if c.DataFile == "" {
			errs = append(errs, errors.New("DATA_FILE is required for the file backend"))
		}
	case StorageR2:
		if c.R2AccountID == "" || c.R2AccessKeyID == "" || c.R2AccessKeySecret == "" || c.R2Bucket == "" {
			errs = append(errs, errors.New("CLOUDFLARE_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_ACCESS_KEY_SECRET and R2_BUCKET_NAME are required for the r2 backend"))
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	switch strings.ToLower(c.IdentityBackend) {
	case IdentityService:
		if c.AuthServiceURL == "" {
			errs = append(errs, errors.New("AUTH_SERVICE_URL is required for the service identity backend"))
		}
	case IdentityJWT:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required for the jwt identity backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_BACKEND %q", c.IdentityBackend))
	}

	return errors.Join(errs...)
}
