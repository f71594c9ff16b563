// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod

	// File enables a rotating log file next to stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"` // per client IP, 0 disables
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

const (
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
	DriverNone      = ""
)

type StorageConfig struct {
	Driver   string `yaml:"driver"` // postgres | firestore | empty for none
	URL      string `yaml:"url"`    // postgres connection string
	MaxConns int32  `yaml:"max_conns"`
}

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

const (
	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

type AuthConfig struct {
	Provider  string        `yaml:"provider"` // jwt | firebase
	JWTSecret string        `yaml:"jwt_secret"`
	Issuer    string        `yaml:"issuer"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// RoleClaim is the custom claim holding the role on Firebase ID tokens.
	RoleClaim string `yaml:"role_claim"`
	// CookieDomain scopes the session cookie; empty means the request host.
	CookieDomain string `yaml:"cookie_domain"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`

	SellLockTTL  time.Duration `yaml:"sell_lock_ttl"`
	ImportLimit  int           `yaml:"import_limit"` // imports per window per admin, 0 disables
	ImportWindow time.Duration `yaml:"import_window"`
}

func (r RedisConfig) Enabled() bool { return r.URL != "" }

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type SchedulerConfig struct {
	PoolStatsInterval time.Duration `yaml:"pool_stats_interval"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Locale    string          `yaml:"locale"`

	Runtime RuntimeConfig `yaml:"-"`
}

// ParseFlags reads -config and -dev from the command line.
func ParseFlags() (string, bool) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()
	return configPath, dev
}

// LoadConfig reads the YAML file at path, overlays a .env file and the
// process environment, then applies defaults and validates.
// A missing file is allowed when the environment supplies everything.
func LoadConfig(path string, dev bool) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("AUTH_PROVIDER"); v != "" {
		cfg.Auth.Provider = v
	}
	if v := os.Getenv("FIREBASE_PROJECT_ID"); v != "" {
		cfg.Firebase.ProjectID = v
	}
	if v := os.Getenv("FIREBASE_CREDENTIALS_FILE"); v != "" {
		cfg.Firebase.CredentialsFile = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = p
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 100
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Log.MaxAgeDays <= 0 {
		cfg.Log.MaxAgeDays = 28
	}

	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 15 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.RateLimitRPS > 0 && cfg.HTTP.RateLimitBurst <= 0 {
		cfg.HTTP.RateLimitBurst = int(cfg.HTTP.RateLimitRPS) * 2
	}
	if cfg.HTTP.MaxUploadBytes <= 0 {
		cfg.HTTP.MaxUploadBytes = 5 << 20
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.MaxConns <= 0 {
		cfg.Storage.MaxConns = 10
	}

	cfg.Auth.Provider = strings.ToLower(strings.TrimSpace(cfg.Auth.Provider))
	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = AuthJWT
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "recharge-inventory"
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 12 * time.Hour
	}
	if cfg.Auth.RoleClaim == "" {
		cfg.Auth.RoleClaim = "role"
	}

	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Redis.SellLockTTL <= 0 {
		cfg.Redis.SellLockTTL = 10 * time.Second
	}
	if cfg.Redis.ImportWindow <= 0 {
		cfg.Redis.ImportWindow = time.Minute
	}

	if cfg.Scheduler.PoolStatsInterval <= 0 {
		cfg.Scheduler.PoolStatsInterval = 15 * time.Second
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
}

// Validate performs minimal consistency checks.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverNone:
	case DriverPostgres:
		if c.Storage.URL == "" {
			return errors.New("storage.url is required for the postgres driver")
		}
	case DriverFirestore:
		if c.Firebase.ProjectID == "" {
			return errors.New("firebase.project_id is required for the firestore driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Auth.Provider {
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required for the jwt provider")
		}
	case AuthFirebase:
		if c.Firebase.ProjectID == "" {
			return errors.New("firebase.project_id is required for the firebase provider")
		}
	default:
		return fmt.Errorf("unknown auth.provider %q", c.Auth.Provider)
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
