package config

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverS3       = "s3"
)

var drivers = []string{DriverMemory, DriverSQLite, DriverPostgres, DriverRedis, DriverMongo, DriverS3}

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Storage  StorageConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	S3       S3Config
	Report   ReportConfig
	Throttle ThrottleConfig
}

type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER,    default=sqlite"`
	Namespace  string `env:"STORAGE_NAMESPACE, default=club"`
	SQLitePath string `env:"SQLITE_PATH,       default=data/club.db"`
}

type PostgresConfig struct {
	DSN      string `env:"POSTGRES_DSN, default=postgres://localhost:5432/club?sslmode=disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS, default=4"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=club_admin"`
	Collection string `env:"MONGO_COLLECTION, default=club_state"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION,     default=us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT"`
	PathStyle       bool   `env:"S3_PATH_STYLE, default=false"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
}

type ReportConfig struct {
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	Model        string        `env:"REPORT_MODEL,   default=gemini-2.5-flash"`
	Timeout      time.Duration `env:"REPORT_TIMEOUT, default=30s"`
}

type ThrottleConfig struct {
	Enabled bool          `env:"LOGIN_THROTTLE_ENABLED, default=false"`
	Max     int           `env:"LOGIN_THROTTLE_MAX,     default=5"`
	Window  time.Duration `env:"LOGIN_THROTTLE_WINDOW,  default=15m"`
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UsesRedis reports whether any component needs a redis client.
func (c *Config) UsesRedis() bool {
	return c.Storage.Driver == DriverRedis || c.Throttle.Enabled
}

// Load reads configuration from environment variables using go-envconfig
// and validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if !slices.Contains(drivers, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.Storage.Driver == DriverS3 && c.S3.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required for the s3 driver"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}
