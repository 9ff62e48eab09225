package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration, loaded from APP_* environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	DynamoDB DynamoDBConfig
	Cache    CacheConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// DatabaseConfig selects the catalog database. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"postgres"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD" default:"postgres"`
	Name            string        `envconfig:"DB_NAME" default:"library"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	SQLitePath      string        `envconfig:"DB_SQLITE_PATH" default:"file:library.db?_pragma=foreign_keys(1)"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// DSN returns the data source name for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type DynamoDBConfig struct {
	Endpoint      string `envconfig:"DYNAMODB_ENDPOINT" default:"http://localhost:9000"`
	Region        string `envconfig:"DYNAMODB_REGION" default:"us-east-1"`
	CommentsTable string `envconfig:"DYNAMODB_COMMENTS_TABLE" default:"comments"`
	ErrorsTable   string `envconfig:"DYNAMODB_ERRORS_TABLE" default:"errors"`
}

// CacheConfig configures the output cache.
// Backend is "redis" or "memory"; Broadcast is "none", "nats" or "zookeeper".
type CacheConfig struct {
	Backend       string        `envconfig:"CACHE_BACKEND" default:"redis"`
	TTL           time.Duration `envconfig:"CACHE_TTL" default:"60s"`
	Capacity      int           `envconfig:"CACHE_CAPACITY" default:"10000"`
	Shards        int           `envconfig:"CACHE_SHARDS" default:"16"`
	EvictionPct   int           `envconfig:"CACHE_EVICTION_PERCENTAGE" default:"10"`
	Broadcast     string        `envconfig:"CACHE_BROADCAST" default:"none"`
	NATSURL       string        `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	NATSSubject   string        `envconfig:"NATS_EVICTION_SUBJECT" default:"library.cache.evict"`
	ZKServers     []string      `envconfig:"ZK_SERVERS" default:"localhost:2181"`
	ZKRoot        string        `envconfig:"ZK_ROOT" default:"/library/cache/tags"`
	ZKSessionTime time.Duration `envconfig:"ZK_SESSION_TIMEOUT" default:"30s"`
}

// AuthConfig holds token settings and the named authorization policies.
type AuthConfig struct {
	JWTKey        string            `envconfig:"JWT_KEY" default:"change-me-in-production-please-0123456789"`
	Issuer        string            `envconfig:"JWT_ISSUER" default:"library-api"`
	TokenLifetime time.Duration     `envconfig:"TOKEN_LIFETIME" default:"8760h"`
	Policies      map[string]string `envconfig:"POLICIES" default:"esadmin:authenticated && claims.esadmin == 'true'"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	// Format is "json" or "dev".
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	sections := []struct {
		name   string
		target any
	}{
		{"server", &cfg.Server},
		{"database", &cfg.Database},
		{"redis", &cfg.Redis},
		{"dynamodb", &cfg.DynamoDB},
		{"cache", &cfg.Cache},
		{"auth", &cfg.Auth},
		{"cors", &cfg.CORS},
		{"log", &cfg.Log},
	}
	for _, s := range sections {
		if err := envconfig.Process("APP", s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Cache.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported cache backend %q", c.Cache.Backend)
	}

	switch strings.ToLower(c.Cache.Broadcast) {
	case "none", "nats", "zookeeper":
	default:
		return fmt.Errorf("unsupported cache broadcast %q", c.Cache.Broadcast)
	}

	if len(c.Auth.JWTKey) < 32 {
		return fmt.Errorf("jwt key must be at least 32 bytes")
	}

	return nil
}
