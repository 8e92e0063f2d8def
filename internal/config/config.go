package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/storage"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/logger"
)

// Store backends.
const (
	BackendFileSystem = "filesystem"
	BackendMinIO      = "minio"
	BackendMongo      = "mongo"
	BackendMemory     = "memory"
	BackendRedis      = "redis"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig        `mapstructure:"server"`
	Store     StoreConfig         `mapstructure:"store"`
	MinIO     storage.MinIOConfig `mapstructure:"minio"`
	MongoDB   MongoDBConfig       `mapstructure:"mongodb"`
	Redis     RedisConfig         `mapstructure:"redis"`
	RateLimit RateLimitConfig     `mapstructure:"rate_limit"`
	Log       logger.Config       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port" validate:"required"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// MaxUploadBytes caps the in-memory part of multipart parsing.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"gt=0"`
}

type StoreConfig struct {
	Backend      string `mapstructure:"backend" validate:"oneof=filesystem minio mongo memory redis"`
	Root         string `mapstructure:"root" validate:"required_if=Backend filesystem"`
	DatePattern  string `mapstructure:"date_pattern" validate:"required"`
	DateLocation string `mapstructure:"date_location" validate:"required"`
}

// Location resolves DateLocation.
func (s StoreConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.DateLocation)
}

// Codec builds the metadata codec for the configured pattern and zone.
func (s StoreConfig) Codec() (*codec.Codec, error) {
	loc, err := s.Location()
	if err != nil {
		return nil, fmt.Errorf("date location: %w", err)
	}
	return codec.New(s.DatePattern, codec.WithLocation(loc))
}

type MongoDBConfig struct {
	URI        string        `mapstructure:"uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// Prefix namespaces the keys of the redis store backend.
	Prefix string `mapstructure:"prefix"`
}

func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	UseRedis bool          `mapstructure:"use_redis"`
	RPS      float64       `mapstructure:"rps" validate:"gte=0"`
	Burst    int           `mapstructure:"burst" validate:"gte=0"`
	Window   time.Duration `mapstructure:"window"`
}

var defaults = map[string]interface{}{
	"server.port":             "8080",
	"server.host":             "0.0.0.0",
	"server.read_timeout":     30 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.max_upload_bytes": int64(32 << 20),
	"store.backend":           BackendFileSystem,
	"store.root":              "uploads",
	"store.date_pattern":      codec.DefaultDatePattern,
	"store.date_location":     "UTC",
	"minio.endpoint":          "",
	"minio.access_key":        "",
	"minio.secret_key":        "",
	"minio.use_ssl":           false,
	"minio.bucket":            "docstore",
	"mongodb.uri":             "",
	"mongodb.database":        "docstore",
	"mongodb.collection":      "files",
	"mongodb.timeout":         10 * time.Second,
	"redis.host":              "",
	"redis.port":              "6379",
	"redis.password":          "",
	"redis.db":                0,
	"redis.prefix":            "docstore:",
	"rate_limit.enabled":      false,
	"rate_limit.use_redis":    false,
	"rate_limit.rps":          10.0,
	"rate_limit.burst":        20,
	"rate_limit.window":       time.Second,
	"log.level":               "info",
	"log.encoding":            logger.EncodingConsole,
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"host":         "server.host",
	"port":         "server.port",
	"backend":      "store.backend",
	"root":         "store.root",
	"date-pattern": "store.date_pattern",
	"log-level":    "log.level",
	"log-format":   "log.encoding",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("host", "", "listen host")
	fs.String("port", "", "listen port")
	fs.String("backend", "", "store backend (filesystem|minio|mongo|memory|redis)")
	fs.String("root", "", "filesystem store root directory")
	fs.String("date-pattern", "", "date pattern used in metadata and requests")
	fs.String("log-level", "", "log level (debug|info|warn|error)")
	fs.String("log-format", "", "log encoding (console|json)")
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	return Load(nil)
}

// Load reads .env when present, then environment variables (SERVER_PORT,
// STORE_ROOT, ...), then any flags in fs that were set explicitly.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the settings the selected backend
// needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Store.Backend {
	case BackendMinIO:
		if c.MinIO.Endpoint == "" {
			return errors.New("invalid config: MINIO_ENDPOINT is required for the minio backend")
		}
	case BackendMongo:
		if c.MongoDB.URI == "" {
			return errors.New("invalid config: MONGODB_URI is required for the mongo backend")
		}
	case BackendRedis:
		if c.Redis.Host == "" {
			return errors.New("invalid config: REDIS_HOST is required for the redis backend")
		}
	}
	if c.RateLimit.Enabled && c.RateLimit.UseRedis && c.Redis.Host == "" {
		return errors.New("invalid config: REDIS_HOST is required for the redis rate limiter")
	}
	if _, err := c.Store.Codec(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
