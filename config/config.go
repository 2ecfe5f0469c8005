package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env            string   `yaml:"env" env:"ENV" env-default:"development"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`

	HTTP  HTTP  `yaml:"http"`
	Mongo Mongo `yaml:"mongo"`
	Admin Admin `yaml:"admin"`
	Auth  Auth  `yaml:"auth"`
	Blob  Blob  `yaml:"blob"`
	SMTP  SMTP  `yaml:"smtp"`
	Redis Redis `yaml:"redis"`
	Quote Quote `yaml:"quote"`
	Log   Log   `yaml:"log"`
}

type HTTP struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Mongo struct {
	URI          string `yaml:"uri" env:"MONGODB_URI" env-required:"true"`
	DatabaseName string `yaml:"database" env:"DATABASE_NAME" env-required:"true"`
}

// Admin is the env bootstrap identity. It is seeded into the users collection
// on startup and is also accepted directly at login.
type Admin struct {
	Email    string `yaml:"email" env:"ADMIN_EMAIL" env-required:"true"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD" env-required:"true"`
}

type Auth struct {
	JWTSecret        string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTTLMinutes int    `yaml:"access_ttl_minutes" env:"ACCESS_TOKEN_TTL_MINUTES" env-default:"15"`
}

func (a Auth) AccessTTL() time.Duration {
	if a.AccessTTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(a.AccessTTLMinutes) * time.Minute
}

// Blob selects where product images live. gridfs keeps them next to the
// catalog in mongo; s3 targets any S3 compatible endpoint (R2 included).
type Blob struct {
	Backend      string `yaml:"backend" env:"BLOB_BACKEND" env-default:"gridfs"`
	GridFSBucket string `yaml:"gridfs_bucket" env:"GRIDFS_BUCKET" env-default:"images"`

	R2Bucket    string `yaml:"r2_bucket" env:"R2_BUCKET"`
	R2AccessKey string `yaml:"r2_access_key_id" env:"R2_ACCESS_KEY_ID"`
	R2SecretKey string `yaml:"r2_secret_access_key" env:"R2_SECRET_ACCESS_KEY"`
	R2Endpoint  string `yaml:"r2_endpoint" env:"R2_ENDPOINT"`

	GCSBucket          string `yaml:"gcs_bucket" env:"GCS_BUCKET"`
	GCSCredentialsFile string `yaml:"gcs_credentials_file" env:"CREDENTIALS_FILE_LOCATION"`
}

type SMTP struct {
	Host        string `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	Port        int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User        string `yaml:"user" env:"SMTP_USER"`
	Password    string `yaml:"password" env:"SMTP_PASSWORD"`
	From        string `yaml:"from" env:"MAIL_FROM"`
	AdminNotify string `yaml:"admin_notify" env:"ADMIN_NOTIFY_EMAIL"`
}

// Sender falls back to the SMTP user when no explicit from address is set.
func (s SMTP) Sender() string {
	if s.From != "" {
		return s.From
	}
	return s.User
}

type Redis struct {
	URL      string        `yaml:"url" env:"REDIS_URL"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"CATALOG_CACHE_TTL" env-default:"5m"`
}

type Quote struct {
	RatePerMinute int           `yaml:"rate_per_minute" env:"QUOTE_RATE_PER_MINUTE" env-default:"6"`
	Burst         int           `yaml:"burst" env:"QUOTE_RATE_BURST" env-default:"3"`
	LimiterTTL    time.Duration `yaml:"limiter_ttl" env:"QUOTE_LIMITER_TTL" env-default:"10m"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Load reads an optional .env file, then a yaml file when CONFIG_PATH is set,
// then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Admin.Email = strings.ToLower(strings.TrimSpace(c.Admin.Email))
	if c.Mongo.URI == "" || c.Mongo.DatabaseName == "" {
		return fmt.Errorf("missing MONGODB_URI or DATABASE_NAME")
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		return fmt.Errorf("missing ADMIN_EMAIL or ADMIN_PASSWORD env vars")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET")
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins

	switch c.Blob.Backend {
	case "gridfs", "memory":
	case "s3", "r2":
		if c.Blob.R2Bucket == "" || c.Blob.R2AccessKey == "" || c.Blob.R2SecretKey == "" || c.Blob.R2Endpoint == "" {
			return fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
		}
	case "gcs":
		if c.Blob.GCSBucket == "" {
			return fmt.Errorf("missing GCS_BUCKET")
		}
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.Blob.Backend)
	}
	return nil
}
