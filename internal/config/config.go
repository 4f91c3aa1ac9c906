// config - источник загрузки конфигурации клиента travel-blog.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	CookieBackendMemory = "memory"
	CookieBackendRedis  = "redis"

	UploadBackendAPI = "api"
	UploadBackendS3  = "s3"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	API      APIConfig     `yaml:"api"`
	HTTP     HTTPConfig    `yaml:"http"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Session  SessionConfig `yaml:"session"`
	Upload   UploadConfig  `yaml:"upload"`
	Limits   LimitsConfig  `yaml:"limits"`
	Log      LogConfig     `yaml:"log"`
}

// APIConfig — удалённый контент-API (Strapi).
// Timeout == 0 отключает клиентский таймаут: запрос живёт столько, сколько контекст вызывающего.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"API_BASE_URL"   env-default:"http://localhost:1337/api"`
	Timeout   time.Duration `yaml:"timeout"    env:"API_TIMEOUT"    env-default:"0s"`
	UserAgent string        `yaml:"user_agent" env:"API_USER_AGENT" env-default:"travel-blog/1.0"`
}

// HTTPConfig — локальный HTTP-шлюз для UI.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50095"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// TimeoutConfig — дедлайн обработки одного запроса шлюза.
type TimeoutConfig struct {
	Request time.Duration `yaml:"request" env:"REQUEST_TIMEOUT" env-default:"15s"`
}

// SessionConfig — хранение токена: «cookie» с TTL и «local storage» без TTL.
// Пустой LocalPath — local storage в памяти процесса.
type SessionConfig struct {
	CookieBackend string        `yaml:"cookie_backend" env:"SESSION_COOKIE_BACKEND" env-default:"memory"`
	CookieTTL     time.Duration `yaml:"cookie_ttl"     env:"SESSION_COOKIE_TTL"     env-default:"168h"`
	RedisURL      string        `yaml:"redis_url"      env:"SESSION_REDIS_URL"`
	RedisPrefix   string        `yaml:"redis_prefix"   env:"SESSION_REDIS_PREFIX"   env-default:"travelblog:cookie:"`
	LocalPath     string        `yaml:"local_path"     env:"SESSION_LOCAL_PATH"`
}

// UploadConfig — куда уходят загружаемые файлы: в /upload API или напрямую в S3.
type UploadConfig struct {
	Backend  string   `yaml:"backend"   env:"UPLOAD_BACKEND"   env-default:"api"`
	MaxBytes int64    `yaml:"max_bytes" env:"UPLOAD_MAX_BYTES" env-default:"10485760"`
	S3       S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint      string `yaml:"endpoint"        env:"S3_ENDPOINT"`
	AccessKey     string `yaml:"access_key"      env:"S3_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key"      env:"S3_SECRET_KEY"`
	Bucket        string `yaml:"bucket"          env:"S3_BUCKET"          env-default:"travel-blog"`
	UseSSL        bool   `yaml:"use_ssl"         env:"S3_USE_SSL"         env-default:"false"`
	PublicBaseURL string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// LimitsConfig — размеры страниц запросов к API.
type LimitsConfig struct {
	ArticlesPageSize   int `yaml:"articles_page_size"   env:"LIMITS_ARTICLES_PAGE_SIZE"   env-default:"6"`
	CategoriesPageSize int `yaml:"categories_page_size" env:"LIMITS_CATEGORIES_PAGE_SIZE" env-default:"100"`
	CommentsPageSize   int `yaml:"comments_page_size"   env:"LIMITS_COMMENTS_PAGE_SIZE"   env-default:"100"`
}

// LogConfig — файловый вывод логов с ротацией; пустой File — только stdout.
type LogConfig struct {
	File       string `yaml:"file"         env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LOG_MAX_SIZE_MB"  env-default:"50"`
	MaxBackups int    `yaml:"max_backups"  env:"LOG_MAX_BACKUPS"  env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"14"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	readWithEnv := func(p string) (*Config, error) {
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		return readWithEnv(p)
	}

	// 1) --config.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return readWithEnv("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0")
	}

	switch c.Session.CookieBackend {
	case CookieBackendMemory:
	case CookieBackendRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("session.redis_url is required for redis cookie backend")
		}
	default:
		return fmt.Errorf("session.cookie_backend must be %q or %q", CookieBackendMemory, CookieBackendRedis)
	}

	if c.Session.CookieTTL <= 0 {
		return fmt.Errorf("session.cookie_ttl must be > 0")
	}

	switch c.Upload.Backend {
	case UploadBackendAPI:
	case UploadBackendS3:
		if c.Upload.S3.Endpoint == "" || c.Upload.S3.Bucket == "" {
			return fmt.Errorf("upload.s3.endpoint and upload.s3.bucket are required for s3 backend")
		}

		if c.Upload.S3.PublicBaseURL == "" {
			return fmt.Errorf("upload.s3.public_base_url is required for s3 backend")
		}
	default:
		return fmt.Errorf("upload.backend must be %q or %q", UploadBackendAPI, UploadBackendS3)
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be > 0")
	}

	if c.Limits.ArticlesPageSize <= 0 || c.Limits.CategoriesPageSize <= 0 || c.Limits.CommentsPageSize <= 0 {
		return fmt.Errorf("limits.*_page_size must be > 0")
	}

	return nil
}
