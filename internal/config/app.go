package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

// Enabled reports whether a database is configured. Without one the catalog
// snapshot is not persisted.
func (config *DbServer) Enabled() bool {
	return config.Host != ""
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type ExchangeAPI struct {
	BaseURL   string `mapstructure:"base_url"`
	AuthToken string `mapstructure:"auth_token"`
}

type Session struct {
	DebounceMs       int   `mapstructure:"debounce_ms"`
	Decimals         int32 `mapstructure:"decimals"`
	IdleTimeoutSec   int   `mapstructure:"idle_timeout_sec"`
	SubmitTimeoutSec int   `mapstructure:"submit_timeout_sec"`
}

func (s Session) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

func (s Session) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSec) * time.Second
}

func (s Session) SubmitTimeout() time.Duration {
	return time.Duration(s.SubmitTimeoutSec) * time.Second
}

type Scheduler struct {
	CatalogRefreshSec int `mapstructure:"catalog_refresh_sec"`
	SessionReapSec    int `mapstructure:"session_reap_sec"`
}

type QuoteCache struct {
	MaxItems int64 `mapstructure:"max_items"`
	TTLSec   int   `mapstructure:"ttl_sec"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer  HTTPServer  `mapstructure:"http_server"`
	DbServer    DbServer    `mapstructure:"db_server"`
	HTTPClient  HTTPClient  `mapstructure:"http_client"`
	ExchangeAPI ExchangeAPI `mapstructure:"exchange_api"`
	Session     Session     `mapstructure:"session"`
	Scheduler   Scheduler   `mapstructure:"scheduler"`
	QuoteCache  QuoteCache  `mapstructure:"quote_cache"`
	Logging     Logging     `mapstructure:"logging"`
}

// Init loads .env (when present) and config.yaml from the working directory.
func Init() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return Load("config.yaml")
}

// Load reads the yaml file at path; environment variables override it.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("session.debounce_ms", 1000)
	v.SetDefault("session.decimals", 8)
	v.SetDefault("session.idle_timeout_sec", 1800)
	v.SetDefault("session.submit_timeout_sec", 30)
	v.SetDefault("scheduler.catalog_refresh_sec", 300)
	v.SetDefault("scheduler.session_reap_sec", 60)
	v.SetDefault("quote_cache.max_items", 10000)
	v.SetDefault("quote_cache.ttl_sec", 5)
	v.SetDefault("logging.level", "info")

	// http server env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// exchange api env vars
	_ = v.BindEnv("exchange_api.base_url", "EXCHANGE_API_BASE_URL")
	_ = v.BindEnv("exchange_api.auth_token", "EXCHANGE_API_AUTH_TOKEN")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if cfg.ExchangeAPI.BaseURL == "" {
		return nil, errors.New("exchange_api.base_url is required")
	}

	return &cfg, nil
}
