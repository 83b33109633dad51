// Package config provides configuration for the completion backend.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal      = "local"
	EnvStaging    = "staging"
	EnvProduction = "production"

	// insecureSecret is the placeholder shipped in example env files.
	insecureSecret = "change-this"
)

// ErrInsecureSecret is returned when a placeholder secret is used outside local runs.
var ErrInsecureSecret = errors.New("insecure secret")

type HTTP struct {
	Port        int      `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	MetricsPath string   `yaml:"metrics_path" env:"METRICS_PATH" env-default:"/metrics"`
	CORSOrigins []string `yaml:"cors_origins" env:"BACKEND_CORS_ORIGINS" env-separator:","`
	FrontendURL string   `yaml:"frontend_url" env:"FRONTEND_HOST" env-default:"http://localhost:5173"`
}

// WS tunes the completion websocket.
type WS struct {
	PingInterval   time.Duration `yaml:"ping_interval" env:"WS_PING_INTERVAL" env-default:"30s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"WS_WRITE_TIMEOUT" env-default:"10s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"WS_READ_TIMEOUT" env-default:"60s"`
	MaxMessageSize int64         `yaml:"max_message_size" env:"WS_MAX_MESSAGE_SIZE" env-default:"65536"`
}

type Database struct {
	DSN string `yaml:"dsn" env:"DATABASE_URL" env-default:"file:genalima.db?cache=shared&mode=rwc"`
}

type Auth struct {
	SecretKey      string        `yaml:"secret_key" env:"SECRET_KEY" env-default:"change-this"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"192h"`
	Issuer         string        `yaml:"issuer" env:"TOKEN_ISSUER" env-default:"genalima"`
}

type Dispatch struct {
	ConnectorTimeout time.Duration `yaml:"connector_timeout" env:"CONNECTOR_TIMEOUT" env-default:"15s"`
	ModelTimeout     time.Duration `yaml:"model_timeout" env:"MODEL_TIMEOUT" env-default:"60s"`
}

type RateLimit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"COMPLETIONS_RPS" env-default:"2"`
	Burst             int     `yaml:"burst" env:"COMPLETIONS_BURST" env-default:"5"`
}

type OpenAI struct {
	APIKey           string  `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL          string  `yaml:"base_url" env:"OPENAI_BASE_URL"`
	Temperature      float32 `yaml:"temperature" env:"MODEL_TEMPERATURE" env-default:"0.7"`
	MaxHistoryTokens int     `yaml:"max_history_tokens" env:"MAX_HISTORY_TOKENS" env-default:"3500"`
}

type Redis struct {
	Addr      string `yaml:"addr" env:"REDIS_ADDR"`
	Password  string `yaml:"password" env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"genalima:kb:"`
	TopN      int    `yaml:"top_n" env:"REDIS_KB_TOP_N" env-default:"3"`
}

type Retrieval struct {
	URL     string        `yaml:"url" env:"RETRIEVAL_URL"`
	APIKey  string        `yaml:"api_key" env:"RETRIEVAL_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"RETRIEVAL_TIMEOUT" env-default:"10s"`
}

type Seed struct {
	Path string `yaml:"path" env:"SEED_PATH"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY" env-default:"false"`
}

// Config holds the service configuration.
type Config struct {
	Environment string    `yaml:"environment" env:"ENVIRONMENT" env-default:"local"`
	ProjectName string    `yaml:"project_name" env:"PROJECT_NAME" env-default:"GenAlima"`
	HTTP        HTTP      `yaml:"http"`
	WS          WS        `yaml:"ws"`
	Database    Database  `yaml:"database"`
	Auth        Auth      `yaml:"auth"`
	Dispatch    Dispatch  `yaml:"dispatch"`
	RateLimit   RateLimit `yaml:"rate_limit"`
	OpenAI      OpenAI    `yaml:"openai"`
	Redis       Redis     `yaml:"redis"`
	Retrieval   Retrieval `yaml:"retrieval"`
	Seed        Seed      `yaml:"seed"`
	Log         Log       `yaml:"log"`
}

// Load reads an optional .env file, then the YAML file at cfgPath when it
// exists, then the environment. Later sources win.
func Load(cfgPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err == nil {
			if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", cfgPath, err)
			}
			return &cfg, cfg.Validate()
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Validate rejects placeholder secrets outside local environments.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvLocal, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.Auth.SecretKey == insecureSecret && c.Environment != EnvLocal {
		return fmt.Errorf("%w: SECRET_KEY is %q, change it for deployments", ErrInsecureSecret, insecureSecret)
	}
	return nil
}

// InsecureSecret reports whether the JWT secret is still the placeholder.
func (c *Config) InsecureSecret() bool {
	return c.Auth.SecretKey == insecureSecret
}
