package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/yukikurage/planner-api/internal/constants"
	"github.com/yukikurage/planner-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	ModeDebug   = "debug"
	ModeRelease = "release"
	ModeTest    = "test"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Auth       AuthConfig
	Summarizer SummarizerConfig
	CORS       CORSConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port            int           `env:"PORT" env-default:"8080"`
	GinMode         string        `env:"GIN_MODE" env-default:"debug"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig selects the backend. An empty URL keeps data in memory.
type StorageConfig struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DB" env-default:"planner"`
}

type AuthConfig struct {
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"168h"`
	BcryptCost         int           `env:"BCRYPT_COST" env-default:"10"`
}

// SummarizerConfig points at an OpenAI-compatible chat completion API.
// Summarization is disabled without an API key.
type SummarizerConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY"`
	Model   string        `env:"SUMMARIZER_MODEL" env-default:"gpt-4o-mini"`
	BaseURL string        `env:"SUMMARIZER_BASE_URL"`
	Timeout time.Duration `env:"SUMMARIZER_TIMEOUT" env-default:"30s"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// Load reads an optional .env file, then the environment, and validates the
// result. Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if cfg.Storage.DatabaseURL == "" {
		cfg.Storage.DatabaseURL = cfg.Storage.MongoURI
	}
	cfg.CORS.AllowedOrigins = trimAll(cfg.CORS.AllowedOrigins)

	if cfg.Server.GinMode == ModeDebug || cfg.Server.GinMode == ModeTest {
		if err := cfg.generateMissingSecrets(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	var errs []error

	switch c.Server.GinMode {
	case ModeDebug, ModeRelease, ModeTest:
	default:
		errs = append(errs, fmt.Errorf("GIN_MODE must be one of debug, release, test; got %q", c.Server.GinMode))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	if c.Auth.AccessTokenSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if c.Auth.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is required"))
	}
	if c.Auth.AccessTokenSecret != "" && c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	if c.Summarizer.Timeout <= 0 {
		errs = append(errs, errors.New("SUMMARIZER_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.Server.GinMode == ModeRelease
}

// generateMissingSecrets fills empty token secrets with random values.
// Tokens signed with them do not survive a restart.
func (c *Config) generateMissingSecrets() error {
	for _, s := range []struct {
		name  string
		value *string
	}{
		{"ACCESS_TOKEN_SECRET", &c.Auth.AccessTokenSecret},
		{"REFRESH_TOKEN_SECRET", &c.Auth.RefreshTokenSecret},
	} {
		if *s.value != "" {
			continue
		}
		secret, err := utils.GenerateSecret(constants.SecretBytes)
		if err != nil {
			return err
		}
		*s.value = secret
		slog.Warn("token secret not set, using a random per-process secret", slog.String("variable", s.name))
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
