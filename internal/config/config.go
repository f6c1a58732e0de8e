package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Provider string

const (
	ProviderPollinations Provider = "pollinations"
	ProviderOpenAI       Provider = "openai"
)

type HTTPConfig struct {
	Host         string
	Port         int `validate:"min=1,max=65535"`
	HTTP2Enabled bool
	StaticRoot   string `validate:"required"`
}

type PollinationsConfig struct {
	BaseURL     string `validate:"required,url"`
	Model       string `validate:"required"`
	APIKey      string
	APIKeyParam string
}

type OpenAIConfig struct {
	BaseURL     string `validate:"required,url"`
	Model       string `validate:"required"`
	APIKey      string
	APIKeyParam string
}

type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Lambda     bool
}

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Provider     Provider `validate:"oneof=pollinations openai"`
	HTTP         HTTPConfig
	Pollinations PollinationsConfig
	OpenAI       OpenAIConfig
	Logging      LoggingConfig
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := build()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Model is the model name of the selected provider.
func (c *Config) Model() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAI.Model
	}
	return c.Pollinations.Model
}

func (c *Config) LogStatus(logger *slog.Logger) {
	logger.Info("config loaded",
		"provider", c.Provider,
		"model", c.Model(),
		"host", c.HTTP.Host,
		"port", c.HTTP.Port,
		"http2", c.HTTP.HTTP2Enabled,
		"static_root", c.HTTP.StaticRoot,
		"pollinations_key", maskSecret(c.Pollinations.APIKey),
		"openai_key", maskSecret(c.OpenAI.APIKey),
	)
	if c.Provider == ProviderOpenAI && c.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; lookalike requests will fail")
	}
}

func build() *Config {
	return &Config{
		Provider: Provider(getEnvString("LOOKALIKE_PROVIDER", string(ProviderPollinations))),
		HTTP: HTTPConfig{
			Host:         getEnvString("HOST", "0.0.0.0"),
			Port:         getEnvInt("PORT", 3000),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", false),
			StaticRoot:   getEnvString("STATIC_ROOT", workingDir()),
		},
		Pollinations: PollinationsConfig{
			BaseURL:     getEnvString("POLLINATIONS_BASE_URL", "https://gen.pollinations.ai"),
			Model:       getEnvString("POLLINATIONS_MODEL", "flux"),
			APIKey:      getEnvString("POLLINATIONS_API_KEY", ""),
			APIKeyParam: getEnvString("POLLINATIONS_API_KEY_PARAM", ""),
		},
		OpenAI: OpenAIConfig{
			BaseURL:     getEnvString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnvString("OPENAI_IMAGE_MODEL", "gpt-4.1-mini"),
			APIKey:      getEnvString("OPENAI_API_KEY", ""),
			APIKeyParam: getEnvString("OPENAI_API_KEY_PARAM", ""),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			Dir:        getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 10),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
			Lambda:     getEnvString("AWS_LAMBDA_FUNCTION_NAME", "") != "",
		},
	}
}

func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
