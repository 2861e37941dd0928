package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Engine       EngineConfig       `mapstructure:"engine"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	QuestionBank QuestionBankConfig `mapstructure:"question_bank"`
	Session      SessionConfig      `mapstructure:"session"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	CORS         CORSConfig         `mapstructure:"cors"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Log          LogConfig          `mapstructure:"log"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// EngineConfig 评测引擎选择：local 为内置启发式引擎，
// gemini 为远端生成式引擎（远端失败时自动回退 local）
type EngineConfig struct {
	Provider string `mapstructure:"provider"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type QuestionBankConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl_minutes"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("INTERVIEW_PREP")
	viper.AutomaticEnv()

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Engine / Gemini
	viper.BindEnv("engine.provider", "ENGINE_PROVIDER")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")

	// Question bank
	viper.BindEnv("question_bank.path", "QUESTION_BANK_PATH")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("engine.provider", "local")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.timeout_seconds", 30)
	viper.SetDefault("session.ttl_minutes", 120)
	viper.SetDefault("rate_limit.max_requests", 600)
	viper.SetDefault("rate_limit.window_minutes", 1)
	viper.SetDefault("log.file", "logs/app.log")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Session.TTL = cfg.Session.TTL * time.Minute

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Engine.Provider {
	case "local", "gemini":
	default:
		return fmt.Errorf("engine.provider 取值非法: %q（只支持 local / gemini）", cfg.Engine.Provider)
	}

	if cfg.Engine.Provider == "gemini" && cfg.Gemini.APIKey == "" {
		return fmt.Errorf("engine.provider 为 gemini 时必须配置 gemini.api_key")
	}

	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl_minutes 必须大于 0")
	}

	if cfg.RateLimit.MaxRequests <= 0 || cfg.RateLimit.WindowMinutes <= 0 {
		return fmt.Errorf("rate_limit 配置必须大于 0")
	}

	return nil
}
