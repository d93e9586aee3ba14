package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/noah-isme/gema-project-evaluator/pkg/workflow"
)

// Supported remote providers.
const (
	ProviderCoze   = "coze"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config holds runtime configuration values for the evaluator service.
type Config struct {
	AppName         string
	AppEnv          string
	AppHost         string
	AppPort         string
	LogLevel        zerolog.Level
	AccessLog       bool
	Provider        string
	CozeBaseURL     string
	RemoteTimeout   time.Duration
	RedisURL        string
	NATSURL         string
	NATSSubject     string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	port := strings.TrimPrefix(c.AppPort, ":")
	return net.JoinHostPort(c.AppHost, port)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("EVALUATOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "学生项目智能评价系统")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", "7865")
	v.SetDefault("log.level", "info")
	v.SetDefault("access_log", false)
	v.SetDefault("provider", ProviderCoze)
	v.SetDefault("coze.base_url", workflow.CozeCNBaseURL)
	v.SetDefault("remote.timeout", "5m")
	v.SetDefault("openai.model", workflow.DefaultOpenAIModel)
	v.SetDefault("nats.subject", "project_evaluator.evaluations")
	v.SetDefault("rate_limit.max", 20)
	v.SetDefault("rate_limit.window", "1m")

	// Credentials keep their well-known names without the prefix.
	_ = v.BindEnv("coze.api_token", "COZE_API_TOKEN")
	_ = v.BindEnv("coze.workflow_id", "WORKFLOW_ID")
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")

	return v
}

func load(v *viper.Viper) (Config, error) {
	timeout, err := parseDuration(v.GetString("remote.timeout"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid remote timeout: %w", err)
	}

	window, err := parseDuration(v.GetString("rate_limit.window"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("log.level")))
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppHost:         v.GetString("app.host"),
		AppPort:         v.GetString("app.port"),
		LogLevel:        level,
		AccessLog:       v.GetBool("access_log"),
		Provider:        strings.ToLower(strings.TrimSpace(v.GetString("provider"))),
		CozeBaseURL:     v.GetString("coze.base_url"),
		RemoteTimeout:   timeout,
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		NATSSubject:     v.GetString("nats.subject"),
		RateLimitMax:    v.GetInt("rate_limit.max"),
		RateLimitWindow: window,
	}

	switch cfg.Provider {
	case ProviderCoze, ProviderOpenAI, ProviderNone:
	default:
		return Config{}, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 20
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

// CredentialSource resolves remote credentials. Implementations must read the
// current values on every call.
type CredentialSource interface {
	Credentials() workflow.Credentials
}

// EnvCredentials reads provider credentials from the process environment each
// time they are requested, so rotated values apply to the next evaluation.
type EnvCredentials struct {
	v        *viper.Viper
	provider string
}

// NewEnvCredentials returns the credential source for the given provider.
func NewEnvCredentials(provider string) *EnvCredentials {
	return &EnvCredentials{v: newViper(), provider: provider}
}

// Credentials returns the trimmed token and workflow identifier.
func (e *EnvCredentials) Credentials() workflow.Credentials {
	switch e.provider {
	case ProviderOpenAI:
		return workflow.Credentials{
			APIToken:   strings.TrimSpace(e.v.GetString("openai.api_key")),
			WorkflowID: strings.TrimSpace(e.v.GetString("openai.model")),
		}
	case ProviderCoze:
		return workflow.Credentials{
			APIToken:   strings.TrimSpace(e.v.GetString("coze.api_token")),
			WorkflowID: strings.TrimSpace(e.v.GetString("coze.workflow_id")),
		}
	default:
		return workflow.Credentials{}
	}
}
