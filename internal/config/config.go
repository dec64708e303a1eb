package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iqfinance/intel-dashboard/internal/cost"
)

// Upstream providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderAgent      = "agent"
)

// Response envelopes.
const (
	EnvelopeText       = "text"
	EnvelopeStructured = "structured"
)

// Config holds the full application configuration.
type Config struct {
	Upstream UpstreamConfig `yaml:"upstream" mapstructure:"upstream"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Brand    BrandConfig    `yaml:"brand" mapstructure:"brand"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// UpstreamConfig configures the AI provider that produces the analysis.
type UpstreamConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Referer     string  `yaml:"referer" mapstructure:"referer"`
	Title       string  `yaml:"title" mapstructure:"title"`
	Agent       string  `yaml:"agent" mapstructure:"agent"`
	// Pricing overrides or extends the built-in per-model token rates used
	// for cost logging.
	Pricing []cost.ModelRate `yaml:"pricing" mapstructure:"pricing"`
}

// Timeout is the bound on the single outbound analysis call.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSecs) * time.Second
}

// AnalysisConfig selects the response envelope.
type AnalysisConfig struct {
	Envelope        string `yaml:"envelope" mapstructure:"envelope"`
	CacheMaxAgeSecs int    `yaml:"cache_max_age_secs" mapstructure:"cache_max_age_secs"`
}

// BrandConfig holds Brand.dev settings. Lookups are skipped without a key.
type BrandConfig struct {
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ExportConfig configures report export.
type ExportConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ChromePath  string `yaml:"chrome_path" mapstructure:"chrome_path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// envAliases maps config keys to the plain variable names deployments
// already use, checked after the prefixed name.
var envAliases = map[string]string{
	"upstream.api_key": "OPENROUTER_API_KEY",
	"upstream.referer": "SITE_URL",
	"brand.api_key":    "BRANDDEV_API_KEY",
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("IQFINANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		prefixed := "IQFINANCE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("upstream.provider", ProviderOpenRouter)
	v.SetDefault("upstream.model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("upstream.temperature", 0.7)
	v.SetDefault("upstream.max_tokens", 4000)
	v.SetDefault("upstream.timeout_secs", 55)
	v.SetDefault("upstream.referer", "https://dashboard.iqfinance.ai")
	v.SetDefault("upstream.title", "IQ Finance Company Intelligence")
	v.SetDefault("upstream.agent", "company-intelligence")
	v.SetDefault("analysis.envelope", EnvelopeText)
	v.SetDefault("analysis.cache_max_age_secs", 3600)
	v.SetDefault("brand.base_url", "https://api.brand.dev/v1")
	v.SetDefault("brand.timeout_secs", 10)
	v.SetDefault("export.timeout_secs", 30)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks enumerations and ranges. A missing upstream API key is
// not a startup error; each analysis request reports it instead.
func (c *Config) Validate() error {
	var errs []string

	switch c.Upstream.Provider {
	case ProviderOpenRouter, ProviderAnthropic:
	case ProviderAgent:
		if c.Upstream.BaseURL == "" {
			errs = append(errs, "upstream.base_url is required for the agent provider")
		}
	default:
		errs = append(errs, "upstream.provider must be one of openrouter, anthropic, agent")
	}

	switch c.Analysis.Envelope {
	case EnvelopeText, EnvelopeStructured:
	default:
		errs = append(errs, "analysis.envelope must be text or structured")
	}

	if c.Upstream.TimeoutSecs <= 0 {
		errs = append(errs, "upstream.timeout_secs must be > 0")
	}
	if c.Upstream.MaxTokens <= 0 {
		errs = append(errs, "upstream.max_tokens must be > 0")
	}
	if c.Upstream.Temperature < 0 || c.Upstream.Temperature > 2 {
		errs = append(errs, "upstream.temperature must be between 0 and 2")
	}
	if c.Analysis.CacheMaxAgeSecs < 0 {
		errs = append(errs, "analysis.cache_max_age_secs must be >= 0")
	}
	if c.Server.Port <= 0 {
		errs = append(errs, "server.port must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
