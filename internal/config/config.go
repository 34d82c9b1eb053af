package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Geodb   GeodbConfig   `yaml:"geodb" mapstructure:"geodb"`
	Commons CommonsConfig `yaml:"commons" mapstructure:"commons"`
	MapIt   MapItConfig   `yaml:"mapit" mapstructure:"mapit"`
	Sync    SyncConfig    `yaml:"sync" mapstructure:"sync"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// GeodbConfig configures the Geograph database snapshot.
type GeodbConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CommonsConfig configures the Wikimedia Commons API client.
type CommonsConfig struct {
	APIURL    string  `yaml:"api_url" mapstructure:"api_url"`
	UserAgent string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// MapItConfig configures the MapIt region lookup service.
type MapItConfig struct {
	Enabled   bool    `yaml:"enabled" mapstructure:"enabled"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SyncConfig configures reconciliation behavior.
type SyncConfig struct {
	UpdateWithOverlay bool `yaml:"update_with_overlay" mapstructure:"update_with_overlay"`
	MaxRestarts       int  `yaml:"max_restarts" mapstructure:"max_restarts"`
	Concurrency       int  `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GEOSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("geodb.path", "geograph.sqlite3")
	v.SetDefault("commons.api_url", "https://commons.wikimedia.org/w/api.php")
	v.SetDefault("commons.user_agent", "geograph-sync (https://github.com/commonsbots/geograph-sync)")
	v.SetDefault("commons.rate_limit", 5.0)
	v.SetDefault("mapit.enabled", false)
	v.SetDefault("mapit.base_url", "https://global.mapit.mysociety.org")
	v.SetDefault("mapit.rate_limit", 1.0)
	v.SetDefault("sync.update_with_overlay", false)
	v.SetDefault("sync.max_restarts", 0)
	v.SetDefault("sync.concurrency", 1)
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

// Validate checks that the configuration is usable for a sync run.
func (c *Config) Validate() error {
	var problems []string

	if c.Geodb.Path == "" {
		problems = append(problems, "geodb.path is required")
	}
	if c.Commons.APIURL == "" {
		problems = append(problems, "commons.api_url is required")
	}
	if c.Commons.RateLimit <= 0 {
		problems = append(problems, "commons.rate_limit must be > 0")
	}
	if c.MapIt.Enabled && c.MapIt.BaseURL == "" {
		problems = append(problems, "mapit.base_url is required when mapit.enabled")
	}
	if c.Sync.MaxRestarts < 0 {
		problems = append(problems, "sync.max_restarts must be >= 0")
	}
	if c.Sync.Concurrency < 1 || c.Sync.Concurrency > 20 {
		problems = append(problems, "sync.concurrency must be between 1 and 20")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
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
