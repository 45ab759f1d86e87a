// Package config loads the site/bidder roster and runtime settings.
package config

import (
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cloudx-io/siteauction/core"
)

// DefaultPath is where the roster file is read from when no path is given.
const DefaultPath = "/auction/config.json"

// Config holds the full application configuration.
type Config struct {
	Sites   []SiteConfig   `yaml:"sites" mapstructure:"sites"`
	Bidders []BidderConfig `yaml:"bidders" mapstructure:"bidders"`
	Auction AuctionConfig  `yaml:"auction" mapstructure:"auction"`
	Log     LogConfig      `yaml:"log" mapstructure:"log"`
}

// SiteConfig is one entry of the sites list. Pointer fields detect missing keys.
type SiteConfig struct {
	Name    *string   `yaml:"name" mapstructure:"name"`
	Bidders *[]string `yaml:"bidders" mapstructure:"bidders"`
	Floor   *float64  `yaml:"floor" mapstructure:"floor"`
}

// BidderConfig is one entry of the bidders list.
type BidderConfig struct {
	Name       *string  `yaml:"name" mapstructure:"name"`
	Adjustment *float64 `yaml:"adjustment" mapstructure:"adjustment"`
}

// AuctionConfig configures auction resolution.
type AuctionConfig struct {
	Policy string `yaml:"policy" mapstructure:"policy"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ConfigError reports a missing, malformed or incomplete configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return "config " + e.Path + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// Load reads configuration from the roster file and environment.
// The file format follows its extension (.json, .yaml, .yml).
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)

	// Environment
	v.SetEnvPrefix("AUCTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("auction.policy", string(core.PolicyAllOf))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Path: path, Err: eris.Wrap(err, "read file")}
	}

	for _, key := range []string{"sites", "bidders"} {
		if !v.InConfig(key) {
			return nil, &ConfigError{Path: path, Err: eris.Errorf("missing required field %q", key)}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: eris.Wrap(err, "unmarshal")}
	}

	if _, err := core.ParseAdmissionPolicy(cfg.Auction.Policy); err != nil {
		return nil, &ConfigError{Path: path, Err: eris.Wrap(err, "auction.policy")}
	}

	return &cfg, nil
}

// Roster validates the sites and bidders lists and converts them to core types.
func (c *Config) Roster() (*core.Roster, error) {
	sites := make(core.Sites, len(c.Sites))
	for i, site := range c.Sites {
		switch {
		case site.Name == nil:
			return nil, eris.Errorf("sites[%d]: missing required field \"name\"", i)
		case site.Bidders == nil:
			return nil, eris.Errorf("sites[%d] %s: missing required field \"bidders\"", i, *site.Name)
		case site.Floor == nil:
			return nil, eris.Errorf("sites[%d] %s: missing required field \"floor\"", i, *site.Name)
		case *site.Floor < 0:
			return nil, eris.Errorf("sites[%d] %s: negative floor %.4f", i, *site.Name, *site.Floor)
		}
		if _, dup := sites[*site.Name]; dup {
			return nil, eris.Errorf("sites[%d]: duplicate site %q", i, *site.Name)
		}
		sites[*site.Name] = core.NewSite(*site.Name, *site.Bidders, *site.Floor)
	}

	adjustments := make(core.Adjustments, len(c.Bidders))
	for i, bidder := range c.Bidders {
		switch {
		case bidder.Name == nil:
			return nil, eris.Errorf("bidders[%d]: missing required field \"name\"", i)
		case bidder.Adjustment == nil:
			return nil, eris.Errorf("bidders[%d] %s: missing required field \"adjustment\"", i, *bidder.Name)
		}
		adjustments[*bidder.Name] = *bidder.Adjustment
	}

	return &core.Roster{Sites: sites, Adjustments: adjustments}, nil
}

// Policy returns the configured admission policy.
func (c *Config) Policy() core.AdmissionPolicy {
	policy, err := core.ParseAdmissionPolicy(c.Auction.Policy)
	if err != nil {
		return core.PolicyAllOf
	}
	return policy
}

// LoadRoster loads the roster file at path and returns the validated roster.
// Every failure is a *ConfigError.
func LoadRoster(path string) (*core.Roster, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	roster, err := cfg.Roster()
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	zap.L().Info("all config loaded",
		zap.Int("sites", len(roster.Sites)),
		zap.Int("bidders", len(roster.Adjustments)),
	)
	return roster, nil
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
