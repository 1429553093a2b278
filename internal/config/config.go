// Package config loads the agent configuration from a file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. INTERNSHIP_SEARCH_CONCURRENCY.
	EnvPrefix = "INTERNSHIP"
	// DefaultConfigName is looked up in the working directory when no --config is given.
	DefaultConfigName = "internship-agent"
)

// localUserID identifies the single local user when no user_id is configured.
var localUserID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("internship-agent/local"))

// Config is the full agent configuration.
type Config struct {
	UserID      string            `mapstructure:"user_id" json:"user_id,omitempty" validate:"omitempty,uuid"`
	Storage     StorageConfig     `mapstructure:"storage" json:"storage"`
	Search      SearchConfig      `mapstructure:"search" json:"search"`
	LLM         LLMConfig         `mapstructure:"llm" json:"llm"`
	Server      ServerConfig      `mapstructure:"server" json:"server"`
	Notify      NotifyConfig      `mapstructure:"notify" json:"notify"`
	ObjectStore ObjectStoreConfig `mapstructure:"objectstore" json:"objectstore"`
	Rendering   RenderingConfig   `mapstructure:"rendering" json:"rendering"`
	Log         LogConfig         `mapstructure:"log" json:"log"`
}

// StorageConfig selects the internship store. An empty driver means postgres when a URL is set, sqlite otherwise.
type StorageConfig struct {
	Driver     string `mapstructure:"driver" json:"driver,omitempty" validate:"omitempty,oneof=postgres sqlite"`
	URL        string `mapstructure:"url" json:"url,omitempty" validate:"required_if=Driver postgres"`
	SQLitePath string `mapstructure:"sqlite_path" json:"sqlite_path"`
}

// SearchConfig tunes the search orchestrator and the monitor.
type SearchConfig struct {
	Concurrency     int           `mapstructure:"concurrency" json:"concurrency" validate:"min=1,max=8"`
	Delay           time.Duration `mapstructure:"delay" json:"delay" validate:"min=0"`
	MaxResults      int           `mapstructure:"max_results" json:"max_results" validate:"min=1,max=100"`
	AutoSave        bool          `mapstructure:"auto_save" json:"auto_save"`
	MonitorInterval time.Duration `mapstructure:"monitor_interval" json:"monitor_interval" validate:"min=1s"`
	MaxFailures     int           `mapstructure:"max_failures" json:"max_failures" validate:"min=1"`
	FeedURL         string        `mapstructure:"feed_url" json:"feed_url,omitempty" validate:"omitempty,url"`
	FeedFile        string        `mapstructure:"feed_file" json:"feed_file,omitempty"`
}

// LLMConfig selects the text generator.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" json:"provider" validate:"oneof=gemini genai"`
	Model       string  `mapstructure:"model" json:"model"`
	APIKey      string  `mapstructure:"api_key" json:"api_key,omitempty"`
	Temperature float32 `mapstructure:"temperature" json:"temperature" validate:"gte=0,lte=2"`
}

// ServerConfig configures the REST API.
type ServerConfig struct {
	Port         int             `mapstructure:"port" json:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration   `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout" json:"write_timeout"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig configures per-client request limits on the REST API.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// PerMinute applies to routes without a dedicated limit.
	PerMinute int      `mapstructure:"per_minute" json:"per_minute" validate:"min=0"`
	Whitelist []string `mapstructure:"whitelist" json:"whitelist,omitempty" validate:"dive,ip"`
	Blacklist []string `mapstructure:"blacklist" json:"blacklist,omitempty" validate:"dive,ip"`
}

// NotifyConfig configures match notifications. Without a URL notifications are only logged.
type NotifyConfig struct {
	AMQPURL  string `mapstructure:"amqp_url" json:"amqp_url,omitempty"`
	Exchange string `mapstructure:"exchange" json:"exchange"`
}

// ObjectStoreConfig configures document archiving. Without a bucket nothing is uploaded.
type ObjectStoreConfig struct {
	Bucket    string `mapstructure:"bucket" json:"bucket,omitempty"`
	Endpoint  string `mapstructure:"endpoint" json:"endpoint,omitempty" validate:"omitempty,url"`
	Region    string `mapstructure:"region" json:"region,omitempty"`
	AccessKey string `mapstructure:"access_key" json:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" json:"secret_key,omitempty"`
	Prefix    string `mapstructure:"prefix" json:"prefix,omitempty"`
}

// RenderingConfig configures PDF output.
type RenderingConfig struct {
	ChromePath string `mapstructure:"chrome_path" json:"chrome_path,omitempty"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json" json:"json"`
	Debug bool `mapstructure:"debug" json:"debug"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{SQLitePath: "internships.db"},
		Search: SearchConfig{
			Concurrency:     2,
			Delay:           2 * time.Second,
			MaxResults:      25,
			AutoSave:        true,
			MonitorInterval: 15 * time.Minute,
			MaxFailures:     5,
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
		},
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
			RateLimit:    RateLimitConfig{Enabled: true, PerMinute: 300},
		},
		Notify: NotifyConfig{Exchange: "internship_matches"},
	}
}

// SetDefaults registers every default on v so that environment variables can override any key.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	defaults := map[string]any{
		"user_id":                      d.UserID,
		"storage.driver":               d.Storage.Driver,
		"storage.url":                  d.Storage.URL,
		"storage.sqlite_path":          d.Storage.SQLitePath,
		"search.concurrency":           d.Search.Concurrency,
		"search.delay":                 d.Search.Delay,
		"search.max_results":           d.Search.MaxResults,
		"search.auto_save":             d.Search.AutoSave,
		"search.monitor_interval":      d.Search.MonitorInterval,
		"search.max_failures":          d.Search.MaxFailures,
		"search.feed_url":              d.Search.FeedURL,
		"search.feed_file":             d.Search.FeedFile,
		"llm.provider":                 d.LLM.Provider,
		"llm.model":                    d.LLM.Model,
		"llm.api_key":                  d.LLM.APIKey,
		"llm.temperature":              d.LLM.Temperature,
		"server.port":                  d.Server.Port,
		"server.read_timeout":          d.Server.ReadTimeout,
		"server.write_timeout":         d.Server.WriteTimeout,
		"server.rate_limit.enabled":    d.Server.RateLimit.Enabled,
		"server.rate_limit.per_minute": d.Server.RateLimit.PerMinute,
		"server.rate_limit.whitelist":  []string{},
		"server.rate_limit.blacklist":  []string{},
		"notify.amqp_url":              d.Notify.AMQPURL,
		"notify.exchange":              d.Notify.Exchange,
		"objectstore.bucket":           d.ObjectStore.Bucket,
		"objectstore.endpoint":         d.ObjectStore.Endpoint,
		"objectstore.region":           d.ObjectStore.Region,
		"objectstore.access_key":       d.ObjectStore.AccessKey,
		"objectstore.secret_key":       d.ObjectStore.SecretKey,
		"objectstore.prefix":           d.ObjectStore.Prefix,
		"rendering.chrome_path":        d.Rendering.ChromePath,
		"log.json":                     d.Log.JSON,
		"log.debug":                    d.Log.Debug,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// wellKnownEnv are unprefixed variables honoured alongside the INTERNSHIP_ ones.
var wellKnownEnv = map[string]string{
	"storage.url":     "DATABASE_URL",
	"llm.api_key":     "GEMINI_API_KEY",
	"notify.amqp_url": "AMQP_URL",
}

// Load reads configuration into a Config. v may carry bound flags; nil uses a fresh instance.
// An explicit path must exist; otherwise internship-agent.{yaml,json} in the working directory is optional.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range wellKnownEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and enums.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// StorageDriver resolves the effective storage driver.
func (c *Config) StorageDriver() string {
	if c.Storage.Driver != "" {
		return c.Storage.Driver
	}
	if c.Storage.URL != "" {
		return "postgres"
	}
	return "sqlite"
}

// StorageDSN returns the connection string for the effective driver.
func (c *Config) StorageDSN() string {
	if c.StorageDriver() == "sqlite" {
		return c.Storage.SQLitePath
	}
	return c.Storage.URL
}

// ResolvedUserID returns the configured user or the fixed local user.
func (c *Config) ResolvedUserID() uuid.UUID {
	if id, err := uuid.Parse(c.UserID); err == nil {
		return id
	}
	return localUserID
}

// Redacted returns a copy safe to print: secrets are masked and URL credentials dropped.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.LLM.APIKey = mask(c.LLM.APIKey)
	c.ObjectStore.AccessKey = mask(c.ObjectStore.AccessKey)
	c.ObjectStore.SecretKey = mask(c.ObjectStore.SecretKey)
	c.Storage.URL = stripUserInfo(c.Storage.URL)
	c.Notify.AMQPURL = stripUserInfo(c.Notify.AMQPURL)
	return c
}

func stripUserInfo(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return raw
}
