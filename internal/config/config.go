package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/codetran/internal/language"
	"github.com/valpere/codetran/internal/translator"
)

// EnvPrefix is prepended to upper-cased keys with dots replaced by
// underscores, e.g. CODETRAN_ENDPOINT_URL.
const EnvPrefix = "CODETRAN"

// Config stores runtime configuration resolved from flags, environment and
// the optional config file.
type Config struct {
	Endpoint EndpointConfig `mapstructure:"endpoint"`
	Session  SessionConfig  `mapstructure:"session"`
	Download DownloadConfig `mapstructure:"download"`
	History  HistoryConfig  `mapstructure:"history"`
	Log      LogConfig      `mapstructure:"log"`
}

type EndpointConfig struct {
	URL     string        `mapstructure:"url"`
	Mode    string        `mapstructure:"mode"`
	Timeout time.Duration `mapstructure:"timeout"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
}

type SessionConfig struct {
	InputLanguage   string        `mapstructure:"input_language"`
	OutputLanguage  string        `mapstructure:"output_language"`
	CopyAckWindow   time.Duration `mapstructure:"copy_ack_window"`
	LenientDecoding bool          `mapstructure:"lenient_decoding"`
}

type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
}

type HistoryConfig struct {
	// DB is the sqlite path; empty disables history.
	DB string `mapstructure:"db"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("endpoint.url", translator.DefaultEndpoint)
	v.SetDefault("endpoint.mode", string(translator.ModeStream))
	v.SetDefault("endpoint.timeout", translator.DefaultTimeout)
	v.SetDefault("endpoint.api_key", "")
	v.SetDefault("endpoint.model", translator.DefaultOpenAIModel)
	v.SetDefault("session.input_language", language.DefaultInput.ID)
	v.SetDefault("session.output_language", language.DefaultOutput.ID)
	v.SetDefault("session.copy_ack_window", 2*time.Second)
	v.SetDefault("session.lenient_decoding", false)
	v.SetDefault("download.dir", ".")
	v.SetDefault("history.db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := translator.ParseMode(c.Endpoint.Mode); err != nil {
		return fmt.Errorf("endpoint.mode: %w", err)
	}
	if c.Endpoint.Mode != string(translator.ModeOpenAI) && c.Endpoint.URL == "" {
		return fmt.Errorf("endpoint.url must not be empty")
	}
	if c.Endpoint.Timeout < 0 {
		return fmt.Errorf("endpoint.timeout must not be negative")
	}
	if _, ok := language.Lookup(c.Session.InputLanguage); !ok {
		return fmt.Errorf("session.input_language: unknown language %q (supported: %s)",
			c.Session.InputLanguage, strings.Join(language.IDs(), ", "))
	}
	if _, ok := language.Lookup(c.Session.OutputLanguage); !ok {
		return fmt.Errorf("session.output_language: unknown language %q (supported: %s)",
			c.Session.OutputLanguage, strings.Join(language.IDs(), ", "))
	}
	if c.Session.CopyAckWindow <= 0 {
		return fmt.Errorf("session.copy_ack_window must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

// InputLanguage returns the configured default input language.
func (c *Config) InputLanguage() language.Option {
	opt, _ := language.Lookup(c.Session.InputLanguage)
	return opt
}

// OutputLanguage returns the configured default output language.
func (c *Config) OutputLanguage() language.Option {
	opt, _ := language.Lookup(c.Session.OutputLanguage)
	return opt
}
