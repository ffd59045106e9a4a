// Package config loads CLI settings from storeadmin.yaml, STOREADMIN_*
// environment variables and command flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. STOREADMIN_LISTEN.
const EnvPrefix = "STOREADMIN"

// FileName is the config file searched for without an explicit path.
const FileName = "storeadmin"

// Config is the decoded configuration.
type Config struct {
	Listen          string        `mapstructure:"listen"`
	Database        string        `mapstructure:"database"`
	APIBase         string        `mapstructure:"api"`
	Store           string        `mapstructure:"store"`
	Brand           string        `mapstructure:"brand"`
	Theme           Theme         `mapstructure:"theme"`
	Templates       string        `mapstructure:"templates"`
	Overrides       string        `mapstructure:"overrides"`
	Log             Log           `mapstructure:"log"`
	Trace           bool          `mapstructure:"trace"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Theme selects the dashboard look. File adds a theme manifest; Name picks
// between it and the built-in "storeadmin" theme.
type Theme struct {
	Name    string `mapstructure:"name"`
	File    string `mapstructure:"file"`
	Variant string `mapstructure:"variant"`
}

// Log configures the logger.
type Log struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// Defaults installs the built-in values on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("listen", ":3000")
	v.SetDefault("database", "storeadmin.db")
	v.SetDefault("api", "http://localhost:3000")
	v.SetDefault("brand", "Store Admin")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	// Registered so STOREADMIN_THEME_* reaches Unmarshal without a file.
	for _, key := range []string{"theme.name", "theme.file", "theme.variant"} {
		v.SetDefault(key, "")
	}
}

// New returns a viper instance with defaults, env binding and the config
// search path applied. An empty path searches the working directory and
// $HOME/.config/storeadmin.
func New(path string) *viper.Viper {
	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		return v
	}
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", FileName))
	}
	return v
}

// Load reads the config file, if any, and decodes v. A missing file is not
// an error unless it was named explicitly.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the commands cannot work with.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Database) == "" {
		problems = append(problems, "database path is empty")
	}
	if strings.TrimSpace(c.APIBase) == "" {
		problems = append(problems, "api base URL is empty")
	}
	if c.ShutdownTimeout < 0 {
		problems = append(problems, "shutdown_timeout is negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}
