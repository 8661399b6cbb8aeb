package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPost is the post the site root redirects to.
const DefaultPost = "js_recursion"

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "MDBLOG"

// Config holds all configuration for the blog server
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Content ContentConfig `mapstructure:"content"`
	Site    SiteConfig    `mapstructure:"site"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// ContentConfig locates the markdown files.
// DefaultPost is not read from any source; Load always sets it to the DefaultPost constant.
type ContentConfig struct {
	Root         string `mapstructure:"root" validate:"required"`
	NotFoundFile string `mapstructure:"not_found_file" validate:"required,endswith=.md"`
	DefaultPost  string `mapstructure:"-" validate:"required"`
}

// SiteConfig holds presentation settings
type SiteConfig struct {
	Title string `mapstructure:"title" validate:"required"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output" validate:"oneof=stdout stderr"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true"`
}

// Load reads configuration from defaults, an optional config file, a .env
// file and MDBLOG_ prefixed environment variables, in increasing precedence.
// Flags bound to v by the caller take precedence over all of them.
func Load(v *viper.Viper, file string) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	if v == nil {
		v = viper.New()
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Content.DefaultPost = DefaultPost

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no other source is present.
func Default() *Config {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		// Defaults are constant and always valid.
		panic(err)
	}
	return cfg
}

// SetDefaults registers every known key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":4567")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("content.root", "./public/data/files")
	v.SetDefault("content.not_found_file", "404_error.md")

	v.SetDefault("site.title", "Blog")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stderr")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}

	if strings.ContainsAny(c.Content.NotFoundFile, `/\`) {
		return errors.New("content.not_found_file must be a file name inside content.root")
	}

	return nil
}
