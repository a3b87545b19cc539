package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/internal/validation"
	"github.com/agentstation/taxonomy-import/pkg/constants"
	"github.com/agentstation/taxonomy-import/pkg/errors"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "TAXONOMY"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string `validate:"omitempty,oneof=table wide json yaml"`

	// Config file
	ConfigFile string

	// Taxonomy service
	Endpoint     string        `validate:"required,url"`
	ClientID     string
	ClientSecret string
	TokenURL     string        `validate:"omitempty,url"`
	Timeout      time.Duration `validate:"gte=0"`

	// Tracing writes spans to stderr
	Trace bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (TAXONOMY_*)
// 3. .env files
// 4. Config file (TAXONOMY_CONFIG, or .taxonomy-import.yaml in . or $HOME)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()
	return loadConfig(viper.New(), os.Getenv(EnvPrefix+"_CONFIG"))
}

// LoadConfigFile loads configuration with file taking the place of the
// searched config file. A missing file is an error.
func LoadConfigFile(file string) (*Config, error) {
	loadEnvFiles()
	return loadConfig(viper.New(), file)
}

func loadConfig(v *viper.Viper, file string) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("endpoint", constants.DefaultEndpoint)
	v.SetDefault("timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+file, err)
		}
	} else {
		// Search for config in standard locations
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".taxonomy-import")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "cannot parse config file", err)
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Endpoint:     v.GetString("endpoint"),
		ClientID:     v.GetString("client_id"),
		ClientSecret: v.GetString("client_secret"),
		TokenURL:     v.GetString("token_url"),
		Timeout:      v.GetDuration("timeout"),

		Trace: v.GetBool("trace"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the config against its struct tags.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return errors.NewConfigError("config", "invalid configuration", err)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Remote returns the service settings held by the config.
func (c *Config) Remote() application.Remote {
	return application.Remote{
		Endpoint:     c.Endpoint,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env; variables already set win over both.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
