package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/errors"
)

// APIKeyEnv is the environment variable holding the Artificial Analysis key.
const APIKeyEnv = "ARTIFICIAL_ANALYSIS_API_KEY"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Cache and sources
	CacheDir          string
	APIKey            string
	BaseURL           string
	ModelsDevURL      string
	SecondaryValidity time.Duration
	HTTPTimeout       time.Duration
	Aliases           map[string]string
	AliasFile         string

	// Watch mode
	RefreshSchedule string
	MetricsAddr     string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.whichllm.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), "")
}

// MergeFile reloads the configuration with an explicit config file. Unlike
// the default ~/.whichllm.yaml, an explicit file must exist and parse.
func (c *Config) MergeFile(path string) error {
	loaded, err := loadConfig(viper.New(), path)
	if err != nil {
		return err
	}
	*c = *loaded
	return nil
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFiles()

	v.SetEnvPrefix("WHICHLLM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("aa_base_url", constants.ArtificialAnalysisBaseURL)
	v.SetDefault("models_dev_url", constants.ModelsDevAPIURL)
	v.SetDefault("secondary_validity", constants.SecondaryValidity)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("refresh_schedule", constants.DefaultRefreshSchedule)

	// The key is conventionally exported without the WHICHLLM_ prefix
	_ = v.BindEnv("aa_api_key", "WHICHLLM_AA_API_KEY", APIKeyEnv)
	_ = v.BindEnv("cache_dir", "WHICHLLM_CACHE_DIR", constants.CacheDirEnv)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".whichllm")

		// A missing default config file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		CacheDir:          v.GetString("cache_dir"),
		APIKey:            v.GetString("aa_api_key"),
		BaseURL:           v.GetString("aa_base_url"),
		ModelsDevURL:      v.GetString("models_dev_url"),
		SecondaryValidity: v.GetDuration("secondary_validity"),
		HTTPTimeout:       v.GetDuration("http_timeout"),
		Aliases:           v.GetStringMapString("aliases"),
		AliasFile:         v.GetString("alias_file"),

		RefreshSchedule: v.GetString("refresh_schedule"),
		MetricsAddr:     v.GetString("metrics_addr"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.SecondaryValidity <= 0 {
		config.SecondaryValidity = constants.SecondaryValidity
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = constants.DefaultHTTPTimeout
	}
	if config.RefreshSchedule == "" {
		config.RefreshSchedule = constants.DefaultRefreshSchedule
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over the config file and environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win; godotenv never overrides
// variables that are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
