package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/acme-corp/data-pipeline/errors"
)

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct .env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads configuration into cfg. It searches standard locations
// for pipeline.yml and .env unless explicit paths are given, binds
// environment variables (PIPELINE_* with _ as nesting separator), and
// applies defaults and validation.
func Load(cfg *Config, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.ConfigFile == "" {
		lc.ConfigFile = findFirst(
			"./pipeline.yml",
			"./config/pipeline.yml",
			"../config/pipeline.yml",
		)
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findFirst(".env")
	}

	// Load .env first so AutomaticEnv sees its variables.
	if lc.EnvFile != "" {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			fmt.Printf("[config] warning: failed to load .env file %s: %v\n", lc.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("PIPELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidConfig("reading config file").
				WithDetail("file", lc.ConfigFile).
				WithCause(err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig("unmarshaling config").WithCause(err)
	}

	cfg.ApplyDefaults()
	return cfg.Validate()
}

// bindKeys registers every known key so AutomaticEnv resolves them
// even when the YAML file omits the section.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"name",
		"environment",
		"logging.level",
		"logging.format",
		"logging.output",
		"logging.no_color",
		"logging.timestamp",
		"logging.caller",
		"pool.workers",
	} {
		// BindEnv only errors on an empty key.
		_ = v.BindEnv(key)
	}
}

func findFirst(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
