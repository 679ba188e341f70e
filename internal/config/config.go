// Package config loads studyplan settings from the environment, an optional
// .studyplan.yaml file and a local .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. STUDYPLAN_DB.
const EnvPrefix = "STUDYPLAN"

type Config struct {
	DBPath         string
	PrefsDir       string
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
	LogUseCases    bool
	Zoom           float64
}

// DefaultConfig returns the settings used when nothing is configured.
// Publishing is disabled by default.
func DefaultConfig() Config {
	return Config{
		DBPath:         "~/.studyplan/studyplan.db",
		PrefsDir:       "~/.studyplan/prefs",
		AMQPExchange:   "studyplan",
		AMQPRoutingKey: "line_items.reconciled",
		Zoom:           1,
	}
}

// Load reads .env (if present), then .studyplan.yaml from ./ or
// $STUDYPLAN_CONFIG_PATH, then STUDYPLAN_* variables. Later sources win.
// Paths are returned with ~ expanded.
func Load() (Config, error) {
	_ = godotenv.Load()

	def := DefaultConfig()
	v := viper.New()
	v.SetDefault("db", def.DBPath)
	v.SetDefault("prefs_dir", def.PrefsDir)
	v.SetDefault("amqp_url", def.AMQPURL)
	v.SetDefault("amqp_exchange", def.AMQPExchange)
	v.SetDefault("amqp_routing_key", def.AMQPRoutingKey)
	v.SetDefault("log_use_cases", def.LogUseCases)
	v.SetDefault("zoom", def.Zoom)

	v.SetConfigName(".studyplan") // .yaml is implicit
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if override := os.Getenv(EnvPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := Config{
		AMQPURL:        v.GetString("amqp_url"),
		AMQPExchange:   v.GetString("amqp_exchange"),
		AMQPRoutingKey: v.GetString("amqp_routing_key"),
		LogUseCases:    v.GetBool("log_use_cases"),
		Zoom:           v.GetFloat64("zoom"),
	}
	var err error
	if cfg.DBPath, err = expandPath(v.GetString("db")); err != nil {
		return Config{}, err
	}
	if cfg.PrefsDir, err = expandPath(v.GetString("prefs_dir")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}
	if c.PrefsDir == "" {
		problems = append(problems, "prefs directory cannot be empty")
	}
	if c.Zoom <= 0 {
		problems = append(problems, fmt.Sprintf("invalid zoom %v: must be positive", c.Zoom))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			problems = append(problems, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// PublishEnabled reports whether reconciled events go to a broker.
func (c Config) PublishEnabled() bool {
	return c.AMQPURL != ""
}

func expandPath(p string) (string, error) {
	if p == ":memory:" {
		return p, nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", p, err)
	}
	return expanded, nil
}
