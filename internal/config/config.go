// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package config

import (
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"

	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// Config is the top-level TechBuddy configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Model    ModelConfig    `mapstructure:"model"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Listen       string        `mapstructure:"listen"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ModelConfig holds credentials and model selection for the Gemini API.
type ModelConfig struct {
	APIKey string `mapstructure:"api_key"`
	Name   string `mapstructure:"name"`
}

// SessionsConfig controls conversation context bounds.
type SessionsConfig struct {
	// StoredWindow is how many turns each session retains.
	StoredWindow int `mapstructure:"stored_window"`
	// PromptWindow is how many recent turns one model call may see.
	PromptWindow int `mapstructure:"prompt_window"`
	// TTL evicts sessions idle for longer than this; zero disables
	// eviction and sessions live until cleared.
	TTL time.Duration `mapstructure:"ttl"`
}

// UploadsConfig controls on-disk upload storage.
type UploadsConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

// SetDefaults registers default values on the given Viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("model.name", "gemini-2.0-flash")
	v.SetDefault("sessions.stored_window", 20)
	v.SetDefault("sessions.prompt_window", 10)
	v.SetDefault("sessions.ttl", time.Duration(0))
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.max_bytes", int64(16<<20))
}

// SetupEnv binds environment variables with the TECHBUDDY prefix, so
// model.api_key maps to TECHBUDDY_MODEL_API_KEY.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("TECHBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (optional) with defaults
// and environment variable overrides, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, tberr.Errorf(tberr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a Config from an already-populated
// Viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, tberr.Errorf(tberr.CodeConfigParseInvalidFormat, "unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges and cross-field constraints.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return tberr.Errorf(tberr.CodeConfigValidateInvalidValue,
			"server.listen %q is not host:port: %w", c.Server.Listen, err)
	}
	if c.Model.Name == "" {
		return tberr.New(tberr.CodeConfigValidateInvalidValue, "model.name must not be empty")
	}
	if c.Sessions.StoredWindow <= 0 {
		return tberr.Errorf(tberr.CodeConfigValidateInvalidValue,
			"sessions.stored_window must be positive, got %d", c.Sessions.StoredWindow)
	}
	if c.Sessions.PromptWindow <= 0 {
		return tberr.Errorf(tberr.CodeConfigValidateInvalidValue,
			"sessions.prompt_window must be positive, got %d", c.Sessions.PromptWindow)
	}
	if c.Sessions.PromptWindow > c.Sessions.StoredWindow {
		return tberr.Errorf(tberr.CodeConfigValidateInvalidValue,
			"sessions.prompt_window (%d) must not exceed sessions.stored_window (%d)",
			c.Sessions.PromptWindow, c.Sessions.StoredWindow)
	}
	if c.Sessions.TTL < 0 {
		return tberr.Errorf(tberr.CodeConfigValidateInvalidValue,
			"sessions.ttl must not be negative, got %s", c.Sessions.TTL)
	}
	if c.Uploads.Dir == "" {
		return tberr.New(tberr.CodeConfigValidateInvalidValue, "uploads.dir must not be empty")
	}
	if c.Uploads.MaxBytes <= 0 {
		return tberr.Errorf(tberr.CodeConfigValidateInvalidValue,
			"uploads.max_bytes must be positive, got %d", c.Uploads.MaxBytes)
	}
	return nil
}
