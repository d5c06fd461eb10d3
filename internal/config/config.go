// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for limits and pacing. DelayMin/DelayMax bound the randomized
// pause between profiles.
const (
	DefaultMaxPosts   = 5
	DefaultMaxScrolls = 5
	DefaultDelayMin   = 10 * time.Second
	DefaultDelayMax   = 15 * time.Second
	DefaultDataDir    = "data"
	DefaultDebugDir   = "debug"

	DefaultAuthTimeout = 15 * time.Second
	DefaultNavTimeout  = 30 * time.Second
)

// Config holds the full scraper configuration. Credentials come from the
// environment only; everything else can be set via a JSON config file or CLI
// flags, with flags winning.
type Config struct {
	// Credentials, consumed once at session acquisition.
	Email    string `json:"-" validate:"required"`
	Password string `json:"-" validate:"required"`

	// Targets
	Profiles []string `json:"profiles,omitempty" validate:"min=1,dive,url"`

	// Limits
	MaxPosts   int `json:"max_posts,omitempty" validate:"gte=0"`
	MaxScrolls int `json:"max_scrolls,omitempty" validate:"gte=0"`

	// Pacing between profiles.
	DelayMin time.Duration `json:"-" validate:"gte=0"`
	DelayMax time.Duration `json:"-" validate:"gtefield=DelayMin"`

	// Behavior
	Headless bool   `json:"headless,omitempty"`
	Debug    bool   `json:"debug,omitempty"`
	DataDir  string `json:"data_dir,omitempty" validate:"required"`
	DebugDir string `json:"debug_dir,omitempty"`

	// Browser wait bounds.
	AuthTimeout time.Duration `json:"-" validate:"gt=0"`
	NavTimeout  time.Duration `json:"-" validate:"gt=0"`
}

// FromEnv builds a Config with defaults applied and credentials read from
// LINKEDIN_EMAIL / LINKEDIN_PASSWORD.
func FromEnv() Config {
	return Config{
		Email:       os.Getenv("LINKEDIN_EMAIL"),
		Password:    os.Getenv("LINKEDIN_PASSWORD"),
		MaxPosts:    DefaultMaxPosts,
		MaxScrolls:  DefaultMaxScrolls,
		DelayMin:    DefaultDelayMin,
		DelayMax:    DefaultDelayMax,
		DataDir:     DefaultDataDir,
		DebugDir:    DefaultDebugDir,
		AuthTimeout: DefaultAuthTimeout,
		NavTimeout:  DefaultNavTimeout,
	}
}

// LoadFile reads a JSON config file and merges it over the receiver.
// Zero-valued fields in the file leave the existing values untouched.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file Config
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if len(file.Profiles) > 0 {
		c.Profiles = file.Profiles
	}
	if file.MaxPosts > 0 {
		c.MaxPosts = file.MaxPosts
	}
	if file.MaxScrolls > 0 {
		c.MaxScrolls = file.MaxScrolls
	}
	if file.DataDir != "" {
		c.DataDir = file.DataDir
	}
	if file.DebugDir != "" {
		c.DebugDir = file.DebugDir
	}
	if file.Headless {
		c.Headless = true
	}
	if file.Debug {
		c.Debug = true
	}

	return nil
}

// Validate checks the configuration. Missing credentials are a fatal
// precondition for a run and are reported, not retried.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				switch fe.Field() {
				case "Email", "Password":
					return fmt.Errorf("config error: LINKEDIN_EMAIL and LINKEDIN_PASSWORD must be set")
				case "Profiles":
					return fmt.Errorf("config error: at least one valid profile URL is required")
				}
			}
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
