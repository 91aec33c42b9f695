package vapi

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Env maps environment variable names for VAPI configuration.
type Env struct {
	BaseURL       string
	APIKey        string
	ModelProvider string
	VoiceProvider string
	Timeout       string
	RequiredMerge string
}

// Config contains VAPI client configuration.
type Config struct {
	BaseURL       string        `toml:"base_url"`
	APIKey        string        `toml:"api_key"`
	ModelProvider string        `toml:"model_provider"`
	VoiceProvider string        `toml:"voice_provider"`
	Timeout       string        `toml:"timeout"`
	Breaker       BreakerConfig `toml:"breaker"`

	// RequiredMerge is the import policy for parameters declared by several
	// functions: "any" or "first".
	RequiredMerge string `toml:"required_merge"`
}

// BreakerConfig tunes the circuit breaker in front of the VAPI API.
type BreakerConfig struct {
	MaxRequests      uint32 `toml:"max_requests"`
	Interval         string `toml:"interval"`
	Timeout          string `toml:"timeout"`
	FailureThreshold uint32 `toml:"failure_threshold"`
}

// TimeoutDuration returns the per-request timeout. Zero means no client timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *BreakerConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

func (c *BreakerConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the VAPI configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.ModelProvider != "" {
		c.ModelProvider = overlay.ModelProvider
	}
	if overlay.VoiceProvider != "" {
		c.VoiceProvider = overlay.VoiceProvider
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RequiredMerge != "" {
		c.RequiredMerge = overlay.RequiredMerge
	}
	if overlay.Breaker.MaxRequests != 0 {
		c.Breaker.MaxRequests = overlay.Breaker.MaxRequests
	}
	if overlay.Breaker.Interval != "" {
		c.Breaker.Interval = overlay.Breaker.Interval
	}
	if overlay.Breaker.Timeout != "" {
		c.Breaker.Timeout = overlay.Breaker.Timeout
	}
	if overlay.Breaker.FailureThreshold != 0 {
		c.Breaker.FailureThreshold = overlay.Breaker.FailureThreshold
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.vapi.ai"
	}
	if c.ModelProvider == "" {
		c.ModelProvider = "openai"
	}
	if c.VoiceProvider == "" {
		c.VoiceProvider = "11labs"
	}
	if c.RequiredMerge == "" {
		c.RequiredMerge = "any"
	}
	if c.Breaker.MaxRequests == 0 {
		c.Breaker.MaxRequests = 1
	}
	if c.Breaker.Interval == "" {
		c.Breaker.Interval = "1m"
	}
	if c.Breaker.Timeout == "" {
		c.Breaker.Timeout = "30s"
	}
	if c.Breaker.FailureThreshold == 0 {
		c.Breaker.FailureThreshold = 5
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.ModelProvider != "" {
		if v := os.Getenv(env.ModelProvider); v != "" {
			c.ModelProvider = v
		}
	}
	if env.VoiceProvider != "" {
		if v := os.Getenv(env.VoiceProvider); v != "" {
			c.VoiceProvider = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.RequiredMerge != "" {
		if v := os.Getenv(env.RequiredMerge); v != "" {
			c.RequiredMerge = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
	}
	switch c.RequiredMerge {
	case "any", "first":
	default:
		return fmt.Errorf("invalid required_merge %q: must be any or first", c.RequiredMerge)
	}
	if _, err := time.ParseDuration(c.Breaker.Interval); err != nil {
		return fmt.Errorf("invalid breaker.interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Breaker.Timeout); err != nil {
		return fmt.Errorf("invalid breaker.timeout: %w", err)
	}
	return nil
}
