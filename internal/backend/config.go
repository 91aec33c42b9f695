package backend

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Env maps environment variable names for backend configuration.
type Env struct {
	BaseURL           string
	WebhookPath       string
	Token             string
	OAuthTokenURL     string
	OAuthClientID     string
	OAuthClientSecret string
}

// Config locates the PeteRental backend and the credentials used to call it.
type Config struct {
	BaseURL     string      `toml:"base_url"`
	WebhookPath string      `toml:"webhook_path"`
	Token       string      `toml:"token"`
	Timeout     string      `toml:"timeout"`
	OAuth       OAuthConfig `toml:"oauth"`
}

// OAuthConfig configures a client-credentials grant. It takes precedence
// over Token when ClientID is set.
type OAuthConfig struct {
	TokenURL     string   `toml:"token_url"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	Scopes       []string `toml:"scopes"`
}

// WebhookURL is the function-call endpoint VAPI posts to.
func (c *Config) WebhookURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.WebhookPath
}

func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the backend configuration.
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
	if overlay.WebhookPath != "" {
		c.WebhookPath = overlay.WebhookPath
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.OAuth.TokenURL != "" {
		c.OAuth.TokenURL = overlay.OAuth.TokenURL
	}
	if overlay.OAuth.ClientID != "" {
		c.OAuth.ClientID = overlay.OAuth.ClientID
	}
	if overlay.OAuth.ClientSecret != "" {
		c.OAuth.ClientSecret = overlay.OAuth.ClientSecret
	}
	if overlay.OAuth.Scopes != nil {
		c.OAuth.Scopes = overlay.OAuth.Scopes
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000"
	}
	if c.WebhookPath == "" {
		c.WebhookPath = "/vapi/webhook"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.WebhookPath != "" {
		if v := os.Getenv(env.WebhookPath); v != "" {
			c.WebhookPath = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.OAuthTokenURL != "" {
		if v := os.Getenv(env.OAuthTokenURL); v != "" {
			c.OAuth.TokenURL = v
		}
	}
	if env.OAuthClientID != "" {
		if v := os.Getenv(env.OAuthClientID); v != "" {
			c.OAuth.ClientID = v
		}
	}
	if env.OAuthClientSecret != "" {
		if v := os.Getenv(env.OAuthClientSecret); v != "" {
			c.OAuth.ClientSecret = v
		}
	}
}

func (c *Config) validate() error {
	u, err := url.ParseRequestURI(c.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	if !strings.HasPrefix(c.WebhookPath, "/") {
		return fmt.Errorf("webhook_path must start with /")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.OAuth.ClientID != "" && c.OAuth.TokenURL == "" {
		return fmt.Errorf("oauth.token_url required when oauth.client_id is set")
	}
	return nil
}
