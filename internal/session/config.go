package session

import (
	"fmt"
	"os"
	"strconv"
)

// Env maps environment variable names for session configuration.
type Env struct {
	JWTSecret  string
	Issuer     string
	UserClaim  string
	UserHeader string
	Required   string
}

// Config controls how a request's user is resolved.
//
// When JWTSecret is set, the bearer token is verified as an HS256 JWT and
// the user id is read from UserClaim. Otherwise the user id is taken from
// UserHeader as-is.
type Config struct {
	JWTSecret  string `toml:"jwt_secret"`
	Issuer     string `toml:"issuer"`
	UserClaim  string `toml:"user_claim"`
	UserHeader string `toml:"user_header"`
	Required   bool   `toml:"required"`
}

// Finalize applies defaults, loads environment overrides, and validates the session configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.JWTSecret != "" {
		c.JWTSecret = overlay.JWTSecret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.UserClaim != "" {
		c.UserClaim = overlay.UserClaim
	}
	if overlay.UserHeader != "" {
		c.UserHeader = overlay.UserHeader
	}
	if overlay.Required {
		c.Required = true
	}
}

func (c *Config) loadDefaults() {
	if c.UserClaim == "" {
		c.UserClaim = "sub"
	}
	if c.UserHeader == "" {
		c.UserHeader = "X-User-ID"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.JWTSecret != "" {
		if v := os.Getenv(env.JWTSecret); v != "" {
			c.JWTSecret = v
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.UserClaim != "" {
		if v := os.Getenv(env.UserClaim); v != "" {
			c.UserClaim = v
		}
	}
	if env.UserHeader != "" {
		if v := os.Getenv(env.UserHeader); v != "" {
			c.UserHeader = v
		}
	}
	if env.Required != "" {
		if v := os.Getenv(env.Required); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Required = b
			}
		}
	}
}

func (c *Config) validate() error {
	if c.JWTSecret != "" && len(c.JWTSecret) < 16 {
		return fmt.Errorf("jwt_secret must be at least 16 bytes")
	}
	return nil
}
