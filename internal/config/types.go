package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthScheme selects how the credential is injected into requests.
type AuthScheme string

const (
	// AuthSchemeBearer sends the credential as "Authorization: Bearer <key>".
	// This is the default.
	AuthSchemeBearer AuthScheme = "bearer"
	// AuthSchemeBasic sends the credential as the basic-auth username with
	// an empty password, the convention for key-based payment APIs.
	AuthSchemeBasic AuthScheme = "basic"
	// AuthSchemeHeader sends the credential in a custom header named by
	// AuthConfig.Header.
	AuthSchemeHeader AuthScheme = "header"
)

// ParseAuthScheme parses a string into an AuthScheme, with validation.
// The empty string parses as bearer.
func ParseAuthScheme(s string) (AuthScheme, error) {
	switch strings.ToLower(s) {
	case "bearer", "":
		return AuthSchemeBearer, nil
	case "basic":
		return AuthSchemeBasic, nil
	case "header":
		return AuthSchemeHeader, nil
	default:
		return AuthSchemeBearer, fmt.Errorf("invalid auth scheme %q: must be one of 'bearer', 'basic', or 'header'", s)
	}
}

// AuthConfig defines how requests are authenticated.
type AuthConfig struct {
	Scheme AuthScheme `yaml:"scheme,omitempty"` // bearer (default), basic, or header
	Header string     `yaml:"header,omitempty"` // header name when scheme is "header"
}

// Config is the top-level configuration structure for apictl.
type Config struct {
	BaseURL        string     `yaml:"base_url,omitempty"`        // overrides the compiled tree's base URL
	Auth           AuthConfig `yaml:"auth,omitempty"`            //
	TimeoutSeconds int        `yaml:"timeout_seconds,omitempty"` // request timeout (default: 30)
	TreePath       string     `yaml:"tree_path,omitempty"`       // command tree file location
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
