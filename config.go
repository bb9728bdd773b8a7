package goBroker

import (
	"errors"
	"net/url"
	"time"
)

// Config carries all tunables for a [Client]. Configure once through
// [Builder.WithConfig]; the client treats it as immutable after Build.
type Config struct {
	API       APIConfig
	OAuth     OAuthConfig
	Session   SessionConfig
	Challenge ChallengeConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig locates the provider and bounds every request.
type APIConfig struct {
	// BaseURL is the absolute root of the provider API. Required.
	BaseURL string
	// Timeout bounds each transport call. Exceeding it surfaces as a
	// *RequestError wrapping a timeout cause.
	Timeout   time.Duration
	UserAgent string
}

/*
====================================
OAUTH CONFIG
====================================
*/

// OAuthConfig shapes the credential grant submitted on login and refresh.
type OAuthConfig struct {
	ClientID string
	Scope    string
	// ExpiresIn is the requested access-token lifetime in seconds.
	ExpiresIn int64
	// DeviceToken identifies this installation to the provider's
	// trusted-device workflow. Left empty, Build generates one.
	DeviceToken string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the durable session blob location used when no
// store is injected through [Builder.WithSessionStore].
type SessionConfig struct {
	FilePath string
}

/*
====================================
CHALLENGE CONFIG
====================================
*/

// ChallengeConfig selects the delivery channel requested for device
// challenges.
type ChallengeConfig struct {
	// Type is the challenge delivery channel: "sms" or "email".
	Type string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	// Enabled activates dispatch even without an injected sink. A sink
	// injected through [Builder.WithAuditSink] activates dispatch on its
	// own; this flag is not consulted then.
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration a fresh [Builder] starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   10 * time.Second,
			UserAgent: "goBroker/1.0",
		},
		OAuth: OAuthConfig{
			Scope:     "internal",
			ExpiresIn: 86400,
		},
		Session: SessionConfig{
			FilePath: ".gobroker-session",
		},
		Challenge: ChallengeConfig{
			Type: "sms",
		},
		Audit: AuditConfig{
			BufferSize: 256,
		},
	}
}

// Validate checks the configuration for internal consistency. Build calls
// it; callers constructing a Config by hand may call it early.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("API.BaseURL must be an absolute URL")
	}
	if c.API.Timeout <= 0 {
		return errors.New("API.Timeout must be positive")
	}
	if c.OAuth.ExpiresIn <= 0 {
		return errors.New("OAuth.ExpiresIn must be positive")
	}
	switch c.Challenge.Type {
	case "sms", "email":
	default:
		return errors.New(`Challenge.Type must be "sms" or "email"`)
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	if c.Session.FilePath == "" {
		return errors.New("Session.FilePath must not be empty")
	}
	return nil
}
