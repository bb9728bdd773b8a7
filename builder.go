package goBroker

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	internalaudit "github.com/halworth/goBroker/internal/audit"
	"github.com/halworth/goBroker/internal/transport"
	"github.com/halworth/goBroker/store"
)

// Builder assembles a [Client]. Configure with the With* methods and call
// [Builder.Build] exactly once.
//
// A builder given no HTTP client still builds: the resulting client is
// uninitialized and every network operation fails with [ErrUninitialized]
// before touching the wire. Useful for restore-only tooling and tests.
type Builder struct {
	config     Config
	httpc      *http.Client
	challenges ChallengeReader
	blobs      store.Store
	auditSink  AuditSink

	built bool
}

// New returns a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithHTTPClient supplies the HTTP client backing the transport adapter.
// TLS settings, proxies, and connection pooling are configured there.
func (b *Builder) WithHTTPClient(httpc *http.Client) *Builder {
	b.httpc = httpc
	return b
}

// WithChallengeReader injects the operator input capability used for
// device challenges and MFA prompts. Defaults to stdin.
func (b *Builder) WithChallengeReader(r ChallengeReader) *Builder {
	b.challenges = r
	return b
}

// WithSessionStore injects the durable blob backend used by Dump and
// Load. Defaults to a file at [SessionConfig.FilePath].
func (b *Builder) WithSessionStore(s store.Store) *Builder {
	b.blobs = s
	return b
}

// WithAuditSink injects the sink receiving session-lifecycle audit
// events. An injected sink activates auditing no matter where the call
// sits relative to WithConfig.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the login latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the client.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.OAuth.DeviceToken == "" {
		cfg.OAuth.DeviceToken = uuid.NewString()
	}

	client := &Client{
		config:     cfg,
		challenges: b.challenges,
		blobs:      b.blobs,
	}

	if client.challenges == nil {
		client.challenges = NewStdinChallengeReader()
	}
	if client.blobs == nil {
		client.blobs = store.NewFile(cfg.Session.FilePath)
	}

	if b.httpc != nil {
		tc, err := transport.New(b.httpc, cfg.API.BaseURL, cfg.API.UserAgent, cfg.API.Timeout)
		if err != nil {
			return nil, err
		}
		client.transport = tc
	}

	if cfg.Audit.Enabled || b.auditSink != nil {
		sink := b.auditSink
		if sink == nil {
			sink = NoOpSink{}
		}
		client.audit = internalaudit.NewDispatcher(sink, cfg.Audit.BufferSize, cfg.Audit.DropIfFull)
	}
	client.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return client, nil
}
