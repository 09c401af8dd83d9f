// Package http provides HTTP client utilities with connection pooling and retry logic.
package http

import (
	"net/http"
	"sync"
	"time"

	"dubsync/internal/config"
)

// ClientConfig configures the HTTP client behavior.
type ClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// DefaultClientConfig returns the default HTTP client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             config.HTTPTimeout,
		MaxIdleConns:        config.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: config.HTTPMaxIdleConnsPerHost,
		IdleConnTimeout:     config.HTTPIdleConnTimeout,
	}
}

// NewPooledClient creates an HTTP client with connection pooling.
// This should be reused across requests to the same host for efficiency.
func NewPooledClient(cfg ClientConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
		},
	}
}

// NewDefaultClient creates an HTTP client with default pooling settings.
func NewDefaultClient() *http.Client {
	return NewPooledClient(DefaultClientConfig())
}

// registry is a process-wide cache of named pooled clients. Collaborators
// that talk to a single external endpoint (the voice synthesizer, a video
// acquirer's metadata API) share one client per name instead of each
// constructing its own transport.
var (
	registryMu sync.Mutex
	registry   = make(map[string]*http.Client)
)

// ClientFor returns the shared pooled client registered under name,
// creating one with cfg on first use. Subsequent calls with the same name
// ignore cfg and return the existing client.
func ClientFor(name string, cfg ClientConfig) *http.Client {
	registryMu.Lock()
	defer registryMu.Unlock()

	if c, ok := registry[name]; ok {
		return c
	}
	c := NewPooledClient(cfg)
	registry[name] = c
	return c
}
