package supabase

import (
	"sync"

	"sensor_dashboard/internal/config"
)

// Provider hands out the one shared Client for a configuration.
// The client is built on first use; later calls return the same instance
// (or the same construction error) without rebuilding it.
type Provider struct {
	cfg  config.SupabaseConfig
	opts []Option

	once   sync.Once
	client *Client
	err    error
}

// NewProvider captures the configuration; nothing is validated or built yet.
func NewProvider(cfg config.SupabaseConfig, opts ...Option) *Provider {
	if cfg.Timeout > 0 {
		opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)
	}
	return &Provider{cfg: cfg, opts: opts}
}

// Client returns the shared handle. A missing URL or key yields
// config.ErrConfigurationMissing and a nil client.
func (p *Provider) Client() (*Client, error) {
	p.once.Do(func() {
		p.client, p.err = New(p.cfg.URL, p.cfg.AnonKey, p.opts...)
	})
	return p.client, p.err
}
