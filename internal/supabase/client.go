// Package supabase is the handle to the hosted dashboard database. Table
// access goes through PostgREST via postgrest-go.
package supabase

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sensor_dashboard/internal/config"

	"github.com/supabase-community/postgrest-go"
)

const (
	restPath       = "/rest/v1"
	schema         = "public"
	defaultTimeout = 10 * time.Second
)

var errInvalidURL = errors.New("invalid supabase url")

// Client is the shared handle to the hosted backend. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	baseURL *url.URL
	rest    *postgrest.Client
	timeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout bounds every table call. postgrest-go takes no context, so a
// call that outlives it is abandoned rather than cancelled.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New builds a client for the given project URL and anonymous key.
// It performs no network I/O.
func New(rawURL, anonKey string, opts ...Option) (*Client, error) {
	if err := (config.SupabaseConfig{URL: rawURL, AnonKey: anonKey}).Validate(); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(rawURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", errInvalidURL, rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w %q: want an absolute http(s) url", errInvalidURL, rawURL)
	}

	key := strings.TrimSpace(anonKey)
	rest := postgrest.NewClient(u.String()+restPath, schema, map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("%w %q: %v", errInvalidURL, rawURL, rest.ClientError)
	}

	c := &Client{baseURL: u, rest: rest, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the project base URL.
func (c *Client) URL() string { return c.baseURL.String() }

// From starts a query against a table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}
