// Package redis wraps the go-redis client so session storage can be
// pointed at a single node or a cluster and mocked in tests.
package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

// Options configures Redis client behavior
type Options struct {
	// Addrs holds one address for a single node or several for a cluster
	Addrs        []string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	UseTLS       bool
}

// Validate checks the options before a client is built
func (o *Options) Validate() error {
	vb := errors.NewValidationBuilder()
	if len(o.Addrs) == 0 {
		vb.RequiredField("Addrs")
	}
	for _, addr := range o.Addrs {
		errors.ValidateRequired("Addrs", addr, vb)
	}
	if len(o.Addrs) > 1 && o.DB != 0 {
		vb.InvalidField("DB", "cluster mode only supports database 0")
	}
	return vb.Build()
}

// NewClient creates a client for a single node, or a cluster client when
// more than one address is configured. go-redis connects lazily.
func NewClient(opts Options) (Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid redis options")
	}

	var tlsConfig *tls.Config
	if opts.UseTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        opts.Addrs,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		MaxRetries:   opts.MaxRetries,
		DialTimeout:  opts.DialTimeout,
		TLSConfig:    tlsConfig,
	}), nil
}

// Ping verifies the server is reachable
func Ping(ctx context.Context, c Client) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "redis is unreachable")
	}
	return nil
}
