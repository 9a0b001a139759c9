package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Timeouts holds all configurable timeout and retry values.
// These values can be customized via environment variables.
type Timeouts struct {
	InstanceRunning time.Duration `env:"APPBOOT_TIMEOUT_INSTANCE_RUNNING, default=5m"` // Wait for an instance to reach running
	ImageAvailable  time.Duration `env:"APPBOOT_TIMEOUT_IMAGE, default=15m"`           // Wait for a created image to become available
	SSHDial         time.Duration `env:"APPBOOT_SSH_DIAL_TIMEOUT, default=10s"`        // TCP dial timeout for one SSH attempt
	SSHRetries      int           `env:"APPBOOT_SSH_RETRIES, default=30"`              // SSH connection attempts before giving up
	SSHRetryDelay   time.Duration `env:"APPBOOT_SSH_RETRY_DELAY, default=2s"`          // Initial delay between SSH attempts
	Shutdown        time.Duration `env:"APPBOOT_TIMEOUT_SHUTDOWN, default=10s"`        // Graceful HTTP server shutdown
}

// LoadTimeouts loads timeout configuration from environment variables.
// Unset or empty variables keep their defaults; malformed or non-positive
// values are an error.
//
// Environment Variables:
//   - APPBOOT_TIMEOUT_INSTANCE_RUNNING (default: 5m)
//   - APPBOOT_TIMEOUT_IMAGE (default: 15m)
//   - APPBOOT_SSH_DIAL_TIMEOUT (default: 10s)
//   - APPBOOT_SSH_RETRIES (default: 30)
//   - APPBOOT_SSH_RETRY_DELAY (default: 2s)
//   - APPBOOT_TIMEOUT_SHUTDOWN (default: 10s)
func LoadTimeouts(ctx context.Context) (*Timeouts, error) {
	return LoadTimeoutsFrom(ctx, envconfig.OsLookuper())
}

// LoadTimeoutsFrom loads timeouts from the given lookuper.
func LoadTimeoutsFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Timeouts, error) {
	var t Timeouts
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &t,
		Lookuper: nonEmpty(lookuper),
	}); err != nil {
		return nil, fmt.Errorf("failed to load timeouts: %w", err)
	}

	for name, d := range map[string]time.Duration{
		"APPBOOT_TIMEOUT_INSTANCE_RUNNING": t.InstanceRunning,
		"APPBOOT_TIMEOUT_IMAGE":            t.ImageAvailable,
		"APPBOOT_SSH_DIAL_TIMEOUT":         t.SSHDial,
		"APPBOOT_SSH_RETRY_DELAY":          t.SSHRetryDelay,
		"APPBOOT_TIMEOUT_SHUTDOWN":         t.Shutdown,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if t.SSHRetries < 1 {
		return nil, fmt.Errorf("APPBOOT_SSH_RETRIES must be at least 1, got %d", t.SSHRetries)
	}
	return &t, nil
}

// DefaultTimeouts returns the timeouts used when no variable is set.
func DefaultTimeouts() *Timeouts {
	t, err := LoadTimeoutsFrom(context.Background(), envconfig.MapLookuper(nil))
	if err != nil {
		// Only reachable with malformed default tags.
		panic(err)
	}
	return t
}
