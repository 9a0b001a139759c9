package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadTimeoutsFrom_Defaults(t *testing.T) {
	t.Parallel()

	timeouts, err := LoadTimeoutsFrom(context.Background(), envconfig.MapLookuper(nil))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if timeouts.InstanceRunning != 5*time.Minute {
		t.Errorf("Expected InstanceRunning default 5m, got %v", timeouts.InstanceRunning)
	}
	if timeouts.ImageAvailable != 15*time.Minute {
		t.Errorf("Expected ImageAvailable default 15m, got %v", timeouts.ImageAvailable)
	}
	if timeouts.SSHDial != 10*time.Second {
		t.Errorf("Expected SSHDial default 10s, got %v", timeouts.SSHDial)
	}
	if timeouts.SSHRetries != 30 {
		t.Errorf("Expected SSHRetries default 30, got %d", timeouts.SSHRetries)
	}
	if timeouts.SSHRetryDelay != 2*time.Second {
		t.Errorf("Expected SSHRetryDelay default 2s, got %v", timeouts.SSHRetryDelay)
	}
	if timeouts.Shutdown != 10*time.Second {
		t.Errorf("Expected Shutdown default 10s, got %v", timeouts.Shutdown)
	}

	if *DefaultTimeouts() != *timeouts {
		t.Errorf("Expected DefaultTimeouts to match an empty environment")
	}
}

func TestLoadTimeoutsFrom_Overrides(t *testing.T) {
	t.Parallel()

	timeouts, err := LoadTimeoutsFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"APPBOOT_TIMEOUT_INSTANCE_RUNNING": "90s",
		"APPBOOT_SSH_RETRIES":              "3",
		"APPBOOT_TIMEOUT_SHUTDOWN":         "",
	}))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if timeouts.InstanceRunning != 90*time.Second {
		t.Errorf("Expected InstanceRunning 90s, got %v", timeouts.InstanceRunning)
	}
	if timeouts.SSHRetries != 3 {
		t.Errorf("Expected SSHRetries 3, got %d", timeouts.SSHRetries)
	}
	if timeouts.Shutdown != 10*time.Second {
		t.Errorf("Expected empty Shutdown to keep 10s, got %v", timeouts.Shutdown)
	}
}

func TestLoadTimeoutsFrom_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]map[string]string{
		"malformed duration": {"APPBOOT_SSH_RETRY_DELAY": "bogus"},
		"negative duration":  {"APPBOOT_TIMEOUT_SHUTDOWN": "-5s"},
		"zero duration":      {"APPBOOT_TIMEOUT_IMAGE": "0s"},
		"malformed retries":  {"APPBOOT_SSH_RETRIES": "many"},
		"zero retries":       {"APPBOOT_SSH_RETRIES": "0"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := LoadTimeoutsFrom(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Errorf("expected error for %v", env)
			}
		})
	}
}
