package config

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/sethvargo/go-envconfig"
)

// Listen is the network address an application server binds to.
type Listen struct {
	IP   string `env:"IP, default=localhost"`
	Port int    `env:"PORT, default=8000"`
}

// Addr returns the host:port form of the listen address.
func (l Listen) Addr() string {
	return net.JoinHostPort(l.IP, strconv.Itoa(l.Port))
}

// Env returns the address as IP and PORT environment assignments.
func (l Listen) Env() []string {
	return []string{
		"IP=" + l.IP,
		"PORT=" + strconv.Itoa(l.Port),
	}
}

// LoadListen resolves the listen address from the process environment,
// falling back to localhost:8000.
func LoadListen(ctx context.Context) (Listen, error) {
	return LoadListenFrom(ctx, envconfig.OsLookuper())
}

// LoadListenFrom resolves the listen address from the given lookuper.
// Empty values count as unset.
func LoadListenFrom(ctx context.Context, lookuper envconfig.Lookuper) (Listen, error) {
	var l Listen
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &l,
		Lookuper: nonEmpty(lookuper),
	}); err != nil {
		return Listen{}, fmt.Errorf("failed to load listen address: %w", err)
	}
	if l.Port < 1 || l.Port > 65535 {
		return Listen{}, fmt.Errorf("PORT %d out of range 1-65535", l.Port)
	}
	return l, nil
}

// ResolveListen layers the environment over the plan's listen settings:
// an IP or PORT variable wins, then the plan value, then the default.
func ResolveListen(ctx context.Context, env envconfig.Lookuper, plan ListenConfig) (Listen, error) {
	fromPlan := make(map[string]string)
	if plan.IP != "" {
		fromPlan["IP"] = plan.IP
	}
	if plan.Port != 0 {
		fromPlan["PORT"] = strconv.Itoa(plan.Port)
	}
	return LoadListenFrom(ctx, envconfig.MultiLookuper(nonEmpty(env), envconfig.MapLookuper(fromPlan)))
}
