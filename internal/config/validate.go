package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidPlan is wrapped by every validation error.
var ErrInvalidPlan = errors.New("invalid plan")

var (
	namePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	hostPattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9.-]*[A-Za-z0-9])?$`)
)

// Validate checks the plan for errors and returns the first one found.
func (p *Plan) Validate() error {
	if !namePattern.MatchString(p.Name) {
		return invalid("name %q must be lowercase alphanumeric with dashes", p.Name)
	}
	if !ValidPackageManagers[p.PackageManager] {
		return invalid("unknown package_manager %q (want apt, yum or dnf)", p.PackageManager)
	}
	if strings.TrimSpace(p.Repository.URL) == "" {
		return invalid("repository.url is required")
	}

	if err := p.validateDeployPath(); err != nil {
		return err
	}

	if len(p.Install) == 0 || p.Install[0] == "" {
		return invalid("install command is empty")
	}
	if len(p.Entrypoint) == 0 || p.Entrypoint[0] == "" {
		return invalid("entrypoint command is empty")
	}

	if p.Listen.IP != "" && net.ParseIP(p.Listen.IP) == nil && !hostPattern.MatchString(p.Listen.IP) {
		return invalid("listen.ip %q is not an IP address or host name", p.Listen.IP)
	}
	if p.Listen.Port < 0 || p.Listen.Port > 65535 {
		return invalid("listen.port %d out of range", p.Listen.Port)
	}

	known := make(map[string]bool)
	for _, name := range StepNames() {
		known[name] = true
	}
	for _, name := range p.ContinueOnError {
		if !known[name] {
			return invalid("continue_on_error: unknown step %q", name)
		}
	}

	return p.Infrastructure.validate()
}

func (p *Plan) validateDeployPath() error {
	if !filepath.IsAbs(p.DeployPath) {
		return invalid("deploy_path %q must be absolute", p.DeployPath)
	}
	// The path is removed recursively before every clone.
	if filepath.Clean(p.DeployPath) == string(filepath.Separator) {
		return invalid("deploy_path must not be the filesystem root")
	}
	return nil
}

func (c *InfraConfig) validate() error {
	_, network, err := net.ParseCIDR(c.CIDR)
	if err != nil {
		return invalid("infrastructure.cidr: %v", err)
	}
	if ones, _ := network.Mask.Size(); ones > 20 {
		return invalid("infrastructure.cidr %s is too small for /24 subnets", c.CIDR)
	}
	if c.Zones < 1 || c.Zones > 6 {
		return invalid("infrastructure.zones must be between 1 and 6, got %d", c.Zones)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPlan, fmt.Sprintf(format, args...))
}
