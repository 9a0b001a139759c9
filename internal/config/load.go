package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads, defaults and validates a plan from a YAML file.
func LoadFile(path string) (*Plan, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	plan, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// Parse decodes a plan from YAML, applies defaults and validates it.
// Unknown keys are rejected so typos surface instead of silently
// falling back to defaults.
func Parse(data []byte) (*Plan, error) {
	var plan Plan

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	plan.ApplyDefaults()

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// Default returns a plan with every default applied and no repository.
// It does not validate.
func Default() *Plan {
	plan := &Plan{}
	plan.ApplyDefaults()
	return plan
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (p *Plan) ApplyDefaults() {
	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.PackageManager == "" {
		p.PackageManager = DefaultPackageManager
	}
	if len(p.Packages) == 0 {
		p.Packages = DefaultPackages()
	}
	if p.DeployPath == "" {
		p.DeployPath = DefaultDeployPath
	}
	if len(p.Install) == 0 {
		p.Install = []string{"npm", "install"}
	}
	if len(p.Entrypoint) == 0 {
		p.Entrypoint = []string{"npm", "start"}
	}

	infra := &p.Infrastructure
	if infra.Region == "" {
		infra.Region = DefaultRegion
	}
	if infra.CIDR == "" {
		infra.CIDR = DefaultCIDR
	}
	if infra.ImageID == "" {
		infra.ImageID = DefaultImageID
	}
	if infra.InstanceType == "" {
		infra.InstanceType = DefaultInstanceType
	}
	if infra.KeyDir == "" {
		infra.KeyDir = "."
	}
	if infra.Zones == 0 {
		infra.Zones = DefaultZones
	}
}
