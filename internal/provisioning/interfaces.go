package provisioning

import (
	"context"
	"time"

	"github.com/acs-assignment/appboot/internal/platform/ec2"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Cloud creates the resources the phases need.
// Implemented by internal/platform/ec2.Client.
type Cloud interface {
	DryRun() bool
	CreateKeyPair(ctx context.Context, name string) (*ec2.KeyPair, error)
	CreateVPC(ctx context.Context, name, cidr string) (string, error)
	AvailabilityZones(ctx context.Context, n int) ([]string, error)
	CreateSubnet(ctx context.Context, vpcID, name, cidr, zone string) (string, error)
	CreateSecurityGroup(ctx context.Context, vpcID, name, description string) (string, error)
	AuthorizeIngress(ctx context.Context, groupID string, rules []ec2.IngressRule) error
	RunInstance(ctx context.Context, spec ec2.InstanceSpec) (string, error)
	WaitInstanceRunning(ctx context.Context, instanceID string, timeout time.Duration) error
	CreateImage(ctx context.Context, instanceID, name string) (string, error)
	WaitImageAvailable(ctx context.Context, imageID string, timeout time.Duration) error
	TerminateInstance(ctx context.Context, instanceID string) error
}
