package provisioning

import (
	"github.com/acs-assignment/appboot/internal/util/naming"
)

// NetworkPhase creates the VPC and a public and a private /24 subnet in
// each of the first Zones availability zones.
type NetworkPhase struct{}

// Name implements the Phase interface.
func (p *NetworkPhase) Name() string { return "network" }

// Provision implements the Phase interface.
func (p *NetworkPhase) Provision(ctx *Context) error {
	infra := ctx.Plan.Infrastructure
	public, private, err := infra.SubnetCIDRs()
	if err != nil {
		return err
	}

	vpcName := naming.VPC(ctx.Plan.Name)
	LogResourceCreating(ctx.Observer, p.Name(), "vpc", vpcName)
	vpcID, err := ctx.Cloud.CreateVPC(ctx, vpcName, infra.CIDR)
	if err != nil {
		LogResourceFailed(ctx.Observer, p.Name(), "vpc", vpcName, err)
		return err
	}
	ctx.State.VPCID = vpcID
	LogResourceCreated(ctx.Observer, p.Name(), "vpc", vpcName, vpcID)

	zones, err := ctx.Cloud.AvailabilityZones(ctx, infra.Zones)
	if err != nil {
		return err
	}
	ctx.State.Zones = zones

	total := 2 * len(zones)
	for i, zone := range zones {
		id, err := p.subnet(ctx, vpcID, naming.PublicSubnet(ctx.Plan.Name, i+1), public[i], zone)
		if err != nil {
			return err
		}
		ctx.State.PublicSubnetIDs = append(ctx.State.PublicSubnetIDs, id)
		ctx.Observer.Progress(p.Name(), 2*i+1, total)

		id, err = p.subnet(ctx, vpcID, naming.PrivateSubnet(ctx.Plan.Name, i+1), private[i], zone)
		if err != nil {
			return err
		}
		ctx.State.PrivateSubnetIDs = append(ctx.State.PrivateSubnetIDs, id)
		ctx.Observer.Progress(p.Name(), 2*i+2, total)
	}
	return nil
}

func (p *NetworkPhase) subnet(ctx *Context, vpcID, name, cidr, zone string) (string, error) {
	LogResourceCreating(ctx.Observer, p.Name(), "subnet", name)
	id, err := ctx.Cloud.CreateSubnet(ctx, vpcID, name, cidr, zone)
	if err != nil {
		LogResourceFailed(ctx.Observer, p.Name(), "subnet", name, err)
		return "", err
	}
	LogResourceCreated(ctx.Observer, p.Name(), "subnet", name, id)
	return id, nil
}
