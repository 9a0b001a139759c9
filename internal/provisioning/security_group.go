package provisioning

import (
	"fmt"

	"github.com/acs-assignment/appboot/internal/platform/ec2"
	"github.com/acs-assignment/appboot/internal/util/naming"
)

// IngressRules are the ports opened to the world: the web server and SSH
// for configuring the instances.
var IngressRules = []ec2.IngressRule{
	{Port: 80, CIDR: "0.0.0.0/0", Description: "Allow HTTP access."},
	{Port: 443, CIDR: "0.0.0.0/0", Description: "Allow HTTPS access."},
	{Port: 22, CIDR: "0.0.0.0/0", Description: "Allow SSH access for configuration of the EC2 instances."},
}

// SecurityGroupPhase creates the application's security group.
type SecurityGroupPhase struct{}

// Name implements the Phase interface.
func (p *SecurityGroupPhase) Name() string { return "security group" }

// Provision implements the Phase interface.
func (p *SecurityGroupPhase) Provision(ctx *Context) error {
	name := naming.SecurityGroup(ctx.Plan.Name)
	LogResourceCreating(ctx.Observer, p.Name(), "security group", name)

	id, err := ctx.Cloud.CreateSecurityGroup(ctx, ctx.State.VPCID, name,
		fmt.Sprintf("A security group for the %s app.", ctx.Plan.Name))
	if err != nil {
		LogResourceFailed(ctx.Observer, p.Name(), "security group", name, err)
		return err
	}
	ctx.State.SecurityGroupID = id

	if err := ctx.Cloud.AuthorizeIngress(ctx, id, IngressRules); err != nil {
		LogResourceFailed(ctx.Observer, p.Name(), "security group", name, err)
		return err
	}
	LogResourceCreated(ctx.Observer, p.Name(), "security group", name, id)
	return nil
}
