package provisioning

import (
	"errors"

	"github.com/acs-assignment/appboot/internal/platform/ec2"
	"github.com/acs-assignment/appboot/internal/util/naming"
)

// InstancePhase launches the image-build instance in the first public
// subnet with the bootstrap script as user data and waits for it to run.
type InstancePhase struct{}

// Name implements the Phase interface.
func (p *InstancePhase) Name() string { return "instance" }

// Provision implements the Phase interface.
func (p *InstancePhase) Provision(ctx *Context) error {
	if len(ctx.State.PublicSubnetIDs) == 0 {
		return errors.New("no public subnet to launch into")
	}

	infra := ctx.Plan.Infrastructure
	name := naming.ImageInstance(ctx.Plan.Name)
	LogResourceCreating(ctx.Observer, p.Name(), "instance", name)

	id, err := ctx.Cloud.RunInstance(ctx, ec2.InstanceSpec{
		Name:            name,
		ImageID:         infra.ImageID,
		InstanceType:    infra.InstanceType,
		KeyName:         ctx.State.KeyPairName,
		SubnetID:        ctx.State.PublicSubnetIDs[0],
		SecurityGroupID: ctx.State.SecurityGroupID,
		UserData:        ctx.UserData,
	})
	if err != nil {
		LogResourceFailed(ctx.Observer, p.Name(), "instance", name, err)
		return err
	}
	ctx.State.InstanceID = id

	ctx.Observer.Printf("Waiting for instance %s to run (timeout %v)...", id, ctx.Timeouts.InstanceRunning)
	if err := ctx.Cloud.WaitInstanceRunning(ctx, id, ctx.Timeouts.InstanceRunning); err != nil {
		return err
	}
	LogResourceCreated(ctx.Observer, p.Name(), "instance", name, id)
	return nil
}

// ImagePhase creates a machine image from the instance, waits for it to
// become available and terminates the instance unless KeepInstance is set.
type ImagePhase struct{}

// Name implements the Phase interface.
func (p *ImagePhase) Name() string { return "image" }

// Provision implements the Phase interface.
func (p *ImagePhase) Provision(ctx *Context) error {
	if ctx.State.InstanceID == "" {
		return errors.New("no instance to image")
	}

	name := naming.Image(ctx.Plan.Name, ctx.RunID)
	LogResourceCreating(ctx.Observer, p.Name(), "image", name)

	id, err := ctx.Cloud.CreateImage(ctx, ctx.State.InstanceID, name)
	if err != nil {
		LogResourceFailed(ctx.Observer, p.Name(), "image", name, err)
		return err
	}
	ctx.State.ImageID = id

	ctx.Observer.Printf("Waiting for image %s to become available (timeout %v)...", id, ctx.Timeouts.ImageAvailable)
	if err := ctx.Cloud.WaitImageAvailable(ctx, id, ctx.Timeouts.ImageAvailable); err != nil {
		return err
	}
	LogResourceCreated(ctx.Observer, p.Name(), "image", name, id)

	if ctx.KeepInstance {
		ctx.Observer.Printf("Keeping instance %s running", ctx.State.InstanceID)
		return nil
	}
	if err := ctx.Cloud.TerminateInstance(ctx, ctx.State.InstanceID); err != nil {
		return err
	}
	ctx.State.InstanceTerminated = true
	LogResourceDeleted(ctx.Observer, p.Name(), "instance", ctx.State.InstanceID)
	return nil
}
