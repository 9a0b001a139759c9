package handlers

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/acs-assignment/appboot/internal/bootstrap"
	"github.com/acs-assignment/appboot/internal/platform/ec2"
	"github.com/acs-assignment/appboot/internal/provisioning"
)

// ProvisionOptions holds the flags of the provision command.
type ProvisionOptions struct {
	ConfigPath   string
	DryRun       bool
	KeepInstance bool
}

// Factory function variables for provision - can be replaced in tests.
var (
	newRunID = uuid.NewString

	newCloud = func(ctx context.Context, region, runID string, dryRun bool) (provisioning.Cloud, error) {
		return ec2.NewFromRegion(ctx, region, runID, dryRun)
	}
)

// Provision creates the cloud resources for the plan and builds an image
// of an instance bootstrapped with the rendered startup script.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	log := logr.FromContextOrDiscard(ctx).WithName("provision")

	plan, err := loadPlan(opts.ConfigPath)
	if err != nil {
		return err
	}

	userData, err := bootstrap.RenderScript(plan)
	if err != nil {
		return err
	}

	timeouts, err := loadTimeouts(ctx)
	if err != nil {
		return err
	}

	runID := newRunID()
	cloud, err := newCloud(ctx, plan.Infrastructure.Region, runID, opts.DryRun)
	if err != nil {
		return err
	}

	pctx := provisioning.NewContext(ctx, plan, runID, cloud, provisioning.NewLogrObserver(log))
	pctx.Timeouts = timeouts
	pctx.UserData = userData
	pctx.KeepInstance = opts.KeepInstance

	log.Info("provisioning", "plan", plan.Name, "region", plan.Infrastructure.Region, "run", runID, "dryRun", opts.DryRun)
	err = provisioning.NewPipeline(provisioning.DefaultPhases()...).Run(pctx)

	// Resources created before a failure are still listed.
	printer().ProvisionSummary(pctx.State, opts.DryRun)
	return err
}
