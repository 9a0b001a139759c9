package handlers

import (
	"context"
	"os"

	"github.com/go-logr/logr"

	"github.com/acs-assignment/appboot/internal/deploy"
)

type deployer interface {
	Deploy(ctx context.Context, opts deploy.Options) (*deploy.Result, error)
}

// newDeployer creates the deployer. Replaced in tests.
var newDeployer = func(log logr.Logger) deployer {
	return deploy.New(log, os.Stdout, os.Stderr)
}

// Deploy copies the application to a remote host and runs it there.
func Deploy(ctx context.Context, opts deploy.Options) error {
	log := logr.FromContextOrDiscard(ctx).WithName("deploy")

	timeouts, err := loadTimeouts(ctx)
	if err != nil {
		return err
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = timeouts.SSHDial
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = timeouts.SSHRetries
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = timeouts.SSHRetryDelay
	}

	result, err := newDeployer(log).Deploy(ctx, opts)
	if err != nil {
		return err
	}

	printer().DeploySummary(opts.Host, result)
	return nil
}
