package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-envconfig"

	"github.com/acs-assignment/appboot/internal/bootstrap"
	"github.com/acs-assignment/appboot/internal/config"
	"github.com/acs-assignment/appboot/internal/platform/s3"
	"github.com/acs-assignment/appboot/internal/util/prerequisites"
)

// publishTimeout bounds metric pushes and report uploads after a run.
const publishTimeout = 30 * time.Second

// RunOptions holds the flags of the run command.
type RunOptions struct {
	ConfigPath      string
	Pushgateway     string
	ReportBucket    string
	ReportEndpoint  string
	ReportRegion    string
	ReportPathStyle bool
}

type reportStore interface {
	UploadReport(ctx context.Context, bucket, plan, runID string, report any) (string, error)
}

// Factory function variables for run - can be replaced in tests.
var (
	envLookuper envconfig.Lookuper = envconfig.OsLookuper()

	newExecutor = func(stopGrace time.Duration) bootstrap.Executor {
		return &bootstrap.ExecExecutor{
			Stdout:    os.Stdout,
			Stderr:    os.Stderr,
			StopGrace: stopGrace,
		}
	}

	newCloner = func() bootstrap.Cloner {
		return &bootstrap.GitCloner{Progress: os.Stderr}
	}

	newReportStore = func(ctx context.Context, opts s3.Options) (reportStore, error) {
		return s3.NewClient(ctx, opts)
	}

	pushMetrics = bootstrap.PushMetrics

	checkTools = prerequisites.Check
)

// Run bootstraps the local host from the plan. The run report is printed,
// and optionally pushed and uploaded, even when a step fails.
func Run(ctx context.Context, opts RunOptions) error {
	log := logr.FromContextOrDiscard(ctx)

	plan, err := loadPlan(opts.ConfigPath)
	if err != nil {
		return err
	}

	tools := checkTools(prerequisites.ForPlan(plan))
	for _, missing := range tools.Missing {
		if !missing.Required {
			log.V(1).Info("tool not found yet", "tool", missing.Name)
		}
	}
	if err := tools.Error(); err != nil {
		return err
	}

	listen, err := config.ResolveListen(ctx, envLookuper, plan.Listen)
	if err != nil {
		return fmt.Errorf("failed to resolve listen address: %w", err)
	}

	timeouts, err := loadTimeouts(ctx)
	if err != nil {
		return err
	}

	steps, err := bootstrap.BuildSteps(plan, listen, newCloner())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	runner := bootstrap.NewRunner(newExecutor(timeouts.Shutdown), steps,
		bootstrap.WithLogger(log.WithName("bootstrap")),
		bootstrap.WithMetrics(bootstrap.NewMetrics(reg)),
		bootstrap.WithContinueOnError(plan.ContinueOnError...),
		bootstrap.WithPlanName(plan.Name),
	)

	log.Info("starting bootstrap", "plan", plan.Name, "listen", listen.Addr())
	report, runErr := runner.Run(ctx)
	if report == nil {
		return runErr
	}

	printer().RunReport(report)

	// Interrupted runs still publish what they recorded.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	publish(pubCtx, log, opts, plan, report, reg)

	return runErr
}

func publish(ctx context.Context, log logr.Logger, opts RunOptions, plan *config.Plan, report *bootstrap.Report, g prometheus.Gatherer) {
	if opts.Pushgateway != "" {
		if err := pushMetrics(ctx, opts.Pushgateway, report.ID, g); err != nil {
			log.Error(err, "failed to push metrics", "url", opts.Pushgateway)
		} else {
			log.V(1).Info("metrics pushed", "url", opts.Pushgateway)
		}
	}

	if opts.ReportBucket == "" {
		return
	}

	region := opts.ReportRegion
	if region == "" {
		region = plan.Infrastructure.Region
	}
	store, err := newReportStore(ctx, s3.Options{
		Region:    region,
		Endpoint:  opts.ReportEndpoint,
		PathStyle: opts.ReportPathStyle,
	})
	if err != nil {
		log.Error(err, "failed to create report store")
		return
	}

	key, err := store.UploadReport(ctx, opts.ReportBucket, plan.Name, report.ID, report)
	if err != nil {
		log.Error(err, "failed to upload report", "bucket", opts.ReportBucket)
		return
	}
	log.Info("report uploaded", "bucket", opts.ReportBucket, "key", key)
}
