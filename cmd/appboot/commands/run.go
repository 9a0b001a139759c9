package commands

import (
	"github.com/spf13/cobra"

	"github.com/acs-assignment/appboot/cmd/appboot/handlers"
)

// Run returns the command that bootstraps the host it runs on.
//
// Optional flags:
//
//	--config, -c: Path to the plan file (default: appboot.yaml)
//	--pushgateway: Prometheus Pushgateway URL for step metrics
//	--report-bucket: S3 bucket for the JSON run report
//	--report-endpoint: S3-compatible endpoint URL
//	--report-region: Region of the report bucket
//	--report-path-style: Use path-style bucket addressing
//
// Environment variables:
//
//	IP, PORT: Listen address handed to the application (default localhost:8000)
func Run() *cobra.Command {
	var opts handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bootstrap this host and start the application",
		Long: `Bootstrap this host and start the application.

The steps run strictly in order and the run stops at the first failure,
unless the plan lists that step under continue_on_error:

  1. refresh-package-index    refresh the OS package index
  2. install-packages         install git and Node.js
  3. clone-repository         replace the deploy path with a fresh clone
  4. install-dependencies     npm install in the deploy path
  5. launch-application       run the entrypoint in the foreground

The application receives IP and PORT. Environment values win over the
plan's listen section, which wins over localhost:8000.

Examples:
  # Bootstrap using appboot.yaml in the current directory
  sudo appboot run

  # Listen on all interfaces and publish the run report
  IP=0.0.0.0 appboot run -c web.yaml --report-bucket my-reports`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to plan file (default: appboot.yaml)")
	cmd.Flags().StringVar(&opts.Pushgateway, "pushgateway", "", "Push step metrics to this Pushgateway URL")
	cmd.Flags().StringVar(&opts.ReportBucket, "report-bucket", "", "Upload the run report to this S3 bucket")
	cmd.Flags().StringVar(&opts.ReportEndpoint, "report-endpoint", "", "S3-compatible endpoint for the report bucket")
	cmd.Flags().StringVar(&opts.ReportRegion, "report-region", "", "Region of the report bucket (default: plan region)")
	cmd.Flags().BoolVar(&opts.ReportPathStyle, "report-path-style", false, "Use path-style addressing for the report bucket")

	return cmd
}
