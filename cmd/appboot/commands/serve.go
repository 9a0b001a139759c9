package commands

import (
	"github.com/spf13/cobra"

	"github.com/acs-assignment/appboot/cmd/appboot/handlers"
)

// Serve returns the command that runs the placeholder application.
//
// Environment variables:
//
//	IP: Listen address (default localhost)
//	PORT: Listen port (default 8000)
func Serve() *cobra.Command {
	var opts handlers.ServeOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the placeholder web application",
		Long: `Run the placeholder web application.

Routes:
  GET /index        Example Page
  GET /monitoring   Monitoring

Anything else answers 404. The listen address comes from IP and PORT
(default localhost:8000). With --metrics-addr, request metrics are served
at /metrics on that separate address.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100)")

	return cmd
}
