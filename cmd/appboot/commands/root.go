// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/acs-assignment/appboot/internal/logging"
)

// Root returns the root command for the appboot CLI.
//
// The root command configures logging for every subcommand: the logger is
// stored in the command context and handlers read it from there.
func Root() *cobra.Command {
	var (
		verbosity int
		logFormat string
	)

	cmd := &cobra.Command{
		Use:           "appboot",
		Short:         "Bootstrap application hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			format, err := logging.ParseFormat(logFormat)
			if err != nil {
				return err
			}
			log := logging.New(os.Stderr, logging.Options{
				Format:     format,
				Verbosity:  verbosity,
				Timestamps: format == logging.FormatJSON || !logging.IsTerminal(os.Stderr),
			})
			cmd.SetContext(logr.NewContext(cmd.Context(), log))
			return nil
		},
	}

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto", "Log format: auto, text or json")

	// Host commands
	cmd.AddCommand(Run())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Serve())

	// Plan and image commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Render())
	cmd.AddCommand(Provision())

	cmd.AddCommand(Version())

	return cmd
}
