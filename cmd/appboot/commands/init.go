package commands

import (
	"github.com/spf13/cobra"

	"github.com/acs-assignment/appboot/cmd/appboot/handlers"
)

// Init returns the command for interactively creating a plan file.
//
// Flags:
//
//	--output, -o: Path to output file (default "appboot.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a plan file",
		Long: `Interactively create a plan file.

The wizard asks for the few values that have no sensible default:

  - Application name
  - Repository URL and branch
  - Package manager of the target host
  - Deploy path and entrypoint

Everything else is written with its default and can be edited later.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", handlers.DefaultPlanFile, "Output file path")

	return cmd
}
