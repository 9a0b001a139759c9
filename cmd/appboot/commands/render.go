package commands

import (
	"github.com/spf13/cobra"

	"github.com/acs-assignment/appboot/cmd/appboot/handlers"
)

// Render returns the command that prints the plan as a startup script.
func Render() *cobra.Command {
	var configPath, outputPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the plan as a bash startup script",
		Long: `Render the plan as a bash startup script, suitable for cloud-init or
EC2 user data. The script performs the same steps as 'appboot run'.

Examples:
  appboot render > startup.sh
  appboot render -c web.yaml -o startup.sh`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), configPath, outputPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to plan file (default: appboot.yaml)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the script to this file instead of stdout")

	return cmd
}
