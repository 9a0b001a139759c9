package commands

import (
	"github.com/spf13/cobra"

	"github.com/acs-assignment/appboot/cmd/appboot/handlers"
)

// Provision returns the command that builds an application image on EC2.
//
// Environment variables:
//
//	AWS_PROFILE, AWS_ACCESS_KEY_ID, ...: standard AWS credential chain
func Provision() *cobra.Command {
	var opts handlers.ProvisionOptions

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the cloud resources and build an application image",
		Long: `Create the cloud resources and build an application image on EC2.

Phases:
  validation       check the plan and the local key directory
  key pair         <name>-key, private key saved as <name>-key.pem (0600)
  network          VPC with a public and a private /24 subnet per zone
  security group   HTTP, HTTPS and SSH from anywhere
  instance         boots the rendered startup script as user data
  image            machine image of the instance, then terminates it

Every resource is tagged with the run's ID. With --dry-run EC2 only checks
permissions and nothing is created.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to plan file (default: appboot.yaml)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Only check permissions; create nothing")
	cmd.Flags().BoolVar(&opts.KeepInstance, "keep-instance", false, "Leave the image-build instance running")

	return cmd
}
