package commands

import (
	"github.com/spf13/cobra"

	"github.com/acs-assignment/appboot/cmd/appboot/handlers"
	"github.com/acs-assignment/appboot/internal/deploy"
)

// Deploy returns the command that copies the application to a remote host
// and starts it there.
//
// Arguments:
//
//	KEY_FILE: Private key for the remote user; tightened to 0600 first
//	HOST: Remote host name or address
func Deploy() *cobra.Command {
	var opts deploy.Options

	cmd := &cobra.Command{
		Use:   "deploy KEY_FILE HOST",
		Short: "Copy the application to a host and start it",
		Long: `Copy the application to a remote host over SSH and start it.

The private key's permissions are set to 0600 before any connection is
made. The source directory is copied in the background, replacing the
remote directory, and the start command runs once the copy has finished.
Its output is streamed until it exits or appboot is interrupted.

Examples:
  appboot deploy acs-assignment-key.pem 203.0.113.7

  appboot deploy key.pem web-1 --source ./dist --remote-dir site \
    --command "cd site && npm ci && npm start"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.KeyPath = args[0]
			opts.Host = args[1]
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.User, "user", "u", deploy.DefaultUser, "Remote user")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 22, "SSH port")
	cmd.Flags().StringVar(&opts.Source, "source", deploy.DefaultSource, "Local directory to copy")
	cmd.Flags().StringVar(&opts.RemoteDir, "remote-dir", deploy.DefaultRemoteDir, "Remote directory, replaced on every deploy")
	cmd.Flags().StringVar(&opts.Command, "command", "", "Command that starts the application remotely (default: cd <remote-dir> && "+deploy.DefaultStart+")")

	return cmd
}
