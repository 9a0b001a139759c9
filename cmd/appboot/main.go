// Package main is the entry point for the appboot CLI.
//
// appboot turns a bare virtual machine into a running application host.
// It can bootstrap the host it runs on, deploy to a remote host over SSH,
// build a machine image on EC2, and serve the placeholder application.
//
// Commands: run, deploy, serve, render, provision, init, version.
//
// For detailed usage information, run:
//
//	appboot --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/acs-assignment/appboot/cmd/appboot/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
