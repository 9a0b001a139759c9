package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/acs-assignment/appboot/internal/config"
)

// CommandStep runs a group of commands in order.
type CommandStep struct {
	StepName string
	Commands []Command
}

// Name implements Step.
func (s *CommandStep) Name() string { return s.StepName }

// Run implements Step.
func (s *CommandStep) Run(ctx context.Context, sc *StepContext) error {
	for _, cmd := range s.Commands {
		sc.Log.V(1).Info("running command", "command", cmd.String(), "dir", cmd.Dir)
		if err := sc.Exec.Run(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// CloneStep replaces the deploy path with a fresh clone of the repository.
type CloneStep struct {
	URL    string
	Ref    string
	Path   string
	Cloner Cloner
}

// Name implements Step.
func (s *CloneStep) Name() string { return config.StepCloneRepository }

// Run implements Step.
func (s *CloneStep) Run(ctx context.Context, sc *StepContext) error {
	if s.Path == "" || filepath.Clean(s.Path) == string(filepath.Separator) {
		return fmt.Errorf("refusing to replace deploy path %q", s.Path)
	}

	sc.Log.Info("removing previous deployment", "path", s.Path)
	if err := os.RemoveAll(s.Path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", s.Path, err)
	}
	if _, err := os.Lstat(s.Path); !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deploy path %s still present after removal", s.Path)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", s.Path, err)
	}

	sc.Log.Info("cloning repository", "url", s.URL, "ref", s.Ref, "path", s.Path)
	return s.Cloner.Clone(ctx, CloneOptions{URL: s.URL, Ref: s.Ref, Path: s.Path})
}

// LaunchStep runs the application entry point in the foreground. It
// returns when the process exits.
type LaunchStep struct {
	Dir     string
	Command []string
	Listen  config.Listen
}

// Name implements Step.
func (s *LaunchStep) Name() string { return config.StepLaunchApplication }

// Run implements Step.
func (s *LaunchStep) Run(ctx context.Context, sc *StepContext) error {
	if len(s.Command) == 0 {
		return errors.New("entrypoint command is empty")
	}
	cmd := Command{
		Name: s.Command[0],
		Args: s.Command[1:],
		Dir:  s.Dir,
		Env:  s.Listen.Env(),
	}
	sc.Log.Info("launching application", "command", cmd.String(), "addr", s.Listen.Addr())
	return sc.Exec.Run(ctx, cmd)
}
