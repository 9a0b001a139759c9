package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// Step is a single provisioning step. Steps have no identity beyond their
// name and their position in the plan.
type Step interface {
	// Name returns the stable step name used in logs, metrics and reports.
	Name() string

	// Run executes the step and blocks until it has finished.
	Run(ctx context.Context, sc *StepContext) error
}

// StepContext carries what a step needs from the runner.
type StepContext struct {
	Exec Executor
	Log  logr.Logger
}

// Command is a process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the runner's directory.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Executor runs commands to completion.
type Executor interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecExecutor runs commands as host processes.
type ExecExecutor struct {
	Stdout io.Writer
	Stderr io.Writer

	// StopGrace is how long a process gets to exit after SIGINT when the
	// context is cancelled, before it is killed.
	StopGrace time.Duration
}

// Run implements Executor.
func (e *ExecExecutor) Run(ctx context.Context, cmd Command) error {
	// #nosec G204
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr
	c.Cancel = func() error {
		return c.Process.Signal(os.Interrupt)
	}
	c.WaitDelay = e.StopGrace
	if c.WaitDelay == 0 {
		c.WaitDelay = 10 * time.Second
	}

	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}
