package bootstrap

import (
	"context"
	"errors"
	"sync"
)

// fakeExecutor records commands and fails those whose name is in failOn.
type fakeExecutor struct {
	mu       sync.Mutex
	commands []Command
	failOn   map[string]error
	onRun    func(Command)
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{failOn: make(map[string]error)}
}

func (f *fakeExecutor) Run(_ context.Context, cmd Command) error {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	hook := f.onRun
	err := f.failOn[cmd.Name]
	f.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	return err
}

func (f *fakeExecutor) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	for i, c := range f.commands {
		out[i] = c.String()
	}
	return out
}

// stepFunc adapts a function to the Step interface.
type stepFunc struct {
	name string
	fn   func(context.Context, *StepContext) error
}

func (s stepFunc) Name() string { return s.name }
func (s stepFunc) Run(ctx context.Context, sc *StepContext) error {
	return s.fn(ctx, sc)
}

func okStep(name string, trace *[]string) Step {
	return stepFunc{name: name, fn: func(context.Context, *StepContext) error {
		*trace = append(*trace, name)
		return nil
	}}
}

func failStep(name string, trace *[]string) Step {
	return stepFunc{name: name, fn: func(context.Context, *StepContext) error {
		*trace = append(*trace, name)
		return errors.New(name + " exploded")
	}}
}

// recordingCloner checks preconditions at clone time and writes a file.
type recordingCloner struct {
	calls    []CloneOptions
	existed  bool
	err      error
	populate func(path string) error
}

func (c *recordingCloner) Clone(_ context.Context, opts CloneOptions) error {
	c.calls = append(c.calls, opts)
	if c.err != nil {
		return c.err
	}
	if c.populate != nil {
		return c.populate(opts.Path)
	}
	return nil
}
