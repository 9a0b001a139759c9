package provisioning

import (
	"context"

	"github.com/acs-assignment/appboot/internal/config"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Plan     *config.Plan
	RunID    string
	State    *State
	Cloud    Cloud
	Observer Observer
	Timeouts *config.Timeouts

	// UserData is the startup script the instance boots with.
	UserData string
	// KeepInstance leaves the image-build instance running.
	KeepInstance bool
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, plan *config.Plan, runID string, cloud Cloud, observer Observer) *Context {
	return &Context{
		Context:  ctx,
		Plan:     plan,
		RunID:    runID,
		State:    &State{},
		Cloud:    cloud,
		Observer: observer.WithFields(map[string]string{"run": runID}),
		Timeouts: config.DefaultTimeouts(),
	}
}
