package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CloneOptions describes one clone.
type CloneOptions struct {
	URL  string
	Ref  string
	Path string
}

// Cloner retrieves a repository into a local path that does not exist yet.
type Cloner interface {
	Clone(ctx context.Context, opts CloneOptions) error
}

// GitCloner clones with go-git, so the host needs no git binary for the
// clone itself.
type GitCloner struct {
	// Progress receives the remote's sideband output. May be nil.
	Progress io.Writer
	// Depth limits history. Zero clones everything.
	Depth int
}

// Clone implements Cloner.
func (g *GitCloner) Clone(ctx context.Context, opts CloneOptions) error {
	co := &git.CloneOptions{
		URL:      opts.URL,
		Progress: g.Progress,
		Depth:    g.Depth,
	}
	if opts.Ref != "" {
		co.ReferenceName = plumbing.NewBranchReferenceName(opts.Ref)
		co.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, opts.Path, false, co); err != nil {
		return fmt.Errorf("failed to clone %s: %w", opts.URL, err)
	}
	return nil
}
