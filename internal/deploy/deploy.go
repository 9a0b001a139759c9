package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/acs-assignment/appboot/internal/platform/ssh"
	"github.com/acs-assignment/appboot/internal/util/keygen"
	"github.com/acs-assignment/appboot/internal/util/shell"
)

const (
	DefaultUser      = "ubuntu"
	DefaultSource    = "."
	DefaultRemoteDir = "app"

	// DefaultStart runs inside the remote directory when no command is given.
	DefaultStart = "npm install && IP=0.0.0.0 PORT=8000 npm start"

	// platformProbe identifies the remote OS and architecture.
	platformProbe = "uname -sm"
)

// DefaultCommand returns the start command used when none is given: it
// changes into remoteDir and runs DefaultStart.
func DefaultCommand(remoteDir string) string {
	return "cd " + shell.Quote(remoteDir) + " && " + DefaultStart
}

// Remote is the subset of an SSH connection a deployment needs.
type Remote interface {
	Execute(ctx context.Context, command string) (string, error)
	UploadDir(ctx context.Context, localDir, remoteDir string) (int, error)
	Stream(ctx context.Context, command string, stdout, stderr io.Writer) error
	Close() error
}

// Dialer opens a Remote for the given options and key material.
type Dialer func(opts Options, privateKey []byte) (Remote, error)

// Options describes one deployment.
type Options struct {
	KeyPath   string
	Host      string
	Port      int
	User      string
	Source    string
	RemoteDir string
	Command   string

	DialTimeout time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

// ApplyDefaults fills unset fields.
func (o *Options) ApplyDefaults() {
	if o.User == "" {
		o.User = DefaultUser
	}
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if o.RemoteDir == "" {
		o.RemoteDir = DefaultRemoteDir
	}
	if o.Command == "" {
		o.Command = DefaultCommand(o.RemoteDir)
	}
}

func (o *Options) validate() error {
	if o.KeyPath == "" {
		return errors.New("private key path is required")
	}
	if o.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// Result summarizes a finished deployment.
type Result struct {
	// Platform is the remote "uname -sm" output, empty if the probe failed.
	Platform string
	Files    int
	Copy     time.Duration
	Duration time.Duration
}

// Deployer runs deployments.
type Deployer struct {
	Dial   Dialer
	Stdout io.Writer
	Stderr io.Writer
	Log    logr.Logger
}

// New returns a Deployer that connects with the ssh package.
func New(log logr.Logger, stdout, stderr io.Writer) *Deployer {
	return &Deployer{
		Dial: func(opts Options, key []byte) (Remote, error) {
			return ssh.NewClient(&ssh.Config{
				Host:        opts.Host,
				Port:        opts.Port,
				User:        opts.User,
				PrivateKey:  key,
				DialTimeout: opts.DialTimeout,
				MaxRetries:  opts.MaxRetries,
				RetryDelay:  opts.RetryDelay,
				Log:         log.WithName("ssh"),
			})
		},
		Stdout: stdout,
		Stderr: stderr,
		Log:    log,
	}
}

// TightenKeyPermissions sets the private key to mode 0600 and verifies it.
func TightenKeyPermissions(path string) error {
	if err := keygen.RestrictPermissions(path); err != nil {
		return fmt.Errorf("failed to tighten key permissions: %w", err)
	}
	return nil
}

// Deploy copies opts.Source to the host and runs opts.Command there. It
// blocks for as long as the remote command runs.
func (d *Deployer) Deploy(ctx context.Context, opts Options) (*Result, error) {
	opts.ApplyDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	log := d.logger().WithValues("host", opts.Host)
	start := time.Now()

	if err := TightenKeyPermissions(opts.KeyPath); err != nil {
		return nil, err
	}
	// #nosec G304
	key, err := os.ReadFile(opts.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	remote, err := d.Dial(opts, key)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.Host, err)
	}
	defer func() { _ = remote.Close() }()

	result := &Result{}

	// The platform probe runs alongside the copy on its own session.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := remote.Execute(gctx, platformProbe)
		if err != nil {
			log.V(1).Info("platform probe failed", "error", err.Error())
			return nil
		}
		result.Platform = strings.TrimSpace(out)
		return nil
	})
	g.Go(func() error {
		log.Info("copying application", "source", opts.Source, "remote_dir", opts.RemoteDir)
		copyStart := time.Now()
		n, err := remote.UploadDir(gctx, opts.Source, opts.RemoteDir)
		if err != nil {
			return err
		}
		result.Files = n
		result.Copy = time.Since(copyStart)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("copy failed: %w", err)
	}
	log.Info("copy finished", "files", result.Files, "duration", result.Copy.String(), "platform", result.Platform)

	log.Info("starting application", "command", opts.Command)
	if err := remote.Stream(ctx, opts.Command, d.out(d.Stdout), d.out(d.Stderr)); err != nil {
		return nil, fmt.Errorf("remote command failed: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (d *Deployer) logger() logr.Logger {
	if d.Log.GetSink() == nil {
		return logr.Discard()
	}
	return d.Log
}

func (d *Deployer) out(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
