// Package logging builds the logr.Logger used across appboot.
//
// Output is human-readable when the destination is a terminal and one JSON
// object per line otherwise, so bootstrap runs captured by cloud-init or
// systemd stay machine-parseable.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"
)

// Format selects the log line encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures a logger.
type Options struct {
	Format    Format
	Verbosity int
	// Timestamps adds a "ts" field to every line.
	Timestamps bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) logr.Logger {
	format := opts.Format
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if f, ok := w.(*os.File); ok && IsTerminal(f) {
			format = FormatText
		}
	}

	fopts := funcr.Options{
		LogTimestamp: opts.Timestamps,
		Verbosity:    opts.Verbosity,
	}

	var mu sync.Mutex
	if format == FormatJSON {
		return funcr.NewJSON(func(obj string) {
			mu.Lock()
			defer mu.Unlock()
			_, _ = fmt.Fprintln(w, obj)
		}, fopts)
	}

	return funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, fopts)
}

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ParseFormat validates a --log-format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatText, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown log format %q (want auto, text or json)", s)
}
