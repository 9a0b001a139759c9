package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/acs-assignment/appboot/internal/config"
	"github.com/acs-assignment/appboot/internal/logging"
	"github.com/acs-assignment/appboot/internal/ui"
)

// DefaultPlanFile is read when no --config flag is given.
const DefaultPlanFile = "appboot.yaml"

// out receives user-facing output. Replaced in tests.
var out io.Writer = os.Stdout

// loadPlan loads the plan at path, or DefaultPlanFile when path is empty.
func loadPlan(path string) (*config.Plan, error) {
	if path == "" {
		path = DefaultPlanFile
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s in the current directory; create one with 'appboot init' or pass --config", DefaultPlanFile)
		}
	}

	plan, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return plan, nil
}

// loadTimeouts reads the APPBOOT_* timeouts through envLookuper.
func loadTimeouts(ctx context.Context) (*config.Timeouts, error) {
	return config.LoadTimeoutsFrom(ctx, envLookuper)
}

func printer() *ui.Printer {
	f, ok := out.(*os.File)
	return ui.NewPrinter(out, ok && logging.IsTerminal(f))
}
