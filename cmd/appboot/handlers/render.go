package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/acs-assignment/appboot/internal/bootstrap"
)

// scriptFileMode is the permission of a rendered script written to disk.
const scriptFileMode = 0o700

// Render writes the plan's startup script to outputPath, or to stdout when
// outputPath is empty.
func Render(ctx context.Context, configPath, outputPath string) error {
	plan, err := loadPlan(configPath)
	if err != nil {
		return err
	}

	script, err := bootstrap.RenderScript(plan)
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err := io.WriteString(out, script)
		return err
	}

	if err := os.WriteFile(outputPath, []byte(script), scriptFileMode); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	logr.FromContextOrDiscard(ctx).Info("script written", "path", outputPath)
	return nil
}
