package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/acs-assignment/appboot/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	runWizard = config.RunWizard

	writePlan = config.WritePlan
)

// Init runs the plan wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Fprintf(out, "Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	plan := result.ToPlan()
	if err := plan.Validate(); err != nil {
		return err
	}

	if err := writePlan(plan, outputPath); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	printInitSuccess(outputPath, plan)
	return nil
}

func printWelcome() {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "appboot - application host bootstrap")
	fmt.Fprintln(out, "====================================")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "This wizard creates a plan file with sensible defaults.")
	fmt.Fprintln(out)
}

func printInitSuccess(outputPath string, plan *config.Plan) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Plan saved!")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  File: %s\n", outputPath)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Plan Summary")
	fmt.Fprintln(out, "------------")
	fmt.Fprintf(out, "  Name:            %s\n", plan.Name)
	fmt.Fprintf(out, "  Repository:      %s\n", plan.Repository.URL)
	if plan.Repository.Ref != "" {
		fmt.Fprintf(out, "  Branch:          %s\n", plan.Repository.Ref)
	}
	fmt.Fprintf(out, "  Package manager: %s\n", plan.PackageManager)
	fmt.Fprintf(out, "  Deploy path:     %s\n", plan.DeployPath)
	fmt.Fprintf(out, "  Entrypoint:      %s\n", strings.Join(plan.Entrypoint, " "))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. Review %s\n", outputPath)
	fmt.Fprintf(out, "  2. Run: appboot render -c %s\n", outputPath)
	fmt.Fprintf(out, "  3. Run: appboot provision -c %s --dry-run\n", outputPath)
}
