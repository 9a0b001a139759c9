package config

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the answers from the interactive plan form.
type WizardResult struct {
	Name           string
	RepositoryURL  string
	Ref            string
	PackageManager string
	DeployPath     string
	Entrypoint     string
}

// RunWizard asks for the handful of values a plan cannot default.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		Name:           DefaultName,
		PackageManager: DefaultPackageManager,
		DeployPath:     DefaultDeployPath,
		Entrypoint:     "npm start",
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Application name").
				Description("Used to name cloud resources (lowercase, dashes)").
				Value(&result.Name).
				Validate(validateName),
			huh.NewInput().
				Title("Repository URL").
				Description("Git URL of the application to deploy").
				Placeholder("https://github.com/example/app.git").
				Value(&result.RepositoryURL).
				Validate(validateRepositoryURL),
			huh.NewInput().
				Title("Branch (optional)").
				Description("Leave empty to use the remote default branch").
				Value(&result.Ref),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Package manager").
				Description("Used to install git and Node.js on the host").
				Options(
					huh.NewOption("apt (Debian, Ubuntu)", PackageManagerApt),
					huh.NewOption("yum (Amazon Linux 2, CentOS)", PackageManagerYum),
					huh.NewOption("dnf (Amazon Linux 2023, Fedora)", PackageManagerDnf),
				).
				Value(&result.PackageManager),
			huh.NewInput().
				Title("Deploy path").
				Description("Replaced on every run").
				Value(&result.DeployPath).
				Validate(validateDeployPath),
			huh.NewInput().
				Title("Entrypoint").
				Description("Command that starts the server").
				Value(&result.Entrypoint).
				Validate(validateEntrypoint),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToPlan converts the wizard answers into a defaulted plan.
func (r *WizardResult) ToPlan() *Plan {
	plan := &Plan{
		Name:           r.Name,
		PackageManager: r.PackageManager,
		Repository: RepositoryConfig{
			URL: strings.TrimSpace(r.RepositoryURL),
			Ref: strings.TrimSpace(r.Ref),
		},
		DeployPath: r.DeployPath,
		Entrypoint: strings.Fields(r.Entrypoint),
	}
	plan.ApplyDefaults()
	return plan
}

func validateName(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("use lowercase letters, digits and dashes")
	}
	return nil
}

func validateRepositoryURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("repository URL is required")
	}
	// scp-like git@host:path URLs do not parse as URLs.
	if strings.Contains(s, "@") && strings.Contains(s, ":") && !strings.Contains(s, "://") {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return fmt.Errorf("not a valid git URL")
	}
	return nil
}

func validateDeployPath(s string) error {
	if !filepath.IsAbs(s) {
		return fmt.Errorf("must be an absolute path")
	}
	if filepath.Clean(s) == string(filepath.Separator) {
		return fmt.Errorf("must not be the filesystem root")
	}
	return nil
}

func validateEntrypoint(s string) error {
	if len(strings.Fields(s)) == 0 {
		return fmt.Errorf("entrypoint is required")
	}
	return nil
}
