package bootstrap

import (
	"fmt"

	"github.com/acs-assignment/appboot/internal/config"
)

// packageManager holds the commands for one OS package manager.
type packageManager struct {
	refresh []string
	install []string
	env     []string
}

var packageManagers = map[string]packageManager{
	config.PackageManagerApt: {
		refresh: []string{"apt-get", "update", "-y"},
		install: []string{"apt-get", "install", "-y"},
		env:     []string{"DEBIAN_FRONTEND=noninteractive"},
	},
	config.PackageManagerYum: {
		refresh: []string{"yum", "makecache", "-y"},
		install: []string{"yum", "install", "-y"},
	},
	config.PackageManagerDnf: {
		refresh: []string{"dnf", "makecache", "-y"},
		install: []string{"dnf", "install", "-y"},
	},
}

// BuildSteps returns the five bootstrap steps for a plan, in order.
func BuildSteps(plan *config.Plan, listen config.Listen, cloner Cloner) ([]Step, error) {
	pm, ok := packageManagers[plan.PackageManager]
	if !ok {
		return nil, fmt.Errorf("%w: unknown package manager %q", config.ErrInvalidPlan, plan.PackageManager)
	}

	return []Step{
		&CommandStep{
			StepName: config.StepRefreshIndex,
			Commands: []Command{pm.command(plan.Sudo, pm.refresh)},
		},
		&CommandStep{
			StepName: config.StepInstallPackages,
			Commands: []Command{pm.command(plan.Sudo, concat(pm.install, plan.Packages))},
		},
		&CloneStep{
			URL:    plan.Repository.URL,
			Ref:    plan.Repository.Ref,
			Path:   plan.DeployPath,
			Cloner: cloner,
		},
		&CommandStep{
			StepName: config.StepInstallDependencies,
			Commands: []Command{{
				Name: plan.Install[0],
				Args: plan.Install[1:],
				Dir:  plan.DeployPath,
			}},
		},
		&LaunchStep{
			Dir:     plan.DeployPath,
			Command: plan.Entrypoint,
			Listen:  listen,
		},
	}, nil
}

func (pm packageManager) command(sudo bool, argv []string) Command {
	if sudo {
		// sudo resets the environment, so pass variables through it.
		argv = concat(concat([]string{"sudo"}, pm.env), argv)
		return Command{Name: argv[0], Args: argv[1:]}
	}
	return Command{Name: argv[0], Args: argv[1:], Env: pm.env}
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}
