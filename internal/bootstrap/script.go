package bootstrap

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/acs-assignment/appboot/internal/config"
	"github.com/acs-assignment/appboot/internal/util/shell"
)

//go:embed script.sh.tmpl
var scriptTemplate string

var script = template.Must(template.New("script").Parse(scriptTemplate))

type scriptStep struct {
	Name  string
	Lines []string
}

type scriptData struct {
	Name  string
	Steps []scriptStep
}

// RenderScript renders the plan as a bash script equivalent to running
// BuildSteps through a Runner. The listen defaults are baked in but IP and
// PORT from the script's environment still take precedence.
func RenderScript(plan *config.Plan) (string, error) {
	pm, ok := packageManagers[plan.PackageManager]
	if !ok {
		return "", fmt.Errorf("%w: unknown package manager %q", config.ErrInvalidPlan, plan.PackageManager)
	}

	ip := plan.Listen.IP
	if ip == "" {
		ip = config.DefaultIP
	}
	port := plan.Listen.Port
	if port == 0 {
		port = config.DefaultPort
	}

	clone := []string{"git", "clone"}
	if plan.Repository.Ref != "" {
		clone = append(clone, "--branch", plan.Repository.Ref, "--single-branch")
	}
	clone = append(clone, plan.Repository.URL, plan.DeployPath)

	path := shell.Quote(plan.DeployPath)
	steps := []scriptStep{
		{Name: config.StepRefreshIndex, Lines: []string{pm.scriptLine(plan.Sudo, pm.refresh)}},
		{Name: config.StepInstallPackages, Lines: []string{pm.scriptLine(plan.Sudo, concat(pm.install, plan.Packages))}},
		{Name: config.StepCloneRepository, Lines: []string{
			"rm -rf " + path,
			"mkdir -p \"$(dirname " + path + ")\"",
			shell.Join(clone),
		}},
		{Name: config.StepInstallDependencies, Lines: []string{
			"(cd " + path + " && " + shell.Join(plan.Install) + ")",
		}},
		{Name: config.StepLaunchApplication, Lines: []string{
			"cd " + path,
			fmt.Sprintf("export IP=\"${IP:-%s}\" PORT=\"${PORT:-%s}\"", ip, strconv.Itoa(port)),
			"exec " + shell.Join(plan.Entrypoint),
		}},
	}

	for i := range steps {
		if !plan.ShouldContinue(steps[i].Name) {
			continue
		}
		lines := steps[i].Lines
		// The launch line is an exec; there is nothing after it to continue to.
		if steps[i].Name != config.StepLaunchApplication {
			last := len(lines) - 1
			lines[last] = lines[last] + " || true"
		}
	}

	var sb strings.Builder
	if err := script.Execute(&sb, scriptData{Name: plan.Name, Steps: steps}); err != nil {
		return "", fmt.Errorf("failed to render script: %w", err)
	}
	return sb.String(), nil
}

func (pm packageManager) scriptLine(sudo bool, argv []string) string {
	cmd := pm.command(sudo, argv)
	line := shell.Join(append([]string{cmd.Name}, cmd.Args...))
	if len(cmd.Env) > 0 {
		line = strings.Join(cmd.Env, " ") + " " + line
	}
	return line
}
