// Package prerequisites checks that the host has the binaries a bootstrap
// run depends on before any step starts.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/acs-assignment/appboot/internal/config"
)

// Tool represents a binary that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string
}

// packageManagerBinaries maps a plan's package manager to its binary.
var packageManagerBinaries = map[string]string{
	config.PackageManagerApt: "apt-get",
	config.PackageManagerYum: "yum",
	config.PackageManagerDnf: "dnf",
}

// ForPlan returns the tools a run of plan needs. The package manager (and
// sudo, when the plan uses it) must exist up front. The install and
// entrypoint binaries are normally installed by the run itself, so they
// are only reported.
func ForPlan(plan *config.Plan) []Tool {
	var tools []Tool
	if bin, ok := packageManagerBinaries[plan.PackageManager]; ok {
		tools = append(tools, Tool{
			Name:        bin,
			Required:    true,
			Description: "Installs the packages listed in the plan",
		})
	}
	if plan.Sudo {
		tools = append(tools, Tool{
			Name:        "sudo",
			Required:    true,
			Description: "Runs package manager commands as root",
		})
	}

	seen := make(map[string]bool)
	for _, argv := range [][]string{plan.Install, plan.Entrypoint} {
		if len(argv) == 0 || seen[argv[0]] {
			continue
		}
		seen[argv[0]] = true
		tools = append(tools, Tool{
			Name:        argv[0],
			Description: "Installed by the install-packages step if missing",
		})
	}
	return tools
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.Description))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check looks up each tool in PATH.
func Check(tools []Tool) *CheckResults {
	return check(tools, exec.LookPath)
}

func check(tools []Tool, lookPath func(string) (string, error)) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		if path, err := lookPath(tool.Name); err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}
