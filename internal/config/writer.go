package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WritePlan writes the plan to a YAML file with a descriptive header.
// The infrastructure section is omitted when it only holds defaults.
func WritePlan(plan *Plan, outputPath string) error {
	out := *plan
	if out.Infrastructure == Default().Infrastructure {
		out.Infrastructure = InfraConfig{}
	}

	yamlBytes, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func generateHeader(outputPath string) string {
	return fmt.Sprintf(`# appboot plan
# Generated: %s
#
# Run on the target host:   appboot run -c %s
# Render as user data:      appboot render -c %s
# Create cloud resources:   appboot provision -c %s
`, time.Now().UTC().Format(time.RFC3339), outputPath, outputPath, outputPath)
}
