package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/acs-assignment/appboot/internal/bootstrap"
	"github.com/acs-assignment/appboot/internal/deploy"
	"github.com/acs-assignment/appboot/internal/provisioning"
)

// Printer writes summaries to w.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter returns a Printer. When styled is false no escape codes are
// written.
func NewPrinter(w io.Writer, styled bool) *Printer {
	return &Printer{w: w, styled: styled}
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// RunReport prints the outcome of a bootstrap run, one line per step.
func (p *Printer) RunReport(r *bootstrap.Report) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", p.render(titleStyle, "Bootstrap "+r.Plan), p.render(dimStyle, r.ID))
	for i, step := range r.Steps {
		icon, style := p.stepIcon(step)
		line := fmt.Sprintf("%d. %s", i+1, step.Name)
		if step.Duration > 0 {
			line += " " + p.render(dimStyle, formatDuration(step.Duration))
		}
		fmt.Fprintf(&b, "  %s %s\n", p.render(style, icon), line)
		if step.Error != "" {
			fmt.Fprintf(&b, "       %s\n", p.render(style, step.Error))
		}
	}

	statusStyle := readyStyle
	if r.Status == bootstrap.StatusFailed {
		statusStyle = failedStyle
	}
	fmt.Fprintf(&b, "%s %s in %s\n", p.render(sectionStyle, "Status:"),
		p.render(statusStyle, string(r.Status)), formatDuration(r.Duration()))

	_, _ = io.WriteString(p.w, b.String())
}

func (p *Printer) stepIcon(step bootstrap.StepResult) (string, lipgloss.Style) {
	switch {
	case step.Ignored:
		return warnMark, warningStyle
	case step.Status == bootstrap.StatusCompleted:
		return checkMark, readyStyle
	case step.Status == bootstrap.StatusFailed:
		return crossMark, failedStyle
	default:
		return pending, dimStyle
	}
}

// ProvisionSummary prints the resources a provisioning run created.
func (p *Printer) ProvisionSummary(s *provisioning.State, dryRun bool) {
	var b strings.Builder

	title := "Provisioned resources"
	if dryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(&b, "%s\n", p.render(titleStyle, title))

	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "  %-16s %s\n", p.render(sectionStyle, label), value)
	}
	row("Key pair", s.KeyPairName)
	row("Private key", s.KeyFile)
	row("VPC", s.VPCID)
	row("Zones", strings.Join(s.Zones, ", "))
	row("Public subnets", strings.Join(s.PublicSubnetIDs, ", "))
	row("Private subnets", strings.Join(s.PrivateSubnetIDs, ", "))
	row("Security group", s.SecurityGroupID)

	instance := s.InstanceID
	if instance != "" && s.InstanceTerminated {
		instance += " " + p.render(dimStyle, "(terminated)")
	}
	row("Instance", instance)
	row("Image", s.ImageID)

	_, _ = io.WriteString(p.w, b.String())
}

// DeploySummary prints the outcome of a deployment.
func (p *Printer) DeploySummary(host string, r *deploy.Result) {
	if r.Platform != "" {
		host += " " + p.render(dimStyle, "("+r.Platform+")")
	}
	fmt.Fprintf(p.w, "%s %s: %d files copied in %s, finished after %s\n",
		p.render(readyStyle, checkMark), host, r.Files, formatDuration(r.Copy), formatDuration(r.Duration))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}
