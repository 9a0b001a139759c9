package provisioning

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/acs-assignment/appboot/internal/util/naming"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	var errs []string
	for _, ve := range validate(ctx) {
		if !ve.IsError() {
			ctx.Observer.Event(Event{
				Type:    EventValidationWarning,
				Phase:   vp.Name(),
				Message: ve.Message,
				Fields:  map[string]string{"field": ve.Field},
			})
			continue
		}
		ctx.Observer.Event(Event{
			Type:    EventValidationError,
			Phase:   vp.Name(),
			Message: ve.Message,
			Fields:  map[string]string{"field": ve.Field},
		})
		errs = append(errs, ve.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed with %d error(s):\n  %s", len(errs), strings.Join(errs, "\n  "))
	}
	return nil
}

func validate(ctx *Context) []ValidationError {
	var out []ValidationError

	if err := ctx.Plan.Validate(); err != nil {
		out = append(out, ValidationError{Field: "plan", Message: err.Error(), Severity: "error"})
	}
	if strings.TrimSpace(ctx.UserData) == "" {
		out = append(out, ValidationError{Field: "user_data", Message: "startup script is empty", Severity: "error"})
	}

	infra := ctx.Plan.Infrastructure
	if infra.ImageID == "" {
		out = append(out, ValidationError{Field: "infrastructure.image_id", Message: "base image is required", Severity: "error"})
	}
	if infra.InstanceType == "" {
		out = append(out, ValidationError{Field: "infrastructure.instance_type", Message: "instance type is required", Severity: "error"})
	}

	out = append(out, validateKeyDir(ctx)...)

	if ctx.KeepInstance {
		out = append(out, ValidationError{
			Field:    "keep_instance",
			Message:  "the image-build instance will keep running and accrue charges",
			Severity: "warning",
		})
	}
	return out
}

func validateKeyDir(ctx *Context) []ValidationError {
	dir := ctx.Plan.Infrastructure.KeyDir
	info, err := os.Stat(dir)
	if err != nil {
		return []ValidationError{{Field: "infrastructure.key_dir", Message: err.Error(), Severity: "error"}}
	}
	if !info.IsDir() {
		return []ValidationError{{Field: "infrastructure.key_dir", Message: dir + " is not a directory", Severity: "error"}}
	}

	keyFile := filepath.Join(dir, naming.KeyFile(ctx.Plan.Name))
	if _, err := os.Lstat(keyFile); err == nil {
		return []ValidationError{{
			Field:    "infrastructure.key_dir",
			Message:  fmt.Sprintf("%s already exists and would be overwritten", keyFile),
			Severity: "error",
		}}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return []ValidationError{{Field: "infrastructure.key_dir", Message: err.Error(), Severity: "error"}}
	}
	return nil
}
