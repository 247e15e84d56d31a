package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/khatt/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid. All problems
// are reported together as criterio field errors.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", errors.New("data directory cannot be empty"))
	}
	if c.Viewer.ZoomStep <= 1 {
		errs = errs.Append("viewer.zoom_step", fmt.Errorf("must be greater than 1, got %g", c.Viewer.ZoomStep))
	}
	if c.Viewer.WheelSettle < 0 {
		errs = errs.Append("viewer.wheel_settle", errors.New("must not be negative"))
	}
	if c.Viewer.PanStep < 1 {
		errs = errs.Append("viewer.pan_step", errors.New("must be at least 1"))
	}
	if c.Editor.CommitDelay < 0 {
		errs = errs.Append("editor.commit_delay", errors.New("must not be negative"))
	}
	if c.Editor.LineThreshold <= 0 || c.Editor.LineThreshold > 2 {
		errs = errs.Append("editor.line_threshold", fmt.Errorf("must be in (0, 2], got %g", c.Editor.LineThreshold))
	}
	if c.Editor.MaxHistory < 0 {
		errs = errs.Append("editor.max_history", errors.New("must not be negative"))
	}
	if c.Editor.MaxHistory == 1 {
		errs = errs.Append("editor.max_history", errors.New("must be 0 (unlimited) or at least 2"))
	}

	if err := knownTheme(c.TUI.Theme); err != nil {
		errs = errs.Append("tui.theme", err)
	}

	return errs.ToError()
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility and external commands. The configPath argument specifies
// the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("export.dir", c.Export.Dir, isDirectoryOrNotExist),
		criterio.Run("export.copy_command", c.Export.CopyCommand, commandExists),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Viewer.WheelSettle > 0 && c.Viewer.WheelSettle < 20*time.Millisecond {
		warnings = append(warnings, ValidationWarning{
			Category: "Viewer",
			Item:     "wheel_settle",
			Message:  "settle time below 20ms disables smoothing only briefly",
		})
	}
	if c.Editor.CommitDelay > 0 && c.Editor.CommitDelay < 100*time.Millisecond {
		warnings = append(warnings, ValidationWarning{
			Category: "Editor",
			Item:     "commit_delay",
			Message:  "short commit delay makes nearly every keystroke its own undo step",
		})
	}
	if c.Viewer.ZoomStep > 3 {
		warnings = append(warnings, ValidationWarning{
			Category: "Viewer",
			Item:     "zoom_step",
			Message:  fmt.Sprintf("zoom step %g reaches the scale limits in very few steps", c.Viewer.ZoomStep),
		})
	}

	return warnings
}

func knownTheme(name string) error {
	if slices.Contains(styles.ThemeNames(), name) {
		return nil
	}
	return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// commandExists validates that the program of a command line is on PATH.
func commandExists(command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil
	}
	if _, err := exec.LookPath(parts[0]); err != nil {
		return fmt.Errorf("executable not found: %s", parts[0])
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
