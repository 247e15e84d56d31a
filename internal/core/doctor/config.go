package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/khatt/internal/core/config"
)

// ConfigCheck reports config file presence and deep validation results.
type ConfigCheck struct {
	cfg        *config.Config
	configPath string
}

// NewConfigCheck creates a config check for the loaded configuration.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, configPath: configPath}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	switch _, err := os.Stat(c.configPath); {
	case c.configPath == "":
		result.Items = append(result.Items, CheckItem{Label: "config file", Status: StatusPass, Detail: "defaults"})
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusPass,
			Detail: fmt.Sprintf("%s not found, using defaults", c.configPath),
		})
	default:
		result.Items = append(result.Items, CheckItem{Label: "config file", Status: StatusPass, Detail: c.configPath})
	}

	if err := c.cfg.ValidateDeep(c.configPath); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.Items = append(result.Items, CheckItem{
					Label:  fe.Field,
					Status: StatusFail,
					Detail: fe.Err.Error(),
				})
			}
		} else {
			result.Items = append(result.Items, CheckItem{Label: "validation", Status: StatusFail, Detail: err.Error()})
		}
	} else {
		result.Items = append(result.Items, CheckItem{Label: "validation", Status: StatusPass})
	}

	for _, w := range c.cfg.Warnings() {
		result.Items = append(result.Items, CheckItem{
			Label:  w.Category + "." + w.Item,
			Status: StatusWarn,
			Detail: w.Message,
		})
	}

	return result
}
