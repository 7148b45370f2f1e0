package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
)

const minToastWidth = 20

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateOverlay(),
		c.validateHistory(),
	)
}

func (c *Config) validateOverlay() error {
	var errs criterio.FieldErrorsBuilder
	o := c.Overlay

	if o.DefaultDuration <= 0 {
		errs = errs.Append("overlay.default_duration", fmt.Errorf("must be greater than zero"))
	}
	if o.MaxToasts < 1 {
		errs = errs.Append("overlay.max_toasts", fmt.Errorf("must be at least 1"))
	}
	if o.DismissAnimation < 0 {
		errs = errs.Append("overlay.dismiss_animation", fmt.Errorf("must not be negative"))
	}
	if o.TickInterval <= 0 {
		errs = errs.Append("overlay.tick_interval", fmt.Errorf("must be greater than zero"))
	}
	if o.Width < minToastWidth {
		errs = errs.Append("overlay.width", fmt.Errorf("must be at least %d", minToastWidth))
	}

	return errs.ToError()
}

func (c *Config) validateHistory() error {
	if !c.History.IsEnabled() {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	h := c.History

	if h.MaxOpenConns < 1 {
		errs = errs.Append("history.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if h.MaxIdleConns < 0 || h.MaxIdleConns > h.MaxOpenConns {
		errs = errs.Append("history.max_idle_conns", fmt.Errorf("must be between 0 and max_open_conns"))
	}
	if h.BusyTimeout < 0 {
		errs = errs.Append("history.busy_timeout", fmt.Errorf("must not be negative"))
	}
	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("required when history is enabled"))
	}

	return errs.ToError()
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
