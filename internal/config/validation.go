package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sqve/wtm/internal/validation"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(messages, "\n"))
}

// Validate reports every invalid field of cfg.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	location := cfg.Worktree.DefaultLocation
	if !slices.Contains(ValidLocations(), location) {
		errs = append(errs, ValidationError{
			Field:   "worktree.default_location",
			Value:   location,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLocations(), ", ")),
		})
	}

	if location == "custom" && strings.TrimSpace(cfg.Worktree.CustomDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "worktree.custom_dir",
			Value:   cfg.Worktree.CustomDir,
			Message: "required when default_location is custom",
		})
	}

	if cfg.Worktree.CustomDir != "" {
		if _, err := validation.ParseCustomPath(cfg.Worktree.CustomDir); err != nil {
			errs = append(errs, ValidationError{
				Field:   "worktree.custom_dir",
				Value:   cfg.Worktree.CustomDir,
				Message: err.Error(),
			})
		}
	}

	if !slices.Contains(ValidLogLevels(), cfg.Log.Level) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   cfg.Log.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if cfg.Lock.Timeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "lock.timeout",
			Value:   cfg.Lock.Timeout,
			Message: "must be positive",
		})
	}

	for event, commands := range map[string][]string{
		"hooks.post_create": cfg.Hooks.PostCreate,
		"hooks.pre_remove":  cfg.Hooks.PreRemove,
		"hooks.post_remove": cfg.Hooks.PostRemove,
		"hooks.post_rename": cfg.Hooks.PostRename,
		"hooks.post_switch": cfg.Hooks.PostSwitch,
	} {
		for i, command := range commands {
			if strings.TrimSpace(command) == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s[%d]", event, i),
					Value:   command,
					Message: "command cannot be empty",
				})
			}
		}
	}

	if len(errs) > 0 {
		slices.SortStableFunc(errs, func(a, b ValidationError) int {
			return strings.Compare(a.Field, b.Field)
		})
		return errs
	}
	return nil
}
