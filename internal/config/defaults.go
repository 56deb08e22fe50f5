package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultLocation    = "same-level"
	DefaultLogLevel    = "info"
	DefaultLockTimeout = 10 * time.Second
)

// SetDefaults registers every known key on v. Keys without a default are
// invisible to environment overrides during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("plain", false)
	v.SetDefault("debug", false)

	v.SetDefault("log.file", DefaultLogPath())
	v.SetDefault("log.level", DefaultLogLevel)

	v.SetDefault("worktree.default_location", DefaultLocation)
	v.SetDefault("worktree.custom_dir", "")

	v.SetDefault("lock.timeout", DefaultLockTimeout)

	v.SetDefault("hooks.post_create", []string{})
	v.SetDefault("hooks.pre_remove", []string{})
	v.SetDefault("hooks.post_remove", []string{})
	v.SetDefault("hooks.post_rename", []string{})
	v.SetDefault("hooks.post_switch", []string{})
}

func ValidLocations() []string {
	return []string{"same-level", "subdirectory", "custom"}
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}
