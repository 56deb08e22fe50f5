package config

import (
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sqve/wtm/internal/errors"
)

// EnvPrefix is prepended to every environment override, as in WTM_PLAIN.
const EnvPrefix = "WTM"

// Global holds the output state read by the logger and styles packages
var Global struct {
	Plain bool // Disable colors and symbols
	Debug bool // Enable debug logging
}

// IsPlain returns true if plain output mode is enabled
func IsPlain() bool {
	return Global.Plain
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return Global.Debug
}

// Config is the effective configuration after all layers are merged.
type Config struct {
	Plain bool `mapstructure:"plain"`
	Debug bool `mapstructure:"debug"`

	Log struct {
		File  string `mapstructure:"file"`
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Worktree struct {
		DefaultLocation string `mapstructure:"default_location"`
		CustomDir       string `mapstructure:"custom_dir"`
	} `mapstructure:"worktree"`

	Lock struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"lock"`

	Hooks Hooks `mapstructure:"hooks"`
}

// Hooks lists shell commands per lifecycle event.
type Hooks struct {
	PostCreate []string `mapstructure:"post_create"`
	PreRemove  []string `mapstructure:"pre_remove"`
	PostRemove []string `mapstructure:"post_remove"`
	PostRename []string `mapstructure:"post_rename"`
	PostSwitch []string `mapstructure:"post_switch"`
}

// Load merges, from lowest to highest precedence: defaults, the user config
// file, the project file in projectRoot, WTM_* environment variables and the
// plain/debug flags in flags. projectRoot and flags may be empty.
func Load(projectRoot string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path := UserConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.ConfigInvalid(path, err)
			}
		}
	}

	if projectRoot != "" {
		values, err := loadFileMap(projectRoot)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, errors.ConfigInvalid(FileName, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range []string{"plain", "debug"} {
			if f := flags.Lookup(key); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.ConfigInvalid(key, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ConfigInvalid("decode", err)
	}
	return &cfg, nil
}

// Apply copies the output settings into Global.
func Apply(cfg *Config) {
	Global.Plain = cfg.Plain
	Global.Debug = cfg.Debug
}

// For returns the commands configured for event.
func (h Hooks) For(event string) []string {
	switch event {
	case "post_create":
		return h.PostCreate
	case "pre_remove":
		return h.PreRemove
	case "post_remove":
		return h.PostRemove
	case "post_rename":
		return h.PostRename
	case "post_switch":
		return h.PostSwitch
	default:
		return nil
	}
}

// Marshal renders the configuration as TOML, in the shape of the config file.
func (c *Config) Marshal() ([]byte, error) {
	view := map[string]any{
		"plain": c.Plain,
		"debug": c.Debug,
		"log": map[string]any{
			"file":  c.Log.File,
			"level": c.Log.Level,
		},
		"worktree": map[string]any{
			"default_location": c.Worktree.DefaultLocation,
			"custom_dir":       c.Worktree.CustomDir,
		},
		"lock": map[string]any{
			"timeout": c.Lock.Timeout.String(),
		},
		"hooks": map[string]any{
			"post_create": nonNil(c.Hooks.PostCreate),
			"pre_remove":  nonNil(c.Hooks.PreRemove),
			"post_remove": nonNil(c.Hooks.PostRemove),
			"post_rename": nonNil(c.Hooks.PostRename),
			"post_switch": nonNil(c.Hooks.PostSwitch),
		},
	}
	return toml.Marshal(view)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
