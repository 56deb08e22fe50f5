package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/fs"
)

// FileName is the project level config file, kept in the project root.
const FileName = ".wtm.toml"

// FileConfig is the on-disk shape of the project config file.
type FileConfig struct {
	Plain *bool `toml:"plain,omitempty" comment:"Disable colors and symbols"`
	Debug *bool `toml:"debug,omitempty" comment:"Print debug output"`

	Worktree struct {
		DefaultLocation string `toml:"default_location,omitempty" comment:"Where new worktrees go when no layout exists yet: same-level, subdirectory or custom"`
		CustomDir       string `toml:"custom_dir,omitempty" comment:"Directory relative to the project root, used with the custom location"`
	} `toml:"worktree"`

	Lock struct {
		Timeout string `toml:"timeout,omitempty" comment:"How long to wait for another wtm process, e.g. 10s"`
	} `toml:"lock"`

	Hooks struct {
		PostCreate []string `toml:"post_create,omitempty"`
		PreRemove  []string `toml:"pre_remove,omitempty"`
		PostRemove []string `toml:"post_remove,omitempty"`
		PostRename []string `toml:"post_rename,omitempty"`
		PostSwitch []string `toml:"post_switch,omitempty"`
	} `toml:"hooks" comment:"Shell commands run in the worktree directory"`
}

// DefaultFileConfig is written by `wtm config init`.
func DefaultFileConfig() *FileConfig {
	cfg := &FileConfig{}
	cfg.Worktree.DefaultLocation = DefaultLocation
	cfg.Lock.Timeout = DefaultLockTimeout.String()
	return cfg
}

// LoadFromFile returns empty config if file missing, error if file invalid.
// Unknown keys are rejected so typos surface instead of being ignored.
func LoadFromFile(dir string) (FileConfig, error) {
	var cfg FileConfig
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path) //nolint:gosec // project root comes from git
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.ConfigInvalid(path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			err = errors.New(strict.String())
		}
		return cfg, errors.ConfigInvalid(path, err)
	}
	return cfg, nil
}

// loadFileMap decodes the project file into a generic map for merging into
// the layered configuration. A missing file yields nil.
func loadFileMap(dir string) (map[string]any, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path) //nolint:gosec // project root comes from git
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}

	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}
	return values, nil
}

func FileConfigExists(dir string) bool {
	return fs.FileExists(filepath.Join(dir, FileName))
}

// WriteToFile uses atomic write (temp file + rename) to prevent corruption.
func WriteToFile(dir string, cfg *FileConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.ConfigInvalid("encode", err)
	}
	return fs.WriteFileAtomic(filepath.Join(dir, FileName), data, fs.FileGit)
}
