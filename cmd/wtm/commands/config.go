package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sqve/wtm/internal/config"
	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/git"
	"github.com/sqve/wtm/internal/logger"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize configuration",
		Long: `Inspect and initialize configuration.

Settings are merged from, lowest to highest precedence: built-in defaults,
the user config file, .wtm.toml in the project root, WTM_* environment
variables and command-line flags.`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(newConfigShowCmd(), newConfigInitCmd(), newConfigValidateCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(projectRoot(), cmd.Flags())
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName + " to the project root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot()
			if root == "" {
				return errors.New("not inside a git repository")
			}
			return runConfigInit(root, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func runConfigInit(root string, force bool) error {
	if config.FileConfigExists(root) && !force {
		return errors.TargetExists(filepath.Join(root, config.FileName))
	}
	if err := config.WriteToFile(root, config.DefaultFileConfig()); err != nil {
		return err
	}
	logger.Success("Wrote %s", filepath.Join(root, config.FileName))
	return nil
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot()
			if root != "" {
				if _, err := config.LoadFromFile(root); err != nil {
					return err
				}
			}
			cfg, err := config.Load(root, cmd.Flags())
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			logger.Success("Configuration is valid")
			return nil
		},
	}
}

// projectRoot returns the repository root for the working directory, or ""
// outside a repository.
func projectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	repo, err := git.NewClient(nil).Discover(cwd)
	if err != nil {
		logger.Debug("Not in a repository, skipping %s: %v", config.FileName, err)
		return ""
	}
	return repo.Root
}
