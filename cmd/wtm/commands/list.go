package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sqve/wtm/internal/config"
	"github.com/sqve/wtm/internal/git"
	"github.com/sqve/wtm/internal/styles"
)

// Output formats accepted by list --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var format string
	var fast bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List worktrees",
		Long: `List all worktrees of the repository with their branch and status.

Examples:
  wtm list                # Table with dirty status
  wtm list --fast         # Skip the dirty check
  wtm list --format json  # Machine-readable output`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, format, fast)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", FormatTable, "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&fast, "fast", false, "Skip the dirty check")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatTable, FormatJSON, FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runList(cmd *cobra.Command, format string, fast bool) error {
	if format != FormatTable && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("unsupported format %q: use table, json or yaml", format)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	worktrees, err := s.listWorktrees(fast)
	if err != nil {
		return err
	}

	return writeWorktrees(cmd.OutOrStdout(), worktrees, format, fast)
}

func writeWorktrees(w io.Writer, worktrees []git.Worktree, format string, fast bool) error {
	if worktrees == nil {
		worktrees = []git.Worktree{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(worktrees)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(worktrees); err != nil {
			return err
		}
		return enc.Close()
	default:
		writeTable(w, worktrees, fast)
		return nil
	}
}

func writeTable(w io.Writer, worktrees []git.Worktree, fast bool) {
	tbl := table.New("", "NAME", "BRANCH", "STATUS", "PATH").WithWriter(w).WithWidthFunc(styles.Width)
	if !config.IsPlain() {
		tbl.WithHeaderFormatter(func(format string, vals ...any) string {
			return styles.Render(&styles.Header, fmt.Sprintf(format, vals...))
		})
	}

	for _, wt := range worktrees {
		marker := ""
		if wt.Current {
			marker = styles.Render(&styles.Current, "*")
		}
		tbl.AddRow(marker, wt.Name, wt.Branch, renderStatus(worktreeStatus(wt, fast)), wt.Path)
	}
	tbl.Print()
}

// renderStatus colors each state word of a status cell.
func renderStatus(status string) string {
	if config.IsPlain() {
		return status
	}
	states := strings.Split(status, ", ")
	for i, state := range states {
		states[i] = styles.Render(styles.ForState(state), state)
	}
	return strings.Join(states, ", ")
}

// worktreeStatus summarizes the flags of wt for the table view.
func worktreeStatus(wt git.Worktree, fast bool) string {
	var parts []string
	switch {
	case wt.Bare:
		parts = append(parts, "bare")
	case fast:
	case wt.Dirty:
		parts = append(parts, "dirty")
	default:
		parts = append(parts, "clean")
	}
	if wt.Locked {
		parts = append(parts, "locked")
	}
	if wt.Prunable {
		parts = append(parts, "prunable")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
