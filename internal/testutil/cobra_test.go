package testutil

import (
	"fmt"
	"testing"

	"github.com/spf13/cobra"
)

func TestPtr(t *testing.T) {
	t.Run("returns pointer to string", func(t *testing.T) {
		p := Ptr("test")
		if *p != "test" {
			t.Errorf("expected 'test', got %q", *p)
		}
	})

	t.Run("returns pointer to empty string", func(t *testing.T) {
		p := Ptr("")
		if *p != "" {
			t.Errorf("expected empty string, got %q", *p)
		}
	})
}

func TestAssertFlagExists(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("location", "l", "", "location flag")
	cmd.Flags().BoolP("force", "f", false, "force flag")

	t.Run("checks all properties", func(t *testing.T) {
		AssertFlagExists(t, cmd, "location", Ptr(""), "string", "l")
		AssertFlagExists(t, cmd, "force", Ptr("false"), "bool", "f")
	})

	t.Run("skips optional checks", func(t *testing.T) {
		AssertFlagExists(t, cmd, "force", nil, "", "")
	})
}

func TestExecuteCommand(t *testing.T) {
	cmd := &cobra.Command{
		Use:  "echo",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return err
		},
	}

	out, err := ExecuteCommand(t, cmd, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello\n" {
		t.Errorf("expected %q, got %q", "hello\n", out)
	}

	if _, err := ExecuteCommand(t, cmd); err == nil {
		t.Error("expected argument error")
	}
}
