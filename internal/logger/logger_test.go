package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	defer func() { os.Stderr = oldStderr }()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestDebug(t *testing.T) {
	t.Run("silent when debug disabled", func(t *testing.T) {
		Init(false, false)
		output := captureStderr(t, func() { Debug("hidden %d", 1) })

		if strings.Contains(output, "hidden") {
			t.Error("Debug message appeared when debug mode was disabled")
		}
	})

	t.Run("prefixed when debug enabled", func(t *testing.T) {
		Init(false, true)
		t.Cleanup(func() { Init(false, false) })
		output := captureStderr(t, func() { Debug("visible %d", 2) })

		if !strings.Contains(output, "[DEBUG] visible 2") {
			t.Errorf("unexpected debug output %q", output)
		}
	})
}

func TestPlainMode(t *testing.T) {
	Init(true, false)
	t.Cleanup(func() { Init(false, false) })

	tests := []struct {
		name string
		fn   func()
		want string
	}{
		{"success", func() { Success("created %s", "feature") }, "created feature\n"},
		{"info", func() { Info("using %s", "same-level") }, "using same-level\n"},
		{"warning", func() { Warning("branch kept") }, "Warning: branch kept\n"},
		{"error", func() { Error("failed") }, "Error: failed\n"},
		{"list item", func() { ListItem("feature") }, "  - feature\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStderr(t, tt.fn)
			if output != tt.want {
				t.Errorf("got %q, want %q", output, tt.want)
			}
		})
	}
}

func TestColoredMode(t *testing.T) {
	Init(false, false)
	t.Setenv("WTM_TEST_COLORS", "true")

	tests := []struct {
		name   string
		fn     func()
		symbol string
	}{
		{"success", func() { Success("done") }, "✓"},
		{"info", func() { Info("note") }, "→"},
		{"warning", func() { Warning("careful") }, "⚠"},
		{"error", func() { Error("broken") }, "✗"},
		{"list item", func() { ListItem("entry") }, "•"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStderr(t, tt.fn)
			if !strings.Contains(output, tt.symbol) {
				t.Errorf("output %q should contain %q", output, tt.symbol)
			}
			if !strings.Contains(output, "\033[") {
				t.Error("colored output should contain ANSI escape codes")
			}
		})
	}
}
