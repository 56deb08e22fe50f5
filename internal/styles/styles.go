package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/sqve/wtm/internal/config"
)

type Style = lipgloss.Style

var (
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	Dimmed  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	Header  = lipgloss.NewStyle().Bold(true)
	Current = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

func Render(style *lipgloss.Style, text string) string {
	if config.IsPlain() {
		return text
	}

	// Allow us to force enable colors in certain tests, since lipgloss disables
	// colors in test environments.
	if os.Getenv("WTM_TEST_COLORS") == "true" {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}

	return style.Render(text)
}

// Width is the printed width of s, ignoring escape sequences.
func Width(s string) int {
	return lipgloss.Width(s)
}

// ForState picks the style for a worktree state word as shown by list.
func ForState(state string) *Style {
	switch state {
	case "clean":
		return &Success
	case "dirty":
		return &Warning
	case "prunable":
		return &Error
	default:
		return &Dimmed
	}
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldUsePlain reports whether output should drop colors and symbols
// because stderr is not a terminal or NO_COLOR is set.
func ShouldUsePlain() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return !IsTerminal(os.Stderr)
}
