package logger

import (
	"fmt"
	"os"

	"github.com/sqve/wtm/internal/config"
	"github.com/sqve/wtm/internal/styles"
)

// Init sets output mode. Messages go to stderr so stdout stays free for
// data such as paths and listings.
func Init(plain, debug bool) {
	config.Global.Plain = plain
	config.Global.Debug = debug
}

func isPlain() bool {
	return config.IsPlain()
}

// Debug prints debug information when debug mode is enabled
func Debug(format string, args ...any) {
	if config.IsDebug() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

func Info(format string, args ...any) {
	emit(&styles.Info, "→", "", format, args...)
}

// Success prints success messages
func Success(format string, args ...any) {
	emit(&styles.Success, "✓", "", format, args...)
}

func Warning(format string, args ...any) {
	emit(&styles.Warning, "⚠", "Warning: ", format, args...)
}

// Error prints error messages to stderr
func Error(format string, args ...any) {
	emit(&styles.Error, "✗", "Error: ", format, args...)
}

// ListItem prints an indented entry, used for batch results.
func ListItem(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if isPlain() {
		fmt.Fprintf(os.Stderr, "  - %s\n", msg)
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n", styles.Render(&styles.Dimmed, "•"), msg)
}

func emit(style *styles.Style, symbol, plainPrefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if isPlain() {
		fmt.Fprintf(os.Stderr, "%s%s\n", plainPrefix, msg)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", styles.Render(style, symbol), msg)
}
