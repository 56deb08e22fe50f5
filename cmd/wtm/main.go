package main

import (
	"os"
	"strings"

	"github.com/sqve/wtm/cmd/wtm/commands"
	"github.com/sqve/wtm/internal/logger"
)

// Set by the build via -ldflags.
var version = "dev"

func main() {
	if err := commands.NewRootCmd(version).Execute(); err != nil {
		logger.Error("%v", err)
		if s := commands.Suggestions(err); len(s) > 0 {
			logger.Info("Did you mean: %s?", strings.Join(s, ", "))
		}
		os.Exit(1)
	}
}
