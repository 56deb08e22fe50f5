//go:build mage

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type (
	Test  mg.Namespace
	Build mg.Namespace
)

var Aliases = map[string]any{
	"build":  Build.Dev,
	"test":   Test.Unit,
	"script": Test.Script,
}

func (Test) Unit() error {
	fmt.Println("Running unit tests...")
	return sh.RunV("go", "run", "gotest.tools/gotestsum@latest", "--format", "testname", "--", "-tags=!integration", "-short", "./...")
}

func (Test) Integration() error {
	fmt.Println("Running integration tests...")
	return sh.RunV("go", "run", "gotest.tools/gotestsum@latest", "--format", "testname", "--", "-tags=integration", "-timeout=300s", "./cmd/wtm/...")
}

// Script runs the end-to-end scripts matching the SCRIPT pattern, or all of
// them when SCRIPT is unset.
func (Test) Script() error {
	args := []string{"test", "-tags=integration", "-run", "TestScript$", "./cmd/wtm"}
	if pattern := os.Getenv("SCRIPT"); pattern != "" {
		args[3] = "TestScript/" + pattern
	}
	return sh.RunV("go", args...)
}

// Coverage runs unit tests with coverage. In CI the total must reach
// minCoverage percent.
func (Test) Coverage() error {
	fmt.Println("Running unit tests with coverage...")

	if err := os.MkdirAll("coverage", 0o755); err != nil {
		return err
	}

	isCI := os.Getenv("CI") != ""
	args := []string{"test", "-tags=!integration", "-short", "-coverprofile=" + coverProfile, "-coverpkg=./internal/...", "-covermode=atomic"}
	if isCI {
		args = append(args, "-race")
	}
	if err := sh.RunV("go", append(args, "./...")...); err != nil {
		return err
	}

	if !isCI {
		if err := sh.RunV("go", "tool", "cover", "-html="+coverProfile, "-o=coverage/coverage.html"); err != nil {
			return err
		}
		fmt.Println("Coverage report generated at coverage/coverage.html")
	}

	total, err := coverageTotal()
	if err != nil {
		return err
	}
	fmt.Printf("Total coverage: %.1f%%\n", total)

	if isCI && total < minCoverage {
		return fmt.Errorf("coverage %.1f%% is below the required %.0f%%", total, minCoverage)
	}
	return nil
}

const (
	coverProfile = "coverage/coverage.out"
	minCoverage  = 85.0
)

// coverageTotal reads the total percentage from the last line of
// `go tool cover -func`.
func coverageTotal() (float64, error) {
	output, err := sh.Output("go", "tool", "cover", "-func="+coverProfile)
	if err != nil {
		return 0, err
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) == 0 || fields[0] != "total:" {
		return 0, fmt.Errorf("no coverage total in %s", coverProfile)
	}
	return strconv.ParseFloat(strings.TrimSuffix(fields[len(fields)-1], "%"), 64)
}

// Dev builds the wtm binary for development.
func (Build) Dev() error {
	fmt.Println("Building wtm...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/wtm", "./cmd/wtm")
}

// Release builds release binaries for common platforms.
func (Build) Release() error {
	fmt.Println("Building release binaries...")

	platforms := []struct {
		os   string
		arch string
	}{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "amd64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
	}

	for _, platform := range platforms {
		output := fmt.Sprintf("bin/wtm-%s-%s", platform.os, platform.arch)
		if platform.os == "windows" {
			output += ".exe"
		}

		fmt.Printf("Building %s...\n", output)

		env := map[string]string{
			"GOOS":        platform.os,
			"GOARCH":      platform.arch,
			"CGO_ENABLED": "0",
		}

		if err := sh.RunWithV(env, "go", "build", "-ldflags", "-s -w "+ldflags(), "-o", output, "./cmd/wtm"); err != nil {
			return err
		}
	}

	return nil
}

// ldflags stamps the version from the nearest git tag.
func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	return "-X main.version=" + version
}

// Lint runs golangci-lint (with --fix unless in CI).
func Lint() error {
	fmt.Println("Running golangci-lint...")

	if os.Getenv("CI") != "" {
		return sh.RunV("golangci-lint", "run")
	}

	return sh.RunV("golangci-lint", "run", "--fix")
}

func CI() error {
	fmt.Println("Running CI pipeline...")

	if err := Clean(); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if err := Lint(); err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	if err := (Test{}).Coverage(); err != nil {
		return fmt.Errorf("unit tests with coverage failed: %w", err)
	}

	if err := (Test{}).Integration(); err != nil {
		return fmt.Errorf("integration tests failed: %w", err)
	}

	if err := (Build{}).Dev(); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Println("CI pipeline completed successfully!")
	return nil
}

// Clean removes all generated artifacts.
func Clean() error {
	fmt.Println("Cleaning all artifacts...")

	for _, dir := range []string{"coverage", "bin"} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}

	return sh.RunV("go", "clean", "-testcache")
}

// Default target runs unit tests.
func Default() error {
	return Test{}.Unit()
}
