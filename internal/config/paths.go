package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "wtm"

// UserConfigPath returns the user level config file. WTM_CONFIG overrides it.
func UserConfigPath() string {
	if envPath := os.Getenv("WTM_CONFIG"); envPath != "" {
		return envPath
	}
	dir := getUserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// DefaultLogPath returns where the operation log is written by default.
func DefaultLogPath() string {
	dir := getStateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "operations.log")
}

// getUserConfigDir returns the user's config directory based on platform
func getUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return getWindowsDir("APPDATA", "Roaming")
	case "darwin":
		return getMacOSDir()
	default:
		return getXDGDir("XDG_CONFIG_HOME", ".config")
	}
}

// getStateDir returns the directory for logs and other runtime state
func getStateDir() string {
	switch runtime.GOOS {
	case "windows":
		return getWindowsDir("LOCALAPPDATA", "Local")
	case "darwin":
		return getMacOSDir()
	default:
		return getXDGDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
	}
}

func getWindowsDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return filepath.Join(userProfile, "AppData", fallback, appName)
	}
	return ""
}

func getMacOSDir() string {
	if homeDir := getHomeDir(); homeDir != "" {
		return filepath.Join(homeDir, "Library", "Application Support", appName)
	}
	return ""
}

// getXDGDir follows the XDG Base Directory layout
func getXDGDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	if homeDir := getHomeDir(); homeDir != "" {
		return filepath.Join(homeDir, fallback, appName)
	}
	return ""
}

// getHomeDir returns the user's home directory
func getHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return userProfile
	}
	return ""
}
