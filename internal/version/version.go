package version

import "fmt"

// Version is the release version embedded in the binary.
// It can be overridden at build time via:
// go build -ldflags "-X github.com/oukeidos/guini/internal/version.Version=0.7.0"
var Version = "0.7.0"

// Commit is the git commit hash embedded in the binary.
var Commit = "unknown"

// BuildDate is the RFC3339 build timestamp embedded in the binary.
var BuildDate = "unknown"

// AppName is shown in window titles and CLI banners.
const AppName = "Guini"

// Info returns a multi-line version string for CLI output.
func Info() string {
	return fmt.Sprintf("guini %s\ncommit: %s\nbuild: %s", Version, Commit, BuildDate)
}

// Title returns the main window title, optionally suffixed with the loaded file name.
func Title(file string) string {
	if file == "" {
		return fmt.Sprintf("%s v%s", AppName, Version)
	}
	return fmt.Sprintf("%s v%s - %s", AppName, Version, file)
}
