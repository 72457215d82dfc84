// Package build packages a generated program as a standalone Go project.
package build

import (
	"io"
	"os"
	"time"
)

// GoDirective is the go version written to generated go.mod files. Generated
// code ranges over integers and calls the min/max builtins.
const GoDirective = "1.22"

// Config holds configuration for one packaging run.
type Config struct {
	// OutputDir is the project directory to create or update.
	OutputDir string

	// Format pipes main.go through the formatter before writing it.
	Format bool

	// Git initializes a repository in OutputDir and commits the project.
	Git bool

	// Build runs `go build` in OutputDir after writing the project.
	Build bool

	// Run runs `go run .` in OutputDir after writing the project.
	Run bool

	// GoTool is the go command used for Build and Run.
	// Defaults to "go".
	GoTool string

	// Stdin, Stdout and Stderr are attached to the go subprocesses.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Now stamps the README. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the default packaging configuration for outputDir.
func DefaultConfig(outputDir string) *Config {
	return &Config{
		OutputDir: outputDir,
		GoTool:    "go",
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Now:       time.Now,
	}
}

func (c *Config) goTool() string {
	if c.GoTool == "" {
		return "go"
	}
	return c.GoTool
}

func (c *Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
