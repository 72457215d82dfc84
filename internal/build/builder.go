package build

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing"

	"martianoff/bfgo/internal/logging"
	"martianoff/bfgo/internal/transpiler"
)

// Result describes a packaged project.
type Result struct {
	Dir    string
	Name   string
	Main   string
	Binary string // set when the project was built

	// Unchanged reports that main.go already matched the marker and was not rewritten.
	Unchanged bool

	// Commit is the git commit created for this run, zero when none was made.
	Commit plumbing.Hash
}

// Builder orchestrates the packaging process for generated programs.
type Builder struct {
	config    *Config
	workspace *Workspace
	formatter transpiler.Formatter
	logger    *slog.Logger
}

// NewBuilder creates a new builder for the configured output directory.
// formatter may be nil when Config.Format is off.
func NewBuilder(config *Config, formatter transpiler.Formatter, logger *slog.Logger) (*Builder, error) {
	if config.Format && formatter == nil {
		return nil, fmt.Errorf("formatting enabled without a formatter")
	}
	workspace, err := NewWorkspace(config.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Builder{
		config:    config,
		workspace: workspace,
		formatter: formatter,
		logger:    logger,
	}, nil
}

// Package writes the project for sourcePath, whose text is source and whose
// generated Go code is code, then optionally commits, builds or runs it.
func (b *Builder) Package(ctx context.Context, sourcePath, source, code string) (*Result, error) {
	w := b.workspace
	res := &Result{Dir: w.Dir, Name: w.Name, Main: w.Path(MainFile)}
	sourceName := filepath.Base(sourcePath)

	// Step 1: Ensure the project directory exists
	b.logger.Info("packaging project", "dir", w.Dir, "name", w.Name)
	if err := w.Ensure(); err != nil {
		return nil, err
	}

	// Step 2: go.mod, README and .gitignore
	if err := b.writeScaffold(sourceName, source); err != nil {
		return nil, err
	}

	// Step 3: Copy the source next to the generated code
	if err := w.WriteFile(sourceName, []byte(source)); err != nil {
		return nil, fmt.Errorf("copying source: %w", err)
	}

	// Step 4: main.go, formatted when requested
	mainCode := []byte(code)
	if b.config.Format {
		formatted, err := b.formatter.Format(ctx, mainCode)
		if err != nil {
			if werr := w.WriteFile(MainFile, mainCode); werr != nil {
				return nil, werr
			}
			return nil, fmt.Errorf("formatting %s: %w", MainFile, err)
		}
		mainCode = formatted
	}

	marker := Marker{Source: sourceName, SourceHash: HashBytes([]byte(source)), MainHash: HashBytes(mainCode)}
	unchanged, err := b.upToDate(marker)
	if err != nil {
		return nil, err
	}
	res.Unchanged = unchanged
	if unchanged {
		logging.Trace(b.logger, "main.go up to date, not rewriting", "hash", marker.MainHash)
	} else {
		if err := w.WriteFile(MainFile, mainCode); err != nil {
			return nil, err
		}
		// Step 5: Record what the project was generated from
		if err := w.WriteFile(MarkerFile, marker.Bytes()); err != nil {
			return nil, err
		}
	}

	// Step 6: Version the project
	if b.config.Git {
		hash, err := commitProject(w, fmt.Sprintf("Generate %s from %s", w.Name, sourceName), b.config.now())
		if err != nil {
			return nil, fmt.Errorf("git: %w", err)
		}
		res.Commit = hash
		b.logger.Info("committed project", "commit", hash.String())
	}

	// Step 7: Build or run with the go tool
	if b.config.Build {
		if err := b.goTool(ctx, "build", "-o", w.BinaryPath(), "."); err != nil {
			return nil, fmt.Errorf("go build: %w", err)
		}
		res.Binary = w.BinaryPath()
	}
	if b.config.Run {
		if err := b.goTool(ctx, "run", "."); err != nil {
			return nil, fmt.Errorf("go run: %w", err)
		}
	}

	return res, nil
}

// Workspace returns the builder's workspace.
func (b *Builder) Workspace() *Workspace {
	return b.workspace
}

func (b *Builder) writeScaffold(sourceName, source string) error {
	w := b.workspace
	goMod, err := renderGoMod(w.Name)
	if err != nil {
		return err
	}
	if err := w.WriteFile(GoModFile, goMod); err != nil {
		return err
	}

	// The README timestamp changes every run, so an unchanged project keeps its README.
	existing, err := w.ReadFile(MarkerFile)
	if err != nil {
		return err
	}
	if m, perr := ParseMarker(existing); existing == nil || perr != nil || m.SourceHash != HashBytes([]byte(source)) {
		readme, err := renderReadme(w.Name, sourceName, source, b.config.now())
		if err != nil {
			return err
		}
		if err := w.WriteFile(ReadmeFile, readme); err != nil {
			return err
		}
	}

	return w.WriteFile(IgnoreFile, []byte("/"+filepath.Base(w.BinaryPath())+"\n"))
}

// upToDate reports whether the marker on disk equals m and main.go still
// hashes to it.
func (b *Builder) upToDate(m Marker) (bool, error) {
	existing, err := b.workspace.ReadFile(MarkerFile)
	if err != nil || existing == nil {
		return false, err
	}
	if !bytes.Equal(existing, m.Bytes()) {
		return false, nil
	}
	current, err := b.workspace.ReadFile(MainFile)
	if err != nil || current == nil {
		return false, err
	}
	return HashBytes(current) == m.MainHash, nil
}

func (b *Builder) goTool(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, b.config.goTool(), args...)
	cmd.Dir = b.workspace.Dir
	cmd.Stdin = b.config.Stdin
	cmd.Stdout = b.config.Stdout
	cmd.Stderr = b.config.Stderr
	b.logger.Debug("running go tool", "args", args, "dir", cmd.Dir)
	return cmd.Run()
}
