package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File names inside a generated project.
const (
	GoModFile   = "go.mod"
	ReadmeFile  = "README.md"
	MainFile    = "main.go"
	MarkerFile  = ".bfgo-project"
	IgnoreFile  = ".gitignore"
	defaultName = "bfprog"
)

// Workspace represents the directory layout of a generated project.
type Workspace struct {
	// Dir is the absolute path to the project directory.
	Dir string

	// Name is the module and binary name, derived from the directory name.
	Name string
}

// NewWorkspace creates a workspace for the given output directory.
func NewWorkspace(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving output path: %w", err)
	}
	return &Workspace{Dir: abs, Name: ModuleName(filepath.Base(abs))}, nil
}

// ModuleName turns a directory name into a valid module path element.
func ModuleName(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), ".-")
	if name == "" {
		return defaultName
	}
	return name
}

// Path returns the absolute path of a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Ensure creates the workspace directory.
func (w *Workspace) Ensure() error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", w.Dir, err)
	}
	return nil
}

// Exists returns true if the workspace directory exists.
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.Dir)
	return err == nil && info.IsDir()
}

// WriteFile writes a file into the workspace.
func (w *Workspace) WriteFile(name string, content []byte) error {
	if err := os.WriteFile(w.Path(name), content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// ReadFile reads a file from the workspace. A missing file yields nil content
// and no error.
func (w *Workspace) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(w.Path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

// Files returns the names of all regular files in the workspace, sorted.
func (w *Workspace) Files() ([]string, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// BinaryPath returns where `go build` places the project binary.
func (w *Workspace) BinaryPath() string {
	p := w.Path(w.Name)
	if isWindows() {
		p += ".exe"
	}
	return p
}

// isWindows returns true if running on Windows.
func isWindows() bool {
	return os.PathSeparator == '\\'
}
