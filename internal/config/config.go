// Package config loads bfgo project settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"martianoff/bfgo/internal/policy"
)

// DefaultFileName is looked up next to the source file when no config path is given.
const DefaultFileName = "bfgo.yaml"

// File mirrors bfgo.yaml. Pointer fields distinguish "unset" from zero values
// so a file only overrides what it names.
type File struct {
	MemorySize    *int                  `yaml:"memory_size,omitempty"`
	CellSize      *policy.CellSize      `yaml:"cell_size,omitempty"`
	PointerSafety *policy.PointerSafety `yaml:"pointer_safety,omitempty"`
	Overflow      *policy.Overflow      `yaml:"overflow,omitempty"`
	EOF           *policy.EOF           `yaml:"eof,omitempty"`
	FixedInput    *string               `yaml:"fixed_input,omitempty"`
	Compress      *bool                 `yaml:"compress,omitempty"`
	Lenient       *bool                 `yaml:"lenient,omitempty"`
	Format        *bool                 `yaml:"format,omitempty"`
	Git           *bool                 `yaml:"git,omitempty"`
}

// Settings is the resolved configuration of one bfgo invocation.
type Settings struct {
	Policies   policy.Policies
	FixedInput *string
	Compress   bool
	Lenient    bool
	Format     bool
	Git        bool
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Policies: policy.Default(),
		Compress: true,
	}
}

// Load reads and parses a config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses config file contents. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &f, nil
}

// Discover returns the config file that applies to sourcePath: explicit
// when set, otherwise bfgo.yaml in the source directory if it exists.
// An empty result means no file applies.
func Discover(explicit, sourcePath string) string {
	if explicit != "" {
		return explicit
	}
	candidate := filepath.Join(filepath.Dir(sourcePath), DefaultFileName)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return ""
}

// Apply overlays the fields set in f onto s.
func (f *File) Apply(s *Settings) {
	if f == nil {
		return
	}
	if f.MemorySize != nil {
		s.Policies.MemorySize = *f.MemorySize
	}
	if f.CellSize != nil {
		s.Policies.CellSize = *f.CellSize
	}
	if f.PointerSafety != nil {
		s.Policies.PointerSafety = *f.PointerSafety
	}
	if f.Overflow != nil {
		s.Policies.Overflow = *f.Overflow
	}
	if f.EOF != nil {
		s.Policies.EOF = *f.EOF
	}
	if f.FixedInput != nil {
		v := *f.FixedInput
		s.FixedInput = &v
	}
	if f.Compress != nil {
		s.Compress = *f.Compress
	}
	if f.Lenient != nil {
		s.Lenient = *f.Lenient
	}
	if f.Format != nil {
		s.Format = *f.Format
	}
	if f.Git != nil {
		s.Git = *f.Git
	}
}

// Validate checks the resolved settings.
func (s Settings) Validate() error {
	if err := s.Policies.Validate(); err != nil {
		return err
	}
	if s.FixedInput != nil {
		if err := policy.CheckASCII([]byte(*s.FixedInput)); err != nil {
			return fmt.Errorf("fixed input: %w", err)
		}
	}
	return nil
}
