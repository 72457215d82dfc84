package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"martianoff/bfgo/internal/config"
)

// Loaded represents a case with its suite and source file
type Loaded struct {
	File  string
	Suite *Suite
	Case  Case
}

// ID names the case for test output.
func (l Loaded) ID() string {
	return l.File + "/" + l.Case.Name
}

// Settings resolves the defaults, the suite config and the case config.
func (l Loaded) Settings() (config.Settings, error) {
	s := config.Default()
	l.Suite.Config.Apply(&s)
	l.Case.Config.Apply(&s)
	return s, s.Validate()
}

// LoadDir loads every .yaml suite below dir, ordered by path.
func LoadDir(dir string) ([]Loaded, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".yaml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var loaded []Loaded
	for _, path := range paths {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		cases, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		for i := range cases {
			cases[i].File = filepath.ToSlash(rel)
		}
		loaded = append(loaded, cases...)
	}
	return loaded, nil
}

// LoadFile parses a single YAML suite.
func LoadFile(path string) ([]Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, err
	}

	loaded := make([]Loaded, 0, len(suite.Tests))
	for _, c := range suite.Tests {
		if c.Name == "" {
			return nil, fmt.Errorf("suite %q: case without a name", suite.Name)
		}
		loaded = append(loaded, Loaded{File: filepath.Base(path), Suite: &suite, Case: c})
	}
	return loaded, nil
}
