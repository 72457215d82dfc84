// Package conformance runs YAML-described Brainfuck programs through the
// interpreter and through generated Go code and checks both against the
// expected output.
package conformance

import "martianoff/bfgo/internal/config"

// Suite represents a complete YAML test file
type Suite struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Config      *config.File `yaml:"config,omitempty"` // applies to every case
	Tests       []Case       `yaml:"tests"`
}

// Case represents a single program within a suite
type Case struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Skip        string       `yaml:"skip,omitempty"`
	Source      string       `yaml:"source"`
	Input       string       `yaml:"input,omitempty"`
	Config      *config.File `yaml:"config,omitempty"` // overrides the suite config
	Expect      Expectation  `yaml:"expect"`
}

// Expectation defines what a run must produce
type Expectation struct {
	Output string `yaml:"output,omitempty"` // exact stdout
	Bytes  []int  `yaml:"bytes,omitempty"`  // exact stdout, for unprintable output
	Error  string `yaml:"error,omitempty"`  // error category, e.g. RuntimeFault
}

// Want returns the expected output bytes.
func (e Expectation) Want() []byte {
	if e.Bytes != nil {
		out := make([]byte, len(e.Bytes))
		for i, b := range e.Bytes {
			out[i] = byte(b)
		}
		return out
	}
	return []byte(e.Output)
}
