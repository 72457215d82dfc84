package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"martianoff/bfgo/internal/bf"
	"martianoff/bfgo/internal/config"
	"martianoff/bfgo/internal/logging"
	"martianoff/bfgo/internal/policy"
)

// policyFlags are the options shared by every command that parses or runs a program.
type policyFlags struct {
	configPath    string
	memorySize    int
	cellSize      policy.CellSize
	pointerSafety policy.PointerSafety
	overflow      policy.Overflow
	eof           policy.EOF
	fixedInput    string
	noCompress    bool
	lenient       bool
	verbose       bool
	logLevel      string
}

func newPolicyFlags() *policyFlags {
	def := policy.Default()
	return &policyFlags{
		memorySize:    def.MemorySize,
		cellSize:      def.CellSize,
		pointerSafety: def.PointerSafety,
		overflow:      def.Overflow,
		eof:           def.EOF,
		logLevel:      "warn",
	}
}

func (f *policyFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "Path to a bfgo.yaml config file (default: bfgo.yaml next to the source)")
	fs.IntVar(&f.memorySize, "memory-size", f.memorySize, "Number of memory cells")
	fs.Var(&f.cellSize, "cell-size", "Cell width in bits: 8, 16 or 32")
	fs.Var(&f.pointerSafety, "pointer-safety", "Pointer policy: wrap, clamp or none")
	fs.Var(&f.overflow, "overflow", "Cell overflow policy: wrap, abort or none")
	fs.Var(&f.eof, "eof", "Value stored on read at end of input: no-change or a byte")
	fs.StringVar(&f.fixedInput, "fixed-input", "", "ASCII input used instead of stdin")
	fs.BoolVar(&f.noCompress, "no-compress", false, "Tokenize one instruction per token")
	fs.BoolVar(&f.lenient, "lenient", false, "Structure unbalanced brackets instead of rejecting them")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Trace the pipeline on stderr (same as --log-level trace)")
	fs.StringVar(&f.logLevel, "log-level", f.logLevel, "Log level on stderr: trace, debug, info, warn or error")
}

// resolve merges defaults, the config file and the flags set on cmd, in
// that order of precedence.
func (f *policyFlags) resolve(cmd *cobra.Command, sourcePath string) (config.Settings, error) {
	s := config.Default()

	if path := config.Discover(f.configPath, sourcePath); path != "" {
		file, err := config.Load(path)
		if err != nil {
			return s, fmt.Errorf("loading config %s: %w", path, err)
		}
		file.Apply(&s)
	}

	fs := cmd.Flags()
	if fs.Changed("memory-size") {
		s.Policies.MemorySize = f.memorySize
	}
	if fs.Changed("cell-size") {
		s.Policies.CellSize = f.cellSize
	}
	if fs.Changed("pointer-safety") {
		s.Policies.PointerSafety = f.pointerSafety
	}
	if fs.Changed("overflow") {
		s.Policies.Overflow = f.overflow
	}
	if fs.Changed("eof") {
		s.Policies.EOF = f.eof
	}
	if fs.Changed("fixed-input") {
		v := f.fixedInput
		s.FixedInput = &v
	}
	if fs.Changed("no-compress") {
		s.Compress = !f.noCompress
	}
	if fs.Changed("lenient") {
		s.Lenient = f.lenient
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (f *policyFlags) logger() *slog.Logger {
	return logging.New(os.Stderr, f.level(), false)
}

func (f *policyFlags) level() slog.Level {
	if f.verbose {
		return logging.LevelTrace
	}
	return logging.ParseLevel(f.logLevel)
}

func parseOptions(s config.Settings, logger *slog.Logger) []bf.ParseOption {
	mode := bf.ModeRepeated
	if !s.Compress {
		mode = bf.ModeSingle
	}
	opts := []bf.ParseOption{bf.WithMode(mode), bf.WithLogger(logger)}
	if s.Lenient {
		opts = append(opts, bf.WithLenientBrackets())
	}
	return opts
}
