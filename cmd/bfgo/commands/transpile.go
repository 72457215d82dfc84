package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"martianoff/bfgo/internal/bf"
	"martianoff/bfgo/internal/build"
	"martianoff/bfgo/internal/transpiler"
	"martianoff/bfgo/internal/transpiler/formatter"
	"martianoff/bfgo/internal/transpiler/generator"
)

var (
	transpileFlags   = newPolicyFlags()
	transpileFormat  bool
	transpileDumpAST string
	transpileGit     bool
	transpileBuild   bool
	transpileRun     bool
)

var transpileCmd = &cobra.Command{
	Use:   "transpile <input.bf> <output-dir>",
	Short: "Transpile a Brainfuck program into a Go project",
	Long: `Transpile a Brainfuck program into a standalone Go project.

The output directory receives go.mod, README.md, a copy of the source and
main.go holding the generated program.

Examples:
  bfgo transpile hello.bf hello                # Write the project to ./hello
  bfgo transpile hello.bf hello -f --git       # Format main.go and commit
  bfgo transpile hello.bf hello -d ast.json    # Also dump the segment tree
  bfgo transpile hello.bf hello -r             # Transpile and execute
  bfgo hello.bf                                # Shorthand, output to ./hello`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTranspile(cmd, args[0], args[1])
	},
}

func init() {
	registerTranspileFlags(transpileCmd)
}

func registerTranspileFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	transpileFlags.register(fs)
	fs.BoolVarP(&transpileFormat, "format", "f", false, "Pipe main.go through gofmt")
	fs.StringVarP(&transpileDumpAST, "dump-ast", "d", "", "Write the segment tree to a .json or .yaml file")
	fs.BoolVar(&transpileGit, "git", false, "Initialize a git repository in the output and commit")
	fs.BoolVarP(&transpileBuild, "build", "b", false, "Run go build in the output directory")
	fs.BoolVarP(&transpileRun, "run", "r", false, "Run the generated program with go run")
}

func runTranspile(cmd *cobra.Command, inputPath, outputDir string) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	settings, err := transpileFlags.resolve(cmd, inputPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		settings.Format = transpileFormat
	}
	if cmd.Flags().Changed("git") {
		settings.Git = transpileGit
	}
	logger := transpileFlags.logger()

	// Create transpiler pipeline
	p := transpiler.NewBrainfuckParser(parseOptions(settings, logger)...)
	g, err := generator.NewGoCodeGenerator(
		generator.Config{Policies: settings.Policies, FixedInput: settings.FixedInput},
		generator.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	t := transpiler.NewBrainfuckToGoTranspiler(p, g, logger)

	file, err := p.Parse(string(content))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", inputPath, err)
	}
	if transpileDumpAST != "" {
		if err := dumpAST(file, transpileDumpAST); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Segment tree saved to %s\n", transpileDumpAST)
	}

	goCode, err := t.Generate(file)
	if err != nil {
		return fmt.Errorf("transpilation failed: %w", err)
	}

	cfg := build.DefaultConfig(outputDir)
	cfg.Format = settings.Format
	cfg.Git = settings.Git
	cfg.Build = transpileBuild
	cfg.Run = transpileRun
	cfg.Stdout = cmd.OutOrStdout()
	cfg.Stderr = cmd.ErrOrStderr()

	var f transpiler.Formatter
	if cfg.Format {
		f = formatter.NewGofmt()
	}
	b, err := build.NewBuilder(cfg, f, logger)
	if err != nil {
		return err
	}

	res, err := b.Package(cmd.Context(), inputPath, string(content), goCode)
	if err != nil {
		return err
	}
	if !transpileRun {
		reportPackage(cmd, res)
	}
	return nil
}

func reportPackage(cmd *cobra.Command, res *build.Result) {
	out := cmd.OutOrStdout()
	if res.Unchanged {
		fmt.Fprintf(out, "%s is up to date\n", res.Main)
	} else {
		fmt.Fprintf(out, "Generated Go code saved to %s\n", res.Main)
	}
	if !res.Commit.IsZero() {
		fmt.Fprintf(out, "Committed %s\n", res.Commit.String()[:12])
	}
	if res.Binary != "" {
		fmt.Fprintf(out, "Built %s\n", res.Binary)
	}
}

// dumpAST writes the segment tree, choosing the encoding by file extension.
func dumpAST(file *bf.File, path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = bf.MarshalJSON(file)
	case ".yaml", ".yml":
		data, err = bf.MarshalYAML(file)
	default:
		return fmt.Errorf("dump-ast: unsupported extension %q (use .json or .yaml)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding segment tree: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// defaultOutputDir derives the shorthand output directory from the source name.
func defaultOutputDir(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

