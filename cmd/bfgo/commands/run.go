package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"martianoff/bfgo/internal/interpreter"
)

var (
	runFlags = newPolicyFlags()
	runDebug bool
)

var runCmd = &cobra.Command{
	Use:   "run <file.bf> [input-file]",
	Short: "Interpret a Brainfuck program",
	Long: `Run interprets a Brainfuck program directly.

Input is read from input-file ("-" for stdin) or from --fixed-input. Without
either the program sees an empty input.

Examples:
  bfgo run hello.bf                 # Run with empty input
  bfgo run cat.bf notes.txt         # Feed a file as input
  echo hi | bfgo run cat.bf -       # Feed stdin
  bfgo run hello.bf --debug         # Step through the program`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRun,
}

func init() {
	runFlags.register(runCmd.Flags())
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "Open the stepping debugger")
}

func runRun(cmd *cobra.Command, args []string) error {
	codePath := args[0]
	code, err := os.ReadFile(codePath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	settings, err := runFlags.resolve(cmd, codePath)
	if err != nil {
		return err
	}

	var input []byte
	switch {
	case len(args) == 2 && args[1] == "-":
		input, err = io.ReadAll(cmd.InOrStdin())
	case len(args) == 2:
		input, err = os.ReadFile(args[1])
	case settings.FixedInput != nil:
		input = []byte(*settings.FixedInput)
	}
	if err != nil {
		return fmt.Errorf("reading program input: %w", err)
	}

	opts := []interpreter.Option{
		interpreter.WithPolicies(settings.Policies),
		interpreter.WithLogger(runFlags.logger()),
	}

	if runDebug {
		m, err := interpreter.New(string(code), input, io.Discard, opts...)
		if err != nil {
			return err
		}
		d := interpreter.NewTerminalDebugger(m, cmd.OutOrStdout(), terminalWidth())
		defer d.Close()
		return d.Run(cmd.Context())
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	m, err := interpreter.New(string(code), input, out, opts...)
	if err != nil {
		return err
	}
	return m.Run(cmd.Context())
}

// terminalWidth reads $COLUMNS, falling back to the debugger default.
func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 0
}
