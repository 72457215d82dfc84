// Package commands provides the CLI commands for the bfgo tool.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "bfgo [file.bf]",
	Short: "Brainfuck to Go compiler and interpreter",
	Long: `bfgo compiles Brainfuck programs into standalone Go projects.

This tool provides:
  - Transpilation of Brainfuck source to a Go project
  - A direct interpreter with a stepping debugger
  - Inspection of the structured program tree

Usage:
  bfgo [file.bf]                       Transpile to ./<name> (shorthand)
  bfgo transpile <file.bf> <dir>       Transpile explicitly
  bfgo run <file.bf> [input-file]      Interpret
  bfgo inspect <file.bf>               Show program statistics
  bfgo version                         Print version`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	// Run transpile by default if a .bf file is provided as argument
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		if len(args) == 1 && (strings.HasSuffix(args[0], ".bf") || strings.HasSuffix(args[0], ".b")) {
			return runTranspile(cmd, args[0], defaultOutputDir(args[0]))
		}
		return fmt.Errorf("unknown command %q for \"bfgo\"\nRun 'bfgo --help' for usage", args[0])
	},
}

// Execute runs the root command and exits the process. Cleanups registered
// with atexit, such as terminal restoration, run before exit.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func init() {
	rootCmd.AddCommand(transpileCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)

	// Mirror transpile flags for the shorthand form
	registerTranspileFlags(rootCmd)
}
