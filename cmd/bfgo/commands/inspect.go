package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"martianoff/bfgo/internal/bf"
)

var (
	inspectFlags  = newPolicyFlags()
	inspectOutput string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.bf>",
	Short: "Show the structure of a Brainfuck program",
	Long: `Inspect parses a program and prints statistics about its segment tree.

Examples:
  bfgo inspect hello.bf             # Statistics table
  bfgo inspect hello.bf -o json     # Dump the segment tree as JSON
  bfgo inspect hello.bf -o yaml     # Dump the segment tree as YAML`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectFlags.register(inspectCmd.Flags())
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "table", "Output format: table, json or yaml")
}

func runInspect(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	settings, err := inspectFlags.resolve(cmd, args[0])
	if err != nil {
		return err
	}
	file, err := bf.Parse(string(content), parseOptions(settings, inspectFlags.logger())...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch inspectOutput {
	case "json":
		data, err := bf.MarshalJSON(file)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		data, err := bf.MarshalYAML(file)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "table":
		_, err = fmt.Fprintln(out, statsTable(bf.Collect(file)))
		return err
	}
	return fmt.Errorf("unknown output format %q", inspectOutput)
}

func statsTable(s bf.Stats) string {
	t := table.NewWriter()
	t.SetTitle("Program structure")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Tokens", s.Tokens},
		{"Instructions", s.Instructions},
		{"Executable segments", s.Executables},
		{"Loops", s.Loops},
		{"Empty loops", s.EmptyLoops},
		{"Max loop depth", s.MaxDepth},
		{"Needs input", s.NeedsInput},
	})
	t.AppendSeparator()
	for _, in := range bf.Instructions {
		if n := s.PerOp[in]; n > 0 {
			t.AppendRow(table.Row{in.String(), n})
		}
	}
	return t.Render()
}
