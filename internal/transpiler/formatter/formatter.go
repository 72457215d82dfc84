// Package formatter pipes generated code through an external formatting tool.
package formatter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"martianoff/bfgo/bferr"
	"martianoff/bfgo/internal/transpiler"
)

// DefaultTool is the formatter used when none is configured.
const DefaultTool = "gofmt"

// Command runs an external formatter that reads source on stdin and writes the
// formatted source to stdout.
type Command struct {
	Tool string
	Args []string
}

// NewGofmt creates a Formatter backed by gofmt.
func NewGofmt() *Command {
	return &Command{Tool: DefaultTool}
}

// Format writes all of src to the tool's stdin, closes it, then reads all of
// stdout. A non-zero exit status is reported as a FormatError.
func (c *Command) Format(ctx context.Context, src []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Tool, c.Args...)
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, bferr.NewFormatError(c.Tool, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("running %s: %w", c.Tool, err)
	}
	return stdout.Bytes(), nil
}

var _ transpiler.Formatter = (*Command)(nil)
