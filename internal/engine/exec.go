package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// ExecEngine runs a compiled engine binary as "<path> <function> <args...>" and returns its stdout.
type ExecEngine struct {
	path string
	log  *slog.Logger
}

// NewExecEngine creates an engine backed by an external binary.
func NewExecEngine(path string, log *slog.Logger) *ExecEngine {
	return &ExecEngine{path: path, log: log}
}

// Invoke runs the binary once. Cancelling ctx kills the process.
func (e *ExecEngine) Invoke(ctx context.Context, function string, args []Arg) (string, error) {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, function)
	for _, arg := range args {
		argv = append(argv, arg.String())
	}

	e.log.DebugContext(ctx, "Starting engine process", "path", e.path, "function", function, "args", len(args))

	cmd := exec.CommandContext(ctx, e.path, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("engine process interrupted: %w", ctx.Err())
		}
		return "", fmt.Errorf("%w: engine process failed: %w: %s",
			ErrUnavailable, err, strings.TrimSpace(stderr.String()))
	}

	if stderr.Len() > 0 {
		e.log.DebugContext(ctx, "Engine process stderr", "stderr", stderr.String())
	}

	return stdout.String(), nil
}
