package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"os/exec"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/errors"
)

// Command is one external tool invocation.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory; empty means the pipeline root.
	Dir string
}

// IsZero reports whether no command is configured.
func (c Command) IsZero() bool {
	return c.Path == ""
}

// Runner executes external tools on behalf of the pipeline. Tests
// substitute a recording implementation.
type Runner interface {
	Run(ctx context.Context, stage string, cmd Command) error
}

// execRunner shells out and surfaces the child's exit status unchanged.
type execRunner struct {
	rootDir string
	stdout  io.Writer
	stderr  io.Writer
	log     *zap.Logger
}

func (r *execRunner) Run(ctx context.Context, stage string, cmd Command) error {
	if cmd.IsZero() {
		return errors.New(errors.PhaseTool, errors.KindInvalidInput).
			Stage(stage).
			Detail("no command configured").
			Build()
	}

	dir := cmd.Dir
	if dir == "" {
		dir = r.rootDir
	}

	r.log.Debug("running tool",
		zap.String("stage", stage),
		zap.String("path", cmd.Path),
		zap.Strings("args", cmd.Args),
		zap.String("dir", dir))

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = dir
	c.Stdout = r.stdout
	c.Stderr = r.stderr

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return errors.Tool(stage, exitErr.ExitCode(), err)
	}
	return errors.Tool(stage, 0, err)
}
