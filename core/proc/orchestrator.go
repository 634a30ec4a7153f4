// Package proc spawns the external processes a resolved plan calls for and
// waits for them to finish.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/gush-shell/gush/core/parse"
)

// Streams are the standard streams a spawned command inherits. They are
// scoped to a single Run call; the calling process's own streams are never
// rebound.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Result reports what became of the processes spawned for one line. The
// shell records exit codes but deliberately does not act on them.
type Result struct {
	// ExitCode is the exit code of the command, or of the right-hand
	// command on a piped line. 127 when the command could not be spawned.
	ExitCode int
}

// A FatalError means the shell cannot safely continue; every other error
// abandons only the current line.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Run executes the plan to completion and returns once every spawned child
// has been reaped. An empty plan is a no-op.
func Run(ctx context.Context, plan parse.Plan, streams Streams) (Result, error) {
	if plan.Piped() {
		return runPipe(ctx, plan.Left, plan.Right, streams)
	}
	if len(plan.Argv) == 0 {
		return Result{}, nil
	}
	return runSingle(ctx, plan, streams)
}

// runSingle spawns one command with the plan's redirections applied. Both
// target files are opened before the child starts; an open failure aborts
// the line without spawning, and the deferred closes release the handles on
// every path.
func runSingle(ctx context.Context, plan parse.Plan, streams Streams) (Result, error) {
	in, out := streams.In, streams.Out

	if plan.InputFile != "" {
		fd, err := os.Open(plan.InputFile)
		if err != nil {
			return Result{}, fmt.Errorf("failed to redirect input: %w", err)
		}
		defer fd.Close()
		in = fd
	}
	if plan.OutputFile != "" {
		fd, err := os.OpenFile(plan.OutputFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return Result{}, fmt.Errorf("failed to redirect output: %w", err)
		}
		defer fd.Close()
		out = fd
	}

	cmd := exec.CommandContext(ctx, plan.Argv[0], plan.Argv[1:]...)
	cmd.Stdin = in
	cmd.Stdout = out
	cmd.Stderr = streams.Err

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The child ran and failed; it already wrote its own
			// diagnostics.
			return Result{ExitCode: exitErr.ExitCode()}, nil
		}
		return Result{ExitCode: 127}, fmt.Errorf("%s: %w", plan.Argv[0], err)
	}

	return Result{}, nil
}

// runPipe spawns the left and right commands connected by a pipe. Both are
// started before either is waited on so they run concurrently; the parent
// closes its copies of the pipe ends as soon as both children hold theirs,
// otherwise the right child would never see end-of-input. Children are
// reaped left then right.
func runPipe(ctx context.Context, left, right []string, streams Streams) (Result, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return Result{}, &FatalError{Err: fmt.Errorf("pipe: %w", err)}
	}

	leftCmd := exec.CommandContext(ctx, left[0], left[1:]...)
	leftCmd.Stdin = streams.In
	leftCmd.Stdout = w
	leftCmd.Stderr = streams.Err

	rightCmd := exec.CommandContext(ctx, right[0], right[1:]...)
	rightCmd.Stdin = r
	rightCmd.Stdout = streams.Out
	rightCmd.Stderr = streams.Err

	if err := leftCmd.Start(); err != nil {
		r.Close()
		w.Close()
		return Result{ExitCode: 127}, fmt.Errorf("%s: %w", left[0], err)
	}

	rightErr := rightCmd.Start()
	r.Close()
	w.Close()

	if rightErr != nil {
		// The left child loses its reader and exits on its own; reap it
		// before reporting.
		_ = leftCmd.Wait()
		return Result{ExitCode: 127}, fmt.Errorf("%s: %w", right[0], rightErr)
	}

	_ = leftCmd.Wait()
	return Result{ExitCode: exitCode(rightCmd.Wait())}, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
