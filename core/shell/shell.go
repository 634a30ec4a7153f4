// Package shell implements the interactive read-eval loop: it reads one
// line at a time, resolves it into an execution plan and dispatches to a
// builtin or to the process orchestrator.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"

	"github.com/gush-shell/gush/core/config"
	"github.com/gush-shell/gush/core/history"
	"github.com/gush-shell/gush/core/parse"
	"github.com/gush-shell/gush/core/proc"
)

var promptDirColor = color.New(color.FgBlue, color.Bold)

type Shell struct {
	Config   *config.Configuration
	History  *history.Store
	Readline *readline.Instance

	// Streams inherited by builtins and spawned commands. New binds them
	// to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	done bool
}

// New creates a shell reading from the controlling terminal.
func New(cfg *config.Configuration, store *history.Store) (*Shell, error) {
	rlConfig := &readline.Config{
		Stdin:  readline.NewCancelableStdin(os.Stdin),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if err := rlConfig.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return nil, err
	}

	if os.Getenv(EnvPath) == "" && cfg.DefaultPath != "" {
		os.Setenv(EnvPath, cfg.DefaultPath)
	}

	return &Shell{
		Config:   cfg,
		History:  store,
		Readline: rl,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}, nil
}

const (
	EnvPath = "PATH"
	EnvUser = "USER"
)

// Prompt renders the configured prompt template.
func (s *Shell) Prompt() string {
	prompt := s.Config.Prompt
	if prompt == "" {
		prompt = config.DefaultPrompt
	}

	prompt = strings.ReplaceAll(prompt, `\u`, os.Getenv(EnvUser))
	if host, err := os.Hostname(); err == nil {
		prompt = strings.ReplaceAll(prompt, `\h`, host)
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "?"
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, promptDirColor.Sprint(pwd))

	if os.Geteuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads and evaluates lines until quit, end of input, or a fatal
// error. Command failures never end the loop.
func (s *Shell) Run(ctx context.Context) error {
	if banner := s.Config.Banner; banner != "" {
		fmt.Fprint(s.Stdout, banner)
		if !strings.HasSuffix(banner, "\n") {
			fmt.Fprintln(s.Stdout)
		}
	}

	for !s.done {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case errors.Is(err, io.EOF):
			return nil // Input closed, quit.

		case errors.Is(err, readline.ErrInterrupt):
			continue // Discard the line.

		case err != nil:
			return err
		}

		if err := s.Eval(ctx, line); err != nil {
			return err
		}
	}

	return nil
}

// Eval interprets one raw line: tokenize, resolve metacharacters, then
// dispatch to a builtin or spawn the planned processes. Diagnostics go to
// the shell's stderr; the returned error is non-nil only when the shell
// cannot safely continue.
func (s *Shell) Eval(ctx context.Context, line string) error {
	argv := parse.Tokenize(line)
	if len(argv) == 0 {
		return nil
	}

	plan, err := parse.Resolve(argv)
	if err != nil {
		fmt.Fprintf(s.Stderr, "gush: %v\n", err)
		s.record(line, 2)
		return nil
	}

	// Builtins are never part of a pipeline; inside one, a builtin name
	// resolves to the external command of the same name, if any.
	if !plan.Piped() {
		if len(plan.Argv) == 0 {
			return nil
		}
		if builtin, ok := AllBuiltins[plan.Argv[0]]; ok {
			s.record(line, builtin.Main(s, plan.Argv))
			return nil
		}
	}

	res, err := proc.Run(ctx, plan, proc.Streams{In: s.Stdin, Out: s.Stdout, Err: s.Stderr})
	if err != nil {
		fmt.Fprintf(s.Stderr, "gush: %v\n", err)

		var fatal *proc.FatalError
		if errors.As(err, &fatal) {
			return fatal
		}
	}
	s.record(line, res.ExitCode)

	return nil
}

func (s *Shell) record(line string, exitCode int) {
	if s.History == nil {
		return
	}
	if err := s.History.Append(line, exitCode); err != nil {
		fmt.Fprintf(s.Stderr, "gush: history: %v\n", err)
	}
}

func (s *Shell) Close() error {
	if s.Readline != nil {
		return s.Readline.Close()
	}
	return nil
}
