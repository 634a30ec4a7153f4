//go:build unix

package proc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gush-shell/gush/core/parse"
)

func run(t *testing.T, plan parse.Plan) (Result, *bytes.Buffer, *bytes.Buffer, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	res, err := Run(context.Background(), plan, Streams{
		In:  strings.NewReader(""),
		Out: &out,
		Err: &errOut,
	})
	return res, &out, &errOut, err
}

func TestRunEmptyPlan(t *testing.T) {
	res, out, _, err := run(t, parse.Plan{})

	assert.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Empty(t, out.String())
}

func TestRunSingle(t *testing.T) {
	res, out, _, err := run(t, parse.Plan{Argv: []string{"echo", "hi"}})

	assert.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hi\n", out.String())
}

func TestRunOutputRedirection(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")

	_, out, _, err := run(t, parse.Plan{
		Argv:       []string{"echo", "hi"},
		OutputFile: target,
	})
	require.NoError(t, err)

	// The command's stdout lands in the file with nothing interleaved.
	contents, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(contents))
	assert.Empty(t, out.String())
}

func TestRunInputRedirection(t *testing.T) {
	source := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(source, []byte("a b c\n"), 0644))

	_, out, _, err := run(t, parse.Plan{
		Argv:      []string{"cat"},
		InputFile: source,
	})

	assert.NoError(t, err)
	assert.Equal(t, "a b c\n", out.String())
}

func TestRunInputRedirectionOpenFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	res, out, _, err := run(t, parse.Plan{
		Argv:      []string{"cat"},
		InputFile: missing,
	})

	assert.ErrorContains(t, err, "failed to redirect input")
	assert.Equal(t, Result{}, res)
	assert.Empty(t, out.String())
}

func TestRunOutputRedirectionOpenFailure(t *testing.T) {
	// A directory can't be opened for writing.
	_, _, _, err := run(t, parse.Plan{
		Argv:       []string{"echo", "hi"},
		OutputFile: t.TempDir(),
	})

	assert.ErrorContains(t, err, "failed to redirect output")
}

func TestRunPipe(t *testing.T) {
	res, out, _, err := run(t, parse.Plan{
		Left:  []string{"echo", "hi"},
		Right: []string{"wc", "-w"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "1", strings.TrimSpace(out.String()))
}

func TestRunPipePassesRedirectionTokensLiterally(t *testing.T) {
	_, out, _, err := run(t, parse.Plan{
		Left:  []string{"echo", "a", ">", "f"},
		Right: []string{"cat"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "a > f\n", out.String())
}

func TestRunCommandNotFound(t *testing.T) {
	res, _, _, err := run(t, parse.Plan{Argv: []string{"gush-no-such-command"}})

	assert.ErrorContains(t, err, "gush-no-such-command")
	assert.Equal(t, 127, res.ExitCode)

	var fatal *FatalError
	assert.False(t, errors.As(err, &fatal), "spawn failure must not be fatal")
}

func TestRunPipeCommandNotFound(t *testing.T) {
	res, _, _, err := run(t, parse.Plan{
		Left:  []string{"echo", "hi"},
		Right: []string{"gush-no-such-command"},
	})

	assert.Error(t, err)
	assert.Equal(t, 127, res.ExitCode)
}

func TestRunExitCodeSurfaced(t *testing.T) {
	res, _, _, err := run(t, parse.Plan{Argv: []string{"sh", "-c", "exit 3"}})

	assert.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunSequentialRunsAreIndependent(t *testing.T) {
	plan := parse.Plan{Argv: []string{"echo", "hi"}}

	for i := 0; i < 3; i++ {
		res, out, _, err := run(t, plan)
		assert.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "hi\n", out.String())
	}
}
