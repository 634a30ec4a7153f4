// Package parse turns a raw input line into an execution plan: a token
// vector with redirection and pipe syntax recognized, validated and
// stripped.
package parse

import (
	"fmt"
	"strings"
)

// Metacharacters, recognized only as standalone tokens.
const (
	tokInput  = "<"
	tokOutput = ">"
	tokPipe   = "|"
)

// Plan is the resolved execution plan for one input line.
type Plan struct {
	// Argv is the command vector with redirection syntax stripped. Empty
	// when the line resolved to nothing runnable.
	Argv []string

	// InputFile and OutputFile are redirection targets, empty if absent.
	InputFile  string
	OutputFile string

	// Left and Right are the two halves of a piped line. They are set only
	// when a pipe token was present, in which case Argv, InputFile and
	// OutputFile are empty: a pipe takes precedence over redirection, and
	// any < or > tokens are passed through literally to the children.
	Left  []string
	Right []string
}

// Piped reports whether the plan runs two commands connected by a pipe.
func (p Plan) Piped() bool {
	return p.Left != nil || p.Right != nil
}

// SyntaxError reports malformed pipe or redirection syntax on a line.
type SyntaxError struct {
	// Token is the offending token, or "newline" when a redirection symbol
	// ended the line with no operand.
	Token string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error near unexpected token `%s'", e.Token)
}

// Resolve scans argv for metacharacter tokens and produces a Plan.
//
// Pipe detection runs first and short-circuits redirection entirely: on a
// piped line the redirection symbols are not interpreted at all, they ride
// along as literal arguments to the child commands. On a pipe-free line
// input redirection is extracted before output redirection, each scan
// honoring only the first occurrence of its symbol and operating on the
// vector as compacted by the previous scan.
func Resolve(argv []string) (Plan, error) {
	if i := pipeIndex(argv); i >= 0 {
		left, right := argv[:i], argv[i+1:]
		if len(left) == 0 || len(right) == 0 {
			return Plan{}, &SyntaxError{Token: tokPipe}
		}
		return Plan{Left: left, Right: right}, nil
	}

	argv, inputFile, err := extract(argv, tokInput)
	if err != nil {
		return Plan{}, err
	}
	argv, outputFile, err := extract(argv, tokOutput)
	if err != nil {
		return Plan{}, err
	}

	return Plan{Argv: argv, InputFile: inputFile, OutputFile: outputFile}, nil
}

func pipeIndex(argv []string) int {
	for i, tok := range argv {
		if tok == tokPipe {
			return i
		}
	}
	return -1
}

// extract removes the first occurrence of sym and its operand from argv,
// returning the compacted vector and the operand. Later occurrences of sym
// stay in place as ordinary arguments. The operand must exist and must not
// itself start a redirection.
func extract(argv []string, sym string) ([]string, string, error) {
	for i, tok := range argv {
		if tok != sym {
			continue
		}
		if i+1 >= len(argv) {
			return nil, "", &SyntaxError{Token: "newline"}
		}
		operand := argv[i+1]
		if strings.HasPrefix(operand, tokInput) || strings.HasPrefix(operand, tokOutput) {
			return nil, "", &SyntaxError{Token: operand}
		}
		return append(argv[:i:i], argv[i+2:]...), operand, nil
	}
	return argv, "", nil
}
