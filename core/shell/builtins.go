package shell

import (
	"fmt"
	"os"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds every command the shell interprets in-process, without
// spawning a child.
var AllBuiltins = make(map[string]Builtin)

type Builtin interface {
	Main(s *Shell, args []string) int
}

type BuiltinFunc func(s *Shell, args []string) int

func (f BuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ Builtin = (BuiltinFunc)(nil)

// Cd is the cd shell builtin.
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		fmt.Fprintf(s.Stderr, "%s: missing operand\n", args[0])
		return 1
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(s.Stderr, "%s: %v\n", args[0], err)
			return 1
		}
	default:
		fmt.Fprintf(s.Stderr, "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

// Help prints the static usage summary.
func Help(s *Shell, args []string) int {
	w := s.Stdout
	fmt.Fprintln(w, "Type program names and arguments, and hit enter.")
	fmt.Fprintln(w, "The following are built in:")
	fmt.Fprintln(w, "  cd <dir>   change the working directory to <dir>")
	fmt.Fprintln(w, "  help       display this help message")
	fmt.Fprintln(w, "  history    display or clear saved command history")
	fmt.Fprintln(w, "  quit       exit the shell")
	fmt.Fprintln(w, "Supported features: piping (|) and redirection (<, >).")
	return 0
}

// Quit ends the read loop.
func Quit(s *Shell, args []string) int {
	s.done = true
	return 0
}

// History displays or clears the saved history list.
func History(s *Shell, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	count := opts.IntLong("lines", 'n', 20, "number of entries to show")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.Stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [-c] [-n N]")
		fmt.Fprintln(w, "Display or manipulate the saved history list.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 1
		}
		return 0
	}

	if s.History == nil {
		return 0
	}

	if *clear {
		if err := s.History.Clear(); err != nil {
			fmt.Fprintf(s.Stderr, "%s: %v\n", args[0], err)
			return 1
		}
		return 0
	}

	entries, err := s.History.Tail(*count)
	if err != nil {
		fmt.Fprintf(s.Stderr, "%s: %v\n", args[0], err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(s.Stdout, "% 5d  %s\n", e.ID, e.Line)
	}
	return 0
}

func init() {
	AllBuiltins["cd"] = BuiltinFunc(Cd)
	AllBuiltins["help"] = BuiltinFunc(Help)
	AllBuiltins["history"] = BuiltinFunc(History)
	AllBuiltins["quit"] = BuiltinFunc(Quit)
	AllBuiltins["exit"] = BuiltinFunc(Quit)
}
