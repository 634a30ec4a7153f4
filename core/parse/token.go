package parse

import "strings"

// Tokenize splits a raw input line into whitespace-delimited arguments.
// Splitting happens on runs of spaces and newlines; no quoting is honored,
// a quote character is an ordinary character. An empty or all-whitespace
// line yields nil. No element of the result is empty.
func Tokenize(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\n'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
