package parlang

import (
	"strings"
)

type FormatFunc[T any] func(input string, token T) string

// treePrinter keeps the indentation state shared by the value and
// program pretty printers.
type treePrinter[T any] struct {
	padStr []string
	output *strings.Builder
	format FormatFunc[T]
}

func newTreePrinter[T any](format FormatFunc[T]) *treePrinter[T] {
	return &treePrinter[T]{
		output: &strings.Builder{},
		format: format,
	}
}

func (tp *treePrinter[T]) indent(s string) {
	tp.padStr = append(tp.padStr, s)
}

func (tp *treePrinter[T]) unindent() {
	tp.padStr = tp.padStr[:len(tp.padStr)-1]
}

func (tp *treePrinter[T]) write(s string) {
	tp.output.WriteString(s)
}

// pwrite writes the accumulated padding before the string itself
func (tp *treePrinter[T]) pwrite(s string) {
	for _, item := range tp.padStr {
		tp.write(item)
	}
	tp.write(s)
}

var literalSanitizer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	string('\n'), `\n`,
	string('\r'), `\r`,
	string('\t'), `\t`,
)

func escapeLiteral(s string) string {
	return literalSanitizer.Replace(s)
}
