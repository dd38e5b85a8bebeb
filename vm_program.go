package parlang

import (
	"fmt"
	"strings"
)

type AsmFormatToken int

const (
	AsmFormatToken_None AsmFormatToken = iota
	AsmFormatToken_Comment
	AsmFormatToken_Index
	AsmFormatToken_Operator
	AsmFormatToken_Operand
	AsmFormatToken_Literal
)

// asmPrinterTheme maps listing tokens to ASCII colors that fair well
// on both dark and light terminal settings
var asmPrinterTheme = map[AsmFormatToken]string{
	AsmFormatToken_None:     "\033[0m",
	AsmFormatToken_Comment:  "\033[1;38;5;245m",
	AsmFormatToken_Index:    "\033[1;38;5;240m",
	AsmFormatToken_Operator: "\033[1;38;5;111m",
	AsmFormatToken_Operand:  "\033[1;38;5;161m",
	AsmFormatToken_Literal:  "\033[1;38;5;228m",
}

// Program is the immutable unit the machine executes: an instruction
// vector and a table naming the productions that live inside it.
type Program struct {
	// code is the instruction vector executed by the machine
	code []Instruction

	// names maps the address of the first instruction of each
	// production to the name used to label the node captured by its
	// Return.  Addresses without a name yield nodes labeled with the
	// empty string.
	names map[int]string
}

func NewProgram(code []Instruction, names map[int]string) *Program {
	if names == nil {
		names = map[int]string{}
	}
	return &Program{code: code, names: names}
}

// Len returns how many instructions the program holds
func (p *Program) Len() int { return len(p.code) }

// Name returns the production name registered for the entry address
// addr, or the empty string when the production is nameless
func (p *Program) Name(addr int) string { return p.names[addr] }

// Match runs the program against input on a fresh machine
func (p *Program) Match(input string) (Value, int, error) {
	return NewMachine(p).Match(input)
}

func (p *Program) PrettyString() string {
	return p.prettyString(func(input string, _ AsmFormatToken) string {
		return input
	})
}

func (p *Program) HighlightPrettyString() string {
	return p.prettyString(func(input string, token AsmFormatToken) string {
		return asmPrinterTheme[token] + input + asmPrinterTheme[AsmFormatToken_None]
	})
}

func (p *Program) prettyString(format FormatFunc[AsmFormatToken]) string {
	var s strings.Builder

	writeName := func(name string) {
		s.WriteString(format(name, AsmFormatToken_Operator))
	}

	writeInt := func(n int) {
		s.WriteString(format(fmt.Sprintf(" %d", n), AsmFormatToken_Operand))
	}

	writeRune := func(r rune) {
		lit := fmt.Sprintf(" '%s'", escapeLiteral(string(r)))
		s.WriteString(format(lit, AsmFormatToken_Literal))
	}

	for addr, instruction := range p.code {
		if name, ok := p.names[addr]; ok {
			s.WriteString(format(fmt.Sprintf(";; %s\n", name), AsmFormatToken_Comment))
		}
		s.WriteString(format(fmt.Sprintf("%04d  ", addr), AsmFormatToken_Index))

		switch ii := instruction.(type) {
		case IChar:
			writeName(instruction.Name())
			writeRune(ii.Char)

		case IChoice:
			writeName(instruction.Name())
			writeInt(ii.Offset)

		case ICommit:
			writeName(instruction.Name())
			writeInt(ii.Offset)

		case ICommitB:
			writeName(instruction.Name())
			writeInt(ii.Offset)

		case IJump:
			writeName(instruction.Name())
			writeInt(ii.Addr)

		case ICall:
			writeName(instruction.Name())
			writeInt(ii.Offset)
			writeInt(ii.Precedence)

		case ICallB:
			writeName(instruction.Name())
			writeInt(ii.Offset)
			writeInt(ii.Precedence)

		default:
			writeName(instruction.Name())
		}
		s.WriteString("\n")
	}
	return s.String()
}
