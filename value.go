package parlang

import (
	"fmt"
	"strconv"
	"strings"
)

type FormatToken int

const (
	FormatToken_None FormatToken = iota
	FormatToken_Name
	FormatToken_Literal
	FormatToken_Error
)

var treePrinterTheme = map[FormatToken]string{
	FormatToken_None:    "\033[0m",          // reset
	FormatToken_Name:    "\033[1;38;5;245m", // gray
	FormatToken_Literal: "\033[1;38;5;228m", // yellow
	FormatToken_Error:   "\033[1;38;5;127m", // pink
}

// Value is a tagged sum over the artifacts the parsing machine builds
// while matching input.  Values are constructed by the machine and
// never mutated after construction.
type Value interface {
	Type() string
	String() string
	Accept(ValueVisitor) error
}

type ValueVisitor interface {
	VisitChr(n *Chr) error
	VisitStr(n *Str) error
	VisitNode(n *Node) error
	VisitList(n *List) error
	VisitError(n *Error) error
}

// Chr Value

type Chr struct {
	Value rune
}

func NewChr(r rune) *Chr { return &Chr{Value: r} }

func (n Chr) Type() string                 { return "chr" }
func (n Chr) String() string               { return string(n.Value) }
func (n *Chr) Accept(v ValueVisitor) error { return v.VisitChr(n) }

// Str Value

type Str struct {
	Value string
}

func NewStr(s string) *Str { return &Str{Value: s} }

func (n Str) Type() string                 { return "str" }
func (n Str) String() string               { return n.Value }
func (n *Str) Accept(v ValueVisitor) error { return v.VisitStr(n) }

// Node Value

type Node struct {
	Name     string
	Children []Value
}

func NewNode(name string, children []Value) *Node {
	return &Node{Name: name, Children: children}
}

func (n Node) Type() string                 { return "node" }
func (n *Node) Accept(v ValueVisitor) error { return v.VisitNode(n) }

func (n Node) String() string {
	var s strings.Builder
	s.WriteString(n.Name)
	s.WriteString("[")
	for _, child := range n.Children {
		s.WriteString(child.String())
	}
	s.WriteString("]")
	return s.String()
}

// List Value

type List struct {
	Items []Value
}

func NewList(items []Value) *List { return &List{Items: items} }

func (n List) Type() string                 { return "list" }
func (n *List) Accept(v ValueVisitor) error { return v.VisitList(n) }

func (n List) String() string {
	var s strings.Builder
	s.WriteString("[")
	for _, item := range n.Items {
		s.WriteString(item.String())
	}
	s.WriteString("]")
	return s.String()
}

// Error Value

type Error struct {
	Label   string
	Message string
}

func NewErrorValue(label, message string) *Error {
	return &Error{Label: label, Message: message}
}

func (n Error) Type() string                 { return "error" }
func (n *Error) Accept(v ValueVisitor) error { return v.VisitError(n) }

func (n Error) String() string {
	if n.Message == "" {
		return fmt.Sprintf("Error[%s]", n.Label)
	}
	return fmt.Sprintf("Error[%s: %s]", n.Label, n.Message)
}

// ---- Tree Printer ----

func PrettyString(value Value) string {
	tp := NewTreePrinter(func(input string, _ FormatToken) string {
		return input
	})
	value.Accept(tp)
	return tp.output.String()
}

func HighlightPrettyString(value Value) string {
	tp := NewTreePrinter(func(input string, token FormatToken) string {
		return treePrinterTheme[token] + input + treePrinterTheme[FormatToken_None]
	})
	value.Accept(tp)
	return tp.output.String()
}

type TreePrinter struct {
	*treePrinter[FormatToken]
}

func NewTreePrinter(format FormatFunc[FormatToken]) *TreePrinter {
	return &TreePrinter{treePrinter: newTreePrinter(format)}
}

func (v *TreePrinter) VisitChr(n *Chr) error {
	v.write(v.format(strconv.Quote(string(n.Value)), FormatToken_Literal))
	return nil
}

func (v *TreePrinter) VisitStr(n *Str) error {
	v.write(v.format(strconv.Quote(n.Value), FormatToken_Literal))
	return nil
}

func (v *TreePrinter) VisitNode(n *Node) error {
	name := n.Name
	if name == "" {
		name = "?"
	}
	v.write(v.format(name, FormatToken_Name))
	v.visitChildren(n.Children)
	return nil
}

func (v *TreePrinter) VisitList(n *List) error {
	v.write(v.format(fmt.Sprintf("List<%d>", len(n.Items)), FormatToken_Name))
	v.visitChildren(n.Items)
	return nil
}

func (v *TreePrinter) VisitError(n *Error) error {
	v.write(v.format(fmt.Sprintf("Error<%s>", n.Label), FormatToken_Error))
	if n.Message != "" {
		v.write(v.format(": "+n.Message, FormatToken_Error))
	}
	return nil
}

func (v *TreePrinter) visitChildren(children []Value) {
	for i, child := range children {
		v.write("\n")
		switch {
		case i == len(children)-1:
			v.pwrite("└── ")
			v.indent("    ")
			child.Accept(v)
			v.unindent()
		default:
			v.pwrite("├── ")
			v.indent("│   ")
			child.Accept(v)
			v.unindent()
		}
	}
}
