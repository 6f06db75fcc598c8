package decl

import (
	"fmt"
	"strings"
)

type CodePrinter interface {
	Indent(n int)
	Unindent(n int)
	Print(str string)
	Printf(fmt string, args ...any)
	Println(str string)
	String() string
}

func WithIndent(n int, cp CodePrinter, block func(cp CodePrinter)) {
	cp.Indent(n)
	defer cp.Unindent(n)
	block(cp)
}

type codePrinter struct {
	indent  int
	atStart bool
	builder strings.Builder
}

func (c *codePrinter) Indent(n int) {
	c.indent += n
}

func (c *codePrinter) Unindent(n int) {
	c.indent -= n
	if c.indent < 0 {
		c.indent = 0
	}
}

// Print writes str, prefixing every new line with the current indent.
func (c *codePrinter) Print(str string) {
	lines := strings.Split(str, "\n")
	for idx, l := range lines {
		if c.atStart && l != "" {
			c.builder.WriteString(strings.Repeat("  ", c.indent))
			c.atStart = false
		}
		c.builder.WriteString(l)
		if idx < len(lines)-1 {
			c.builder.WriteRune('\n')
			c.atStart = true
		}
	}
}

func (c *codePrinter) Println(str string) {
	c.Print(str + "\n")
}

func (c *codePrinter) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

func (c *codePrinter) String() string {
	return c.builder.String()
}

func NewCodePrinter() CodePrinter {
	return &codePrinter{atStart: true}
}

// Dump renders a program as indented source-like text.
func Dump(program *Program) string {
	cp := NewCodePrinter()
	for _, d := range program.Declarations {
		d.PrettyPrint(cp)
	}
	return cp.String()
}
