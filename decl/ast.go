package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// --- Interfaces ---

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() Location // Starting position (for error reporting)
	End() Location // Ending position
	Range() Range
	String() string // String representation for debugging/printing
	PrettyPrint(cp CodePrinter)
}

// --- Base Struct ---

// NodeInfo embeddable struct for position tracking.
type NodeInfo struct{ StartPos, StopPos Location }

func (n *NodeInfo) Pos() Location  { return n.StartPos }
func (n *NodeInfo) End() Location  { return n.StopPos }
func (n *NodeInfo) Range() Range   { return Range{Start: n.StartPos, End: n.StopPos} }
func (n *NodeInfo) String() string { return "{Node}" }

func NewNodeInfo(r Range) NodeInfo {
	return NodeInfo{StartPos: r.Start, StopPos: r.End}
}

// Program is the ordered list of top level declarations of one source file.
type Program struct {
	Path         string
	Declarations []Stmt
}

func (p *Program) String() string {
	return strings.Join(gfn.Map(p.Declarations, func(s Stmt) string { return s.String() }), "\n")
}

// --- Declarations ---
// Declarations are statements that introduce a name into the enclosing scope.

// LetDecl represents `let name = initializer;`
type LetDecl struct {
	NodeInfo
	Name        *Token
	Initializer Expr // nil when declared without a value
}

func (l *LetDecl) stmtNode() {}
func (l *LetDecl) String() string {
	if l.Initializer == nil {
		return fmt.Sprintf("let %s;", l.Name.Lexeme)
	}
	return fmt.Sprintf("let %s = %s;", l.Name.Lexeme, l.Initializer)
}
func (l *LetDecl) PrettyPrint(cp CodePrinter) {
	cp.Println(l.String())
}

// FuncDecl represents `func name(params) { body }`
type FuncDecl struct {
	NodeInfo
	Name   *Token
	Params []*Token
	Body   []Stmt
}

func (f *FuncDecl) stmtNode() {}

func (f *FuncDecl) ParamNames() []string {
	return gfn.Map(f.Params, func(t *Token) string { return t.Lexeme })
}

func (f *FuncDecl) String() string {
	return fmt.Sprintf("func %s(%s) { ... }", f.Name.Lexeme, strings.Join(f.ParamNames(), ", "))
}

func (f *FuncDecl) PrettyPrint(cp CodePrinter) {
	cp.Printf("func %s(%s) {\n", f.Name.Lexeme, strings.Join(f.ParamNames(), ", "))
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, stmt := range f.Body {
			stmt.PrettyPrint(cp)
		}
	})
	cp.Println("}")
}

// ClassDecl represents `class Name { methods }`. Classes are parsed, resolved
// and typed but have no runtime behavior beyond binding their name.
type ClassDecl struct {
	NodeInfo
	Name    *Token
	Methods []*FuncDecl
}

func (c *ClassDecl) stmtNode() {}
func (c *ClassDecl) String() string {
	return fmt.Sprintf("class %s { %d methods }", c.Name.Lexeme, len(c.Methods))
}
func (c *ClassDecl) PrettyPrint(cp CodePrinter) {
	cp.Printf("class %s {\n", c.Name.Lexeme)
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, m := range c.Methods {
			m.PrettyPrint(cp)
		}
	})
	cp.Println("}")
}
