package decl

import (
	"fmt"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Expr represents an expression node (evaluates to a value).
type Expr interface {
	Node
	exprNode() // Marker method for expressions
}

type ExprBase struct {
	NodeInfo
}

func (e *ExprBase) exprNode() {}

// --- Expressions ---

// LiteralExpr represents number, string and boolean literals.
type LiteralExpr struct {
	ExprBase
	Token *Token
	Value any // float64, string or bool
}

func (l *LiteralExpr) String() string { return FormatLiteral(l.Value) }
func (l *LiteralExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(l.String())
}

// FormatLiteral renders a literal value the way it would be written in source.
func FormatLiteral(v any) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "nil"
	}
	return fmt.Sprintf("%v", v)
}

// VariableExpr is a reference to a named binding.
type VariableExpr struct {
	ExprBase
	Name *Token
}

func (v *VariableExpr) String() string { return v.Name.Lexeme }
func (v *VariableExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(v.String())
}

// IsWildcard reports whether this is the `_` pattern.
func (v *VariableExpr) IsWildcard() bool { return v.Name.Lexeme == "_" }

// AssignExpr represents `name = value`
type AssignExpr struct {
	ExprBase
	Name  *Token
	Value Expr
}

func (a *AssignExpr) String() string { return fmt.Sprintf("(%s = %s)", a.Name.Lexeme, a.Value) }
func (a *AssignExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(a.String())
}

// BinaryExpr represents `left operator right`
type BinaryExpr struct {
	ExprBase
	Left     Expr
	Operator *Token // PLUS, MINUS, STAR, SLASH
	Right    Expr
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator.Lexeme, b.Right)
}
func (b *BinaryExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(b.String())
}

// CallExpr represents `callee(args...)`
type CallExpr struct {
	ExprBase
	Callee    Expr
	Paren     *Token // closing paren, used for error locations
	Arguments []Expr
}

func (c *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(gfn.Map(c.Arguments, func(e Expr) string { return e.String() }), ", "))
}
func (c *CallExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(c.String())
}

// GroupingExpr represents `( expression )`
type GroupingExpr struct {
	ExprBase
	Expression Expr
}

// String does not add a second pair of parens around expressions that
// already print their own.
func (g *GroupingExpr) String() string {
	switch g.Expression.(type) {
	case *BinaryExpr, *AssignExpr, *GroupingExpr:
		return g.Expression.String()
	}
	return fmt.Sprintf("(%s)", g.Expression)
}
func (g *GroupingExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(g.String())
}

// CaseArm is one `pattern -> body` alternative of a case expression.
// Pattern is either a *LiteralExpr or the `_` *VariableExpr.
type CaseArm struct {
	NodeInfo
	Pattern Expr
	Body    Expr
}

func (c *CaseArm) String() string { return fmt.Sprintf("%s -> %s", c.Pattern, c.Body) }
func (c *CaseArm) PrettyPrint(cp CodePrinter) {
	cp.Print(c.String())
}

// CaseExpr represents `case scrutinee { pattern -> expr, ... }`
type CaseExpr struct {
	ExprBase
	Keyword   *Token
	Scrutinee Expr
	Arms      []*CaseArm
}

func (c *CaseExpr) String() string {
	arms := gfn.Map(c.Arms, func(a *CaseArm) string { return a.String() })
	return fmt.Sprintf("case %s { %s }", c.Scrutinee, strings.Join(arms, ", "))
}
func (c *CaseExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(c.String())
}
