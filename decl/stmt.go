package decl

import (
	"fmt"
)

// --- Statements ---

// Stmt represents a statement node (performs an action, controls flow).
type Stmt interface {
	Node
	stmtNode() // Marker method for statements
}

// ExprStmt represents `expression;`
type ExprStmt struct {
	NodeInfo
	Expression Expr
}

func (e *ExprStmt) stmtNode()      {}
func (e *ExprStmt) String() string { return e.Expression.String() + ";" }
func (e *ExprStmt) PrettyPrint(cp CodePrinter) {
	cp.Println(e.String())
}

// ReturnStmt represents `return value;` where value may be absent.
type ReturnStmt struct {
	NodeInfo
	Keyword *Token
	Value   Expr
}

func (r *ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value)
}
func (r *ReturnStmt) PrettyPrint(cp CodePrinter) {
	cp.Println(r.String())
}

// BlockStmt represents a sequence of statements `{ stmt1; stmt2; ... }`
type BlockStmt struct {
	NodeInfo
	Statements []Stmt
}

func (b *BlockStmt) stmtNode()      {}
func (b *BlockStmt) String() string { return "{ ...statements... }" }
func (b *BlockStmt) PrettyPrint(cp CodePrinter) {
	cp.Println("{")
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, stmt := range b.Statements {
			stmt.PrettyPrint(cp)
		}
	})
	cp.Println("}")
}

// IfStmt represents `if cond { ... } else ...`
type IfStmt struct {
	NodeInfo
	Keyword   *Token
	Condition Expr
	Then      *BlockStmt
	Else      Stmt // *BlockStmt, *IfStmt or nil
}

func (i *IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	if i.Else == nil {
		return fmt.Sprintf("if %s { ... }", i.Condition)
	}
	return fmt.Sprintf("if %s { ... } else ...", i.Condition)
}

func (i *IfStmt) PrettyPrint(cp CodePrinter) {
	cp.Printf("if %s ", i.Condition)
	i.Then.PrettyPrint(cp)
	if i.Else != nil {
		cp.Print("else ")
		i.Else.PrettyPrint(cp)
	}
}
