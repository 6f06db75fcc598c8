package resolver

import (
	"github.com/panyam/blang/decl"
)

// Importer receives the module names passed to `import("...")` so their
// exports can be declared ahead of type checking.
type Importer interface {
	DeclareModule(name string) error
}

// ImportBuiltin is the global name of the import bridge.
const ImportBuiltin = "import"

type scope map[string]bool // false = declared, true = defined

type functionKind int

const (
	functionNone functionKind = iota
	functionFunction
	functionMethod
)

// Resolver computes, for every variable read or assignment, how many scopes
// separate the use from its binding. Names not found in any tracked scope are
// left unresolved and looked up in the global environment at run time.
type Resolver struct {
	scopes          []scope
	currentFunction functionKind
	locals          map[decl.Expr]int
	importer        Importer

	Errors []*decl.ResolutionError
}

func NewResolver(importer Importer) *Resolver {
	return &Resolver{locals: make(map[decl.Expr]int), importer: importer}
}

// Locals returns the lexical distance recorded per expression.
func (r *Resolver) Locals() map[decl.Expr]int {
	return r.locals
}

// Resolve walks the program. The top level is itself a scope.
func (r *Resolver) Resolve(program *decl.Program) []*decl.ResolutionError {
	r.beginScope()
	r.resolveStmts(program.Declarations)
	r.endScope()
	return r.Errors
}

func (r *Resolver) errorf(tok *decl.Token, msg string) {
	r.Errors = append(r.Errors, &decl.ResolutionError{Token: tok, Message: msg})
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name *decl.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.scopes[len(r.scopes)-1]
	if _, exists := s[name.Lexeme]; exists {
		r.errorf(name, "Already a variable with this name in this scope.")
	}
	s[name.Lexeme] = false
}

func (r *Resolver) define(name *decl.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal records the distance from the innermost scope to the one
// binding name.
func (r *Resolver) resolveLocal(expr decl.Expr, name *decl.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveStmts(stmts []decl.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt decl.Stmt) {
	switch s := stmt.(type) {
	case *decl.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *decl.LetDecl:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *decl.FuncDecl:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionFunction)
	case *decl.ClassDecl:
		r.declare(s.Name)
		r.define(s.Name)
		for _, m := range s.Methods {
			r.resolveFunction(m, functionMethod)
		}
	case *decl.ExprStmt:
		r.resolveExpr(s.Expression)
	case *decl.ReturnStmt:
		if r.currentFunction == functionNone {
			r.errorf(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *decl.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	}
}

func (r *Resolver) resolveFunction(fn *decl.FuncDecl, kind functionKind) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(expr decl.Expr) {
	switch e := expr.(type) {
	case *decl.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.errorf(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *decl.AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *decl.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *decl.CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
		r.resolveImport(e)
	case *decl.GroupingExpr:
		r.resolveExpr(e.Expression)
	case *decl.CaseExpr:
		r.resolveExpr(e.Scrutinee)
		for _, arm := range e.Arms {
			r.resolveExpr(arm.Body)
		}
	case *decl.LiteralExpr:
	}
}

// resolveImport declares the exports of `import("name")` in the type
// environment. Failures are ignored; the call itself reports them at run time.
func (r *Resolver) resolveImport(call *decl.CallExpr) {
	if r.importer == nil || len(call.Arguments) != 1 {
		return
	}
	callee, ok := call.Callee.(*decl.VariableExpr)
	if !ok || callee.Name.Lexeme != ImportBuiltin {
		return
	}
	if _, shadowed := r.locals[callee]; shadowed {
		return
	}
	lit, ok := call.Arguments[0].(*decl.LiteralExpr)
	if !ok {
		return
	}
	if name, ok := lit.Value.(string); ok {
		_ = r.importer.DeclareModule(name)
	}
}
