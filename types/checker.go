package types

import (
	"errors"
	"fmt"

	"github.com/panyam/blang/builtins"
	"github.com/panyam/blang/decl"
)

// Checker infers a type for every expression with destructive unification.
// Errors are collected per top level declaration; a failed declaration
// types as never and checking moves on.
type Checker struct {
	arena     *Arena
	globals   TypeEnv
	nodeTypes map[decl.Node]TypeID
	returns   []TypeID // result variable of each enclosing function

	number, str, boolean, never, any TypeID

	Errors []*decl.TypeCheckError
}

func NewChecker() *Checker {
	a := NewArena()
	c := &Checker{
		arena:     a,
		nodeTypes: map[decl.Node]TypeID{},
		number:    a.NewOp(Number),
		str:       a.NewOp(String),
		boolean:   a.NewOp(Boolean),
		never:     a.NewOp(Never),
		any:       a.NewOp(Any),
	}
	c.globals = TypeEnv{
		"print":  c.any,
		"import": c.any,
		"clock":  a.NewFunc(nil, c.number),
	}
	return c
}

// Arena exposes the type store, mainly for rendering.
func (c *Checker) Arena() *Arena { return c.arena }

// Declare binds a global name ahead of checking.
func (c *Checker) Declare(name string, t TypeID) {
	c.globals[name] = t
}

// DeclareModule adds the exports of a builtin module to the global type
// environment.
func (c *Checker) DeclareModule(name string) error {
	m, err := builtins.Lookup(name)
	if err != nil {
		return err
	}
	for _, exp := range m.Exports {
		params := make([]TypeID, len(exp.Params))
		for i, p := range exp.Params {
			params[i] = c.atomic(p)
		}
		c.globals[exp.Name] = c.arena.NewFunc(params, c.atomic(exp.Result))
	}
	return nil
}

func (c *Checker) atomic(name string) TypeID {
	switch name {
	case Number:
		return c.number
	case String:
		return c.str
	case Boolean:
		return c.boolean
	case Never:
		return c.never
	}
	return c.any
}

// TypeOf returns the inferred type of a node and whether one was recorded.
func (c *Checker) TypeOf(n decl.Node) (TypeID, bool) {
	t, ok := c.nodeTypes[n]
	return t, ok
}

// TypeString renders the inferred type of a node, or "" if unknown.
func (c *Checker) TypeString(n decl.Node) string {
	if t, ok := c.nodeTypes[n]; ok {
		return c.arena.String(t)
	}
	return ""
}

// Validate checks every top level declaration and returns the rendering of
// each declaration's type, in order.
func (c *Checker) Validate(program *decl.Program) (out []string) {
	env := c.globals
	for _, d := range program.Declarations {
		t, next, err := c.analyzeStmt(d, env, nil)
		if err != nil {
			c.report(err)
			t = c.never
			next = c.bindFailed(d, env)
		}
		env = next
		out = append(out, c.arena.String(t))
	}
	c.globals = env
	return
}

// bindFailed binds the name introduced by a failed declaration to never so
// later uses do not report it as undefined.
func (c *Checker) bindFailed(d decl.Stmt, env TypeEnv) TypeEnv {
	switch s := d.(type) {
	case *decl.LetDecl:
		return env.Extend(s.Name.Lexeme, c.never)
	case *decl.FuncDecl:
		return env.Extend(s.Name.Lexeme, c.never)
	case *decl.ClassDecl:
		return env.Extend(s.Name.Lexeme, c.never)
	}
	return env
}

func (c *Checker) report(err error) {
	var tce *decl.TypeCheckError
	if errors.As(err, &tce) {
		c.Errors = append(c.Errors, tce)
		return
	}
	c.Errors = append(c.Errors, &decl.TypeCheckError{Message: err.Error()})
}

func (c *Checker) record(n decl.Node, t TypeID) TypeID {
	c.nodeTypes[n] = t
	return t
}

// fail wraps a unification failure with a message built for the context it
// happened in.
func (c *Checker) fail(n decl.Node, tok *decl.Token, err error, format string, args ...any) error {
	r := n.Range()
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, ErrRecursiveUnification) {
		msg = fmt.Sprintf("%s (%v)", msg, err)
	}
	return &decl.TypeCheckError{Message: msg, Token: tok, Range: &r}
}

// --- Statements ---

func (c *Checker) analyzeStmts(stmts []decl.Stmt, env TypeEnv, ng nonGeneric) (TypeID, TypeEnv) {
	last, failed := c.any, false
	for _, s := range stmts {
		t, next, err := c.analyzeStmt(s, env, ng)
		if err != nil {
			c.report(err)
			failed = true
			next = c.bindFailed(s, env)
		}
		env = next
		last = t
	}
	if failed {
		return c.never, env
	}
	return last, env
}

func (c *Checker) analyzeStmt(stmt decl.Stmt, env TypeEnv, ng nonGeneric) (TypeID, TypeEnv, error) {
	switch s := stmt.(type) {
	case *decl.ExprStmt:
		t, err := c.analyze(s.Expression, env, ng)
		if err != nil {
			return c.never, env, err
		}
		return c.record(s, t), env, nil

	case *decl.LetDecl:
		var t TypeID
		if s.Initializer == nil {
			t = c.arena.NewVar()
		} else {
			var err error
			if t, err = c.analyze(s.Initializer, env, ng); err != nil {
				return c.never, env, err
			}
		}
		return c.record(s, t), env.Extend(s.Name.Lexeme, t), nil

	case *decl.FuncDecl:
		t, err := c.analyzeFunc(s, env, ng)
		if err != nil {
			return c.never, env, err
		}
		return t, env.Extend(s.Name.Lexeme, t), nil

	case *decl.ClassDecl:
		t := c.record(s, c.arena.NewOp(s.Name.Lexeme))
		inner := env.Extend(s.Name.Lexeme, t)
		for _, m := range s.Methods {
			if _, err := c.analyzeFunc(m, inner, ng); err != nil {
				c.report(err)
			}
		}
		return t, inner, nil

	case *decl.BlockStmt:
		t, _ := c.analyzeStmts(s.Statements, env.Copy(), ng)
		return c.record(s, t), env, nil

	case *decl.ReturnStmt:
		t := c.any
		if s.Value != nil {
			var err error
			if t, err = c.analyze(s.Value, env, ng); err != nil {
				return c.never, env, err
			}
		}
		if n := len(c.returns); n > 0 {
			expected := c.returns[n-1]
			if err := c.arena.Unify(expected, t); err != nil {
				return c.never, env, c.fail(s, s.Keyword, err, "return type mismatch: %s and %s",
					c.arena.String(expected), c.arena.String(t))
			}
		}
		return c.record(s, t), env, nil

	case *decl.IfStmt:
		cond, err := c.analyze(s.Condition, env, ng)
		if err != nil {
			return c.never, env, err
		}
		if err := c.arena.Unify(c.boolean, cond); err != nil {
			return c.never, env, c.fail(s.Condition, s.Keyword, err, "if condition must be %s, got %s", Boolean, c.arena.String(cond))
		}
		t, _, _ := c.analyzeStmt(s.Then, env, ng)
		if s.Else != nil {
			if _, _, err := c.analyzeStmt(s.Else, env, ng); err != nil {
				return c.never, env, err
			}
		}
		return c.record(s, t), env, nil
	}
	return c.never, env, fmt.Errorf("type inference not implemented for %T", stmt)
}

// analyzeFunc types a function declaration. The name is bound to a
// non-generic variable inside the body so recursive calls unify with the
// final signature.
func (c *Checker) analyzeFunc(fn *decl.FuncDecl, env TypeEnv, ng nonGeneric) (TypeID, error) {
	self := c.arena.NewVar()
	params := make([]TypeID, len(fn.Params))
	inner := env.Extend(fn.Name.Lexeme, self)
	for i, p := range fn.Params {
		params[i] = c.arena.NewVar()
		inner = inner.Extend(p.Lexeme, params[i])
	}
	result := c.arena.NewVar()
	innerNG := ng.with(params...).with(self)

	c.returns = append(c.returns, result)
	c.analyzeStmts(fn.Body, inner, innerNG)
	c.returns = c.returns[:len(c.returns)-1]

	t := c.arena.NewFunc(params, result)
	if err := c.arena.Unify(self, t); err != nil {
		return c.never, c.fail(fn, fn.Name, err, "recursive use of '%s' does not match its signature %s", fn.Name.Lexeme, c.arena.String(t))
	}
	return c.record(fn, t), nil
}

// --- Expressions ---

func (c *Checker) analyze(expr decl.Expr, env TypeEnv, ng nonGeneric) (TypeID, error) {
	switch e := expr.(type) {
	case *decl.LiteralExpr:
		return c.record(e, c.literalType(e)), nil

	case *decl.VariableExpr:
		t, ok := env[e.Name.Lexeme]
		if !ok {
			r := e.Range()
			return c.never, &decl.TypeCheckError{Message: fmt.Sprintf("undefined symbol '%s'", e.Name.Lexeme), Token: e.Name, Range: &r}
		}
		return c.record(e, c.arena.Fresh(t, ng)), nil

	case *decl.GroupingExpr:
		t, err := c.analyze(e.Expression, env, ng)
		if err != nil {
			return c.never, err
		}
		return c.record(e, t), nil

	case *decl.AssignExpr:
		target, ok := env[e.Name.Lexeme]
		if !ok {
			r := e.Range()
			return c.never, &decl.TypeCheckError{Message: fmt.Sprintf("undefined symbol '%s'", e.Name.Lexeme), Token: e.Name, Range: &r}
		}
		value, err := c.analyze(e.Value, env, ng)
		if err != nil {
			return c.never, err
		}
		if err := c.arena.Unify(target, value); err != nil {
			return c.never, c.fail(e, e.Name, err, "cannot assign %s to '%s' of type %s",
				c.arena.String(value), e.Name.Lexeme, c.arena.String(target))
		}
		return c.record(e, value), nil

	case *decl.BinaryExpr:
		left, err := c.analyze(e.Left, env, ng)
		if err != nil {
			return c.never, err
		}
		right, err := c.analyze(e.Right, env, ng)
		if err != nil {
			return c.never, err
		}
		if err := c.arena.Unify(left, right); err != nil {
			return c.never, c.binaryMismatch(e, err, left, right)
		}
		if e.Operator.Kind != decl.PLUS {
			if err := c.arena.Unify(c.number, left); err != nil {
				return c.never, c.binaryMismatch(e, err, left, c.number)
			}
		}
		return c.record(e, left), nil

	case *decl.CallExpr:
		return c.analyzeCall(e, env, ng)

	case *decl.CaseExpr:
		return c.analyzeCase(e, env, ng)
	}
	return c.never, fmt.Errorf("type inference not implemented for %T", expr)
}

func (c *Checker) binaryMismatch(e *decl.BinaryExpr, err error, left, right TypeID) error {
	var mm *MismatchError
	if errors.As(err, &mm) {
		return c.fail(e, e.Operator, err, "type mismatch for operator '%s': cannot apply to %s and %s",
			e.Operator.Lexeme, mm.Left, mm.Right)
	}
	return c.fail(e, e.Operator, err, "type mismatch for operator '%s': cannot apply to %s and %s",
		e.Operator.Lexeme, c.arena.String(left), c.arena.String(right))
}

func (c *Checker) literalType(e *decl.LiteralExpr) TypeID {
	switch e.Token.Kind {
	case decl.NUMBER:
		return c.number
	case decl.STRING:
		return c.str
	case decl.TRUE, decl.FALSE:
		return c.boolean
	}
	return c.any
}

func (c *Checker) analyzeCall(e *decl.CallExpr, env TypeEnv, ng nonGeneric) (TypeID, error) {
	callee, err := c.analyze(e.Callee, env, ng)
	if err != nil {
		return c.never, err
	}
	args := make([]TypeID, len(e.Arguments))
	for i, arg := range e.Arguments {
		if args[i], err = c.analyze(arg, env, ng); err != nil {
			return c.never, err
		}
	}
	if c.arena.OpName(c.arena.Prune(callee)) == Any {
		return c.record(e, c.any), nil
	}
	result := c.arena.NewVar()
	expected := c.arena.NewFunc(args, result)
	if err := c.arena.Unify(expected, callee); err != nil {
		return c.never, c.fail(e, e.Paren, err, "call argument mismatch calling %s: arguments are %s but callee is %s",
			e.Callee, c.arena.String(expected), c.arena.String(callee))
	}
	return c.record(e, result), nil
}

func (c *Checker) analyzeCase(e *decl.CaseExpr, env TypeEnv, ng nonGeneric) (TypeID, error) {
	subject, err := c.analyze(e.Scrutinee, env, ng)
	if err != nil {
		return c.never, err
	}
	result := c.arena.NewVar()
	for _, arm := range e.Arms {
		if lit, ok := arm.Pattern.(*decl.LiteralExpr); ok {
			pt := c.record(lit, c.literalType(lit))
			if err := c.arena.Unify(subject, pt); err != nil {
				return c.never, c.fail(arm, lit.Token, err, "case pattern of type %s does not match subject of type %s",
					c.arena.String(pt), c.arena.String(subject))
			}
		}
		body, err := c.analyze(arm.Body, env, ng)
		if err != nil {
			return c.never, err
		}
		if err := c.arena.Unify(result, body); err != nil {
			return c.never, c.fail(arm, e.Keyword, err, "case arms have different types: %s and %s",
				c.arena.String(result), c.arena.String(body))
		}
	}
	return c.record(e, result), nil
}
