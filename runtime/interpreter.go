package runtime

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/panyam/blang/decl"
)

// Hooks observe evaluation. Visit runs before every statement and
// expression is evaluated and may block; EnterCall and ExitCall bracket every
// call.
type Hooks interface {
	Visit(node Node, env *Env[Value])
	EnterCall(name string)
	ExitCall()
}

// Interpreter is a tree walking evaluator. Top level declarations live in
// the global environment next to the host builtins.
type Interpreter struct {
	globals *Env[Value]
	locals  map[decl.Expr]int
	hooks   Hooks
	frames  CallStack
	out     io.Writer
}

// NewInterpreter creates an interpreter whose print writes to out (stdout
// when nil).
func NewInterpreter(out io.Writer) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	i := &Interpreter{globals: decl.NewEnv[Value](nil), out: out}
	i.globals.Set("print", &PrintFunction{})
	i.globals.Set("import", &ImportFunction{})
	i.globals.Set("clock", clockFunction())
	return i
}

func (i *Interpreter) Globals() *Env[Value] { return i.globals }

// SetLocals installs the lexical distances computed by the resolver. Without
// them every name is looked up along the environment chain.
func (i *Interpreter) SetLocals(locals map[decl.Expr]int) { i.locals = locals }

func (i *Interpreter) SetHooks(h Hooks) { i.hooks = h }

// Frames returns the active calls, innermost first.
func (i *Interpreter) Frames() []Frame { return i.frames.Snapshot() }

// Interpret runs every declaration of the program and returns the value of
// the last one. The first runtime error stops evaluation; it is logged and
// returned.
func (i *Interpreter) Interpret(program *Program) (result Value, err error) {
	for _, d := range program.Declarations {
		var returned bool
		result, returned, err = i.Eval(d, i.globals)
		if err != nil {
			Error("%v", err)
			return nil, err
		}
		if returned {
			break
		}
	}
	return
}

// The main Eval loop of an expression/statement. returned is only set by a
// return statement and is propagated until the enclosing call.
func (i *Interpreter) Eval(node Node, env *Env[Value]) (result Value, returned bool, err error) {
	if i.hooks != nil {
		i.hooks.Visit(node, env)
	}
	switch n := node.(type) {
	// --- Statement Nodes ---
	case *BlockStmt:
		return i.execBlock(n.Statements, env.Push())
	case *LetDecl:
		return i.evalLetDecl(n, env)
	case *FuncDecl:
		fn := &Function{Decl: n, Closure: env}
		env.Set(n.Name.Lexeme, fn)
		return fn, false, nil
	case *ClassDecl:
		return i.evalClassDecl(n, env)
	case *ExprStmt:
		return i.Eval(n.Expression, env)
	case *ReturnStmt:
		return i.evalReturnStmt(n, env)
	case *IfStmt:
		return i.evalIfStmt(n, env)

	// --- Expression Nodes ---
	case *LiteralExpr:
		return n.Value, false, nil
	case *GroupingExpr:
		return i.Eval(n.Expression, env)
	case *VariableExpr:
		result, err = i.lookUp(n.Name, n, env)
	case *AssignExpr:
		result, err = i.evalAssignExpr(n, env)
	case *BinaryExpr:
		result, err = i.evalBinaryExpr(n, env)
	case *CallExpr:
		result, err = i.evalCallExpr(n, env)
	case *CaseExpr:
		result, err = i.evalCaseExpr(n, env)
	default:
		err = fmt.Errorf("%w: %T", ErrNotImplemented, node)
	}
	return
}

// execBlock runs stmts in env, stopping at the first return.
func (i *Interpreter) execBlock(stmts []Stmt, env *Env[Value]) (result Value, returned bool, err error) {
	for _, stmt := range stmts {
		result, returned, err = i.Eval(stmt, env)
		if err != nil || returned {
			return
		}
	}
	return
}

// evalExpr evaluates an expression, dropping the returned flag.
func (i *Interpreter) evalExpr(expr Expr, env *Env[Value]) (Value, error) {
	v, _, err := i.Eval(expr, env)
	return v, err
}

func (i *Interpreter) evalLetDecl(n *LetDecl, env *Env[Value]) (Value, bool, error) {
	var value Value
	if n.Initializer != nil {
		var err error
		if value, err = i.evalExpr(n.Initializer, env); err != nil {
			return nil, false, err
		}
	}
	env.Set(n.Name.Lexeme, value)
	return value, false, nil
}

func (i *Interpreter) evalClassDecl(n *ClassDecl, env *Env[Value]) (Value, bool, error) {
	class := &ClassValue{Name: n.Name.Lexeme, Methods: map[string]*Function{}}
	for _, m := range n.Methods {
		class.Methods[m.Name.Lexeme] = &Function{Decl: m, Closure: env}
	}
	env.Set(n.Name.Lexeme, class)
	return class, false, nil
}

func (i *Interpreter) evalReturnStmt(n *ReturnStmt, env *Env[Value]) (Value, bool, error) {
	if n.Value == nil {
		return nil, true, nil
	}
	v, err := i.evalExpr(n.Value, env)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (i *Interpreter) evalIfStmt(n *IfStmt, env *Env[Value]) (Value, bool, error) {
	cond, err := i.evalExpr(n.Condition, env)
	if err != nil {
		return nil, false, err
	}
	if IsTruthy(cond) {
		return i.Eval(n.Then, env)
	}
	if n.Else != nil {
		return i.Eval(n.Else, env)
	}
	return nil, false, nil
}

func (i *Interpreter) lookUp(name *Token, expr Expr, env *Env[Value]) (Value, error) {
	var v Value
	var found bool
	if i.locals == nil {
		v, found = env.Get(name.Lexeme)
	} else if distance, ok := i.locals[expr]; ok {
		v, found = env.GetAt(distance, name.Lexeme)
	} else {
		v, found = i.globals.Get(name.Lexeme)
	}
	if !found {
		return nil, runtimeErrorf(name, ErrNotFound, "Undefined variable '%s'.", name.Lexeme)
	}
	return v, nil
}

func (i *Interpreter) evalAssignExpr(n *AssignExpr, env *Env[Value]) (Value, error) {
	value, err := i.evalExpr(n.Value, env)
	if err != nil {
		return nil, err
	}
	var ok bool
	if i.locals == nil {
		ok = env.Assign(n.Name.Lexeme, value)
	} else if distance, found := i.locals[n]; found {
		ok = env.AssignAt(distance, n.Name.Lexeme, value)
	} else {
		ok = i.globals.Assign(n.Name.Lexeme, value)
	}
	if !ok {
		return nil, runtimeErrorf(n.Name, ErrNotFound, "Undefined variable '%s'.", n.Name.Lexeme)
	}
	return value, nil
}

func (i *Interpreter) evalBinaryExpr(n *BinaryExpr, env *Env[Value]) (Value, error) {
	left, err := i.evalExpr(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(n.Right, env)
	if err != nil {
		return nil, err
	}

	if n.Operator.Kind == decl.PLUS {
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
	}
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		if n.Operator.Kind == decl.PLUS {
			return nil, runtimeErrorf(n.Operator, ErrUnsupportedType, "Operands must be two numbers or two strings.")
		}
		return nil, runtimeErrorf(n.Operator, ErrUnsupportedType, "Operands must be numbers.")
	}
	switch n.Operator.Kind {
	case decl.PLUS:
		return l + r, nil
	case decl.MINUS:
		return l - r, nil
	case decl.STAR:
		return l * r, nil
	case decl.SLASH:
		if r == 0 {
			return nil, runtimeErrorf(n.Operator, ErrDivisionByZero, "Division by zero.")
		}
		return l / r, nil
	}
	return nil, runtimeErrorf(n.Operator, ErrNotImplemented, "Unknown operator '%s'.", n.Operator.Lexeme)
}

func (i *Interpreter) evalCallExpr(n *CallExpr, env *Env[Value]) (Value, error) {
	callee, err := i.evalExpr(n.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(n.Arguments))
	for _, arg := range n.Arguments {
		v, err := i.evalExpr(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErrorf(n.Paren, ErrNotCallable, "Can only call functions, got %s.", TypeName(callee))
	}
	if !fn.AcceptsArity(len(args)) {
		return nil, runtimeErrorf(n.Paren, ErrArity, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return i.call(fn, args, n)
}

func (i *Interpreter) call(fn Callable, args []Value, site *CallExpr) (Value, error) {
	name := calleeName(fn)
	i.frames.Push(name, site.Pos().Line)
	defer i.frames.Pop()
	if i.hooks != nil {
		i.hooks.EnterCall(name)
		defer i.hooks.ExitCall()
	}

	result, err := fn.Call(i, args)
	if err != nil {
		var rte *RuntimeError
		if errors.As(err, &rte) {
			return nil, err
		}
		return nil, runtimeErrorf(site.Paren, err, "%s: %v", name, err)
	}
	return result, nil
}

func calleeName(fn Callable) string {
	switch f := fn.(type) {
	case *Function:
		return f.Name()
	case *NativeFunction:
		return f.Name
	case *PrintFunction:
		return "print"
	case *ImportFunction:
		return "import"
	}
	return fn.String()
}

func (i *Interpreter) evalCaseExpr(n *CaseExpr, env *Env[Value]) (Value, error) {
	subject, err := i.evalExpr(n.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		if !armMatches(arm, subject) {
			continue
		}
		return i.evalExpr(arm.Body, env)
	}
	return nil, nil
}

func armMatches(arm *decl.CaseArm, subject Value) bool {
	switch p := arm.Pattern.(type) {
	case *LiteralExpr:
		return ValuesEqual(p.Value, subject)
	case *VariableExpr:
		return p.IsWildcard()
	}
	return false
}
