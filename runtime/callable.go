package runtime

import (
	"fmt"
	"time"

	"github.com/panyam/blang/builtins"
	"github.com/panyam/blang/decl"
)

// Callable is anything that can appear as the callee of a call expression.
type Callable interface {
	Arity() int
	// AcceptsArity reports whether n arguments are allowed.
	AcceptsArity(n int) bool
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user declared function closed over the environment it was
// declared in.
type Function struct {
	Decl    *decl.FuncDecl
	Closure *Env[Value]
}

func (f *Function) Name() string            { return f.Decl.Name.Lexeme }
func (f *Function) Arity() int              { return len(f.Decl.Params) }
func (f *Function) AcceptsArity(n int) bool { return n == f.Arity() }
func (f *Function) String() string          { return fmt.Sprintf("<fn %s>", f.Name()) }

func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := f.Closure.Push()
	for i, param := range f.Decl.Params {
		env.Set(param.Lexeme, args[i])
	}
	value, returned, err := in.execBlock(f.Decl.Body, env)
	if err != nil || !returned {
		return nil, err
	}
	return value, nil
}

// NativeFunction wraps a Go function with a fixed arity.
type NativeFunction struct {
	Name string
	Arg  int
	Fn   func(args []Value) (Value, error)
}

func (n *NativeFunction) Arity() int              { return n.Arg }
func (n *NativeFunction) AcceptsArity(c int) bool { return c == n.Arg }
func (n *NativeFunction) String() string          { return fmt.Sprintf("<native fn %s>", n.Name) }

func (n *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return n.Fn(args)
}

// PrintFunction is the variadic print builtin. It writes its arguments
// separated by spaces to the interpreter's output.
type PrintFunction struct{}

func (p *PrintFunction) Arity() int            { return -1 }
func (p *PrintFunction) AcceptsArity(int) bool { return true }
func (p *PrintFunction) String() string        { return "<native fn print>" }

func (p *PrintFunction) Call(in *Interpreter, args []Value) (Value, error) {
	_, err := fmt.Fprintln(in.out, FormatValues(args))
	return nil, err
}

// ImportFunction binds every export of a builtin module as a global.
type ImportFunction struct{}

func (i *ImportFunction) Arity() int              { return 1 }
func (i *ImportFunction) AcceptsArity(n int) bool { return n == 1 }
func (i *ImportFunction) String() string          { return "<native fn import>" }

func (i *ImportFunction) Call(in *Interpreter, args []Value) (Value, error) {
	name, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: import expects a module name, got %s", ErrUnsupportedType, TypeName(args[0]))
	}
	mod, err := builtins.Lookup(name)
	if err != nil {
		return nil, err
	}
	for _, exp := range mod.Exports {
		in.globals.Set(exp.Name, exportFunction(exp))
	}
	Debug("imported module %s (%d exports)", name, len(mod.Exports))
	return nil, nil
}

func exportFunction(exp *builtins.Export) *NativeFunction {
	return &NativeFunction{
		Name: exp.Name,
		Arg:  exp.Arity(),
		Fn:   func(args []Value) (Value, error) { return exp.Fn(args) },
	}
}

var startTime = time.Now()

func clockFunction() *NativeFunction {
	return &NativeFunction{Name: "clock", Fn: func([]Value) (Value, error) {
		return time.Since(startTime).Seconds(), nil
	}}
}
