package types

import (
	"fmt"
	"strings"
)

// TypeID addresses a cell in an Arena.
type TypeID int

// NoType marks an unbound variable's instance.
const NoType TypeID = -1

// Names of the built in operators.
const (
	Number   = "number"
	String   = "string"
	Boolean  = "boolean"
	Never    = "never"
	Any      = "any"
	FuncName = "->"
)

// cell is either a type variable (isVar) or a type operator.
type cell struct {
	isVar    bool
	instance TypeID // variables only; NoType while unbound
	name     string // operator name, or lazily assigned variable display name
	args     []TypeID
}

// Arena owns every type created during one checking session. Variables are
// bound destructively by setting their instance; Prune follows and
// compresses those links.
type Arena struct {
	cells    []cell
	nextName int
}

func NewArena() *Arena {
	return &Arena{}
}

// NewVar allocates a fresh unbound type variable.
func (a *Arena) NewVar() TypeID {
	a.cells = append(a.cells, cell{isVar: true, instance: NoType})
	return TypeID(len(a.cells) - 1)
}

// NewOp allocates a type operator.
func (a *Arena) NewOp(name string, args ...TypeID) TypeID {
	a.cells = append(a.cells, cell{name: name, args: args})
	return TypeID(len(a.cells) - 1)
}

// NewFunc builds the operator for (params...) -> result.
func (a *Arena) NewFunc(params []TypeID, result TypeID) TypeID {
	args := make([]TypeID, 0, len(params)+1)
	args = append(args, params...)
	args = append(args, result)
	return a.NewOp(FuncName, args...)
}

func (a *Arena) IsVar(t TypeID) bool { return a.cells[t].isVar }

// OpName returns the operator name of t, or "" for a variable.
func (a *Arena) OpName(t TypeID) string {
	if a.cells[t].isVar {
		return ""
	}
	return a.cells[t].name
}

func (a *Arena) Args(t TypeID) []TypeID {
	return a.cells[t].args
}

// Instance returns the binding of a variable (NoType when unbound or t is an operator).
func (a *Arena) Instance(t TypeID) TypeID {
	if !a.cells[t].isVar {
		return NoType
	}
	return a.cells[t].instance
}

// Prune returns the representative of t: the first cell along the instance
// chain that is an operator or an unbound variable. Every variable on the
// way is re-pointed at the representative.
func (a *Arena) Prune(t TypeID) TypeID {
	root := t
	for steps := 0; a.cells[root].isVar && a.cells[root].instance != NoType; steps++ {
		if steps > len(a.cells) {
			panic(fmt.Sprintf("types: instance cycle through cell %d", t))
		}
		root = a.cells[root].instance
	}
	for curr := t; curr != root; {
		next := a.cells[curr].instance
		a.cells[curr].instance = root
		curr = next
	}
	return root
}

// bind points the variable v at t.
func (a *Arena) bind(v, t TypeID) {
	a.cells[v].instance = t
}

// OccursIn reports whether variable v appears anywhere inside t.
func (a *Arena) OccursIn(v, t TypeID) bool {
	stack := []TypeID{t}
	for len(stack) > 0 {
		curr := a.Prune(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		if curr == v {
			return true
		}
		if !a.cells[curr].isVar {
			stack = append(stack, a.cells[curr].args...)
		}
	}
	return false
}

// varName lazily assigns a, b, ..., z, a1, b1, ...
func (a *Arena) varName(t TypeID) string {
	c := &a.cells[t]
	if c.name == "" {
		n := a.nextName
		a.nextName++
		c.name = string(rune('a' + n%26))
		if n >= 26 {
			c.name += fmt.Sprint(n / 26)
		}
	}
	return c.name
}

// String renders t after pruning.
func (a *Arena) String(t TypeID) string {
	t = a.Prune(t)
	c := a.cells[t]
	if c.isVar {
		return a.varName(t)
	}
	if c.name == FuncName {
		// params are named before the result so variables read left to right
		params := c.args[:len(c.args)-1]
		parts := make([]string, len(params))
		for i, p := range params {
			parts[i] = a.String(p)
		}
		result := a.String(c.args[len(c.args)-1])
		if len(params) == 1 && a.OpName(a.Prune(params[0])) != FuncName {
			return fmt.Sprintf("%s -> %s", parts[0], result)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), result)
	}
	if len(c.args) == 0 {
		return c.name
	}
	if len(c.args) == 2 {
		return fmt.Sprintf("(%s %s %s)", a.String(c.args[0]), c.name, a.String(c.args[1]))
	}
	parts := make([]string, len(c.args))
	for i, p := range c.args {
		parts[i] = a.String(p)
	}
	return fmt.Sprintf("%s[%s]", c.name, strings.Join(parts, ", "))
}

// Equal reports structural equality of two types after pruning. Distinct
// unbound variables are only equal to themselves.
func (a *Arena) Equal(x, y TypeID) bool {
	x, y = a.Prune(x), a.Prune(y)
	if x == y {
		return true
	}
	cx, cy := a.cells[x], a.cells[y]
	if cx.isVar || cy.isVar {
		return false
	}
	if cx.name != cy.name || len(cx.args) != len(cy.args) {
		return false
	}
	for i := range cx.args {
		if !a.Equal(cx.args[i], cy.args[i]) {
			return false
		}
	}
	return true
}
