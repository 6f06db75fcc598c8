package runtime

import (
	"fmt"
	"strings"

	"github.com/panyam/blang/decl"
)

// Value is any runtime value: nil, float64, string, bool, a Callable or a
// *ClassValue.
type Value = any

// ClassValue is what a class declaration binds. Classes carry their methods
// but cannot be instantiated.
type ClassValue struct {
	Name    string
	Methods map[string]*Function
}

func (c *ClassValue) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// Stringify renders a value the way print shows it.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case float64, bool:
		return decl.FormatLiteral(val)
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprintf("%v", v)
}

// TypeName is the user facing name of a value's type.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case Callable:
		return "function"
	case *ClassValue:
		return "class"
	}
	return fmt.Sprintf("%T", v)
}

// IsTruthy treats nil and false as false and everything else as true.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	}
	return true
}

// ValuesEqual compares two values; values of different types are never
// equal.
func ValuesEqual(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	return a == b
}

// FormatValues joins values with single spaces.
func FormatValues(vals []Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = Stringify(v)
	}
	return strings.Join(parts, " ")
}
