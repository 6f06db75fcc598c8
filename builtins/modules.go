package builtins

import (
	"fmt"
	"math"
	"strings"
	"time"
)

func num(v any) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", v)
	}
	return f, nil
}

func str(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func unaryMath(name string, f func(float64) float64) *Export {
	return &Export{Name: name, Params: []string{"number"}, Result: "number", Fn: func(args []any) (any, error) {
		x, err := num(args[0])
		if err != nil {
			return nil, err
		}
		return f(x), nil
	}}
}

func binaryMath(name string, f func(float64, float64) float64) *Export {
	return &Export{Name: name, Params: []string{"number", "number"}, Result: "number", Fn: func(args []any) (any, error) {
		x, err := num(args[0])
		if err != nil {
			return nil, err
		}
		y, err := num(args[1])
		if err != nil {
			return nil, err
		}
		return f(x, y), nil
	}}
}

func unaryString(name string, result string, f func(string) any) *Export {
	return &Export{Name: name, Params: []string{"string"}, Result: result, Fn: func(args []any) (any, error) {
		s, err := str(args[0])
		if err != nil {
			return nil, err
		}
		return f(s), nil
	}}
}

var startTime = time.Now()

// maxRepeatBytes caps the length of a string built by repeat.
const maxRepeatBytes = 1 << 30

func init() {
	Register(&Module{Name: "math", Exports: []*Export{
		unaryMath("abs", math.Abs),
		unaryMath("floor", math.Floor),
		unaryMath("ceil", math.Ceil),
		unaryMath("sqrt", math.Sqrt),
		binaryMath("max", math.Max),
		binaryMath("min", math.Min),
		binaryMath("pow", math.Pow),
	}})

	Register(&Module{Name: "strings", Exports: []*Export{
		unaryString("upper", "string", func(s string) any { return strings.ToUpper(s) }),
		unaryString("lower", "string", func(s string) any { return strings.ToLower(s) }),
		unaryString("trim", "string", func(s string) any { return strings.TrimSpace(s) }),
		unaryString("len", "number", func(s string) any { return float64(len([]rune(s))) }),
		{Name: "repeat", Params: []string{"string", "number"}, Result: "string", Fn: func(args []any) (any, error) {
			s, err := str(args[0])
			if err != nil {
				return nil, err
			}
			n, err := num(args[1])
			if err != nil {
				return nil, err
			}
			if n < 0 || n != math.Trunc(n) || math.IsInf(n, 0) {
				return nil, fmt.Errorf("repeat count must be a non-negative integer, got %v", n)
			}
			if s == "" {
				return "", nil
			}
			if n > float64(maxRepeatBytes/len(s)) {
				return nil, fmt.Errorf("repeat count %v is too large", n)
			}
			return strings.Repeat(s, int(n)), nil
		}},
	}})

	Register(&Module{Name: "time", Exports: []*Export{
		{Name: "millis", Result: "number", Fn: func([]any) (any, error) {
			return float64(time.Since(startTime).Milliseconds()), nil
		}},
	}})
}
