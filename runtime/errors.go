package runtime

import (
	"errors"
	"fmt"

	"github.com/panyam/blang/decl"
)

var (
	ErrNotImplemented  = errors.New("evaluation for this node type not implemented")
	ErrNotFound        = errors.New("identifier not found")
	ErrNotCallable     = errors.New("value is not callable")
	ErrArity           = errors.New("wrong number of arguments")
	ErrUnsupportedType = errors.New("unsupported type for operation")
	ErrDivisionByZero  = errors.New("division by zero")
)

// runtimeErrorf builds a RuntimeError anchored at tok. cause may be nil.
func runtimeErrorf(tok *decl.Token, cause error, format string, args ...any) *decl.RuntimeError {
	return &decl.RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...), Cause: cause}
}
