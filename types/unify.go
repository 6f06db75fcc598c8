package types

import (
	"errors"
	"fmt"
)

// ErrRecursiveUnification is returned when binding a variable would build an
// infinite type.
var ErrRecursiveUnification = errors.New("recursive unification")

// MismatchError reports two operators that cannot be made equal.
type MismatchError struct {
	Left, Right   string // operator names
	LeftType      string // full rendering of each side
	RightType     string
	ArityMismatch bool
}

func (e *MismatchError) Error() string {
	if e.ArityMismatch {
		return fmt.Sprintf("type mismatch: %s has a different arity than %s", e.LeftType, e.RightType)
	}
	return fmt.Sprintf("type mismatch: %s != %s", e.LeftType, e.RightType)
}

// isWildcard reports operators that unify with anything: any for host
// builtins and never for expressions that already failed.
func (a *Arena) isWildcard(t TypeID) bool {
	name := a.OpName(t)
	return name == Any || name == Never
}

// Unify makes t1 and t2 equal by binding variables in place.
func (a *Arena) Unify(t1, t2 TypeID) error {
	x, y := a.Prune(t1), a.Prune(t2)
	if x == y {
		return nil
	}
	switch {
	case a.IsVar(x):
		if a.OccursIn(x, y) {
			return fmt.Errorf("%w: %s occurs in %s", ErrRecursiveUnification, a.String(x), a.String(y))
		}
		a.bind(x, y)
		return nil
	case a.IsVar(y):
		return a.Unify(y, x)
	case a.isWildcard(x) || a.isWildcard(y):
		return nil
	}

	xargs, yargs := a.Args(x), a.Args(y)
	if a.OpName(x) != a.OpName(y) || len(xargs) != len(yargs) {
		return &MismatchError{
			Left:          a.OpName(x),
			Right:         a.OpName(y),
			LeftType:      a.String(x),
			RightType:     a.String(y),
			ArityMismatch: a.OpName(x) == a.OpName(y),
		}
	}
	for i := range xargs {
		if err := a.Unify(xargs[i], yargs[i]); err != nil {
			return err
		}
	}
	return nil
}
