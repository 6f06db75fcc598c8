package types

import "maps"

// TypeEnv maps names to types. It is a flat snapshot: extending copies the
// map so outer scopes never observe inner bindings.
type TypeEnv map[string]TypeID

// Extend returns a copy of e with name bound to t.
func (e TypeEnv) Extend(name string, t TypeID) TypeEnv {
	out := maps.Clone(e)
	if out == nil {
		out = TypeEnv{}
	}
	out[name] = t
	return out
}

// Copy returns an independent copy of e.
func (e TypeEnv) Copy() TypeEnv {
	out := maps.Clone(e)
	if out == nil {
		out = TypeEnv{}
	}
	return out
}

// nonGeneric is the set of type variables bound by enclosing function
// parameters; they are never freshened on lookup.
type nonGeneric []TypeID

func (n nonGeneric) with(ts ...TypeID) nonGeneric {
	out := make(nonGeneric, 0, len(n)+len(ts))
	out = append(out, n...)
	return append(out, ts...)
}

func (a *Arena) isGeneric(v TypeID, ng nonGeneric) bool {
	for _, t := range ng {
		if a.OccursIn(v, t) {
			return false
		}
	}
	return true
}

// Fresh copies t, replacing every generic variable with a new one. The same
// variable maps to the same copy throughout.
func (a *Arena) Fresh(t TypeID, ng nonGeneric) TypeID {
	mappings := map[TypeID]TypeID{}
	var freshen func(TypeID) TypeID
	freshen = func(t TypeID) TypeID {
		p := a.Prune(t)
		if a.IsVar(p) {
			if !a.isGeneric(p, ng) {
				return p
			}
			if m, ok := mappings[p]; ok {
				return m
			}
			m := a.NewVar()
			mappings[p] = m
			return m
		}
		args := a.Args(p)
		if len(args) == 0 {
			return p
		}
		copied := make([]TypeID, len(args))
		for i, arg := range args {
			copied[i] = freshen(arg)
		}
		return a.NewOp(a.OpName(p), copied...)
	}
	return freshen(t)
}
