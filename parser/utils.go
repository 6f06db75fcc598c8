package parser

import "github.com/panyam/blang/decl"

// newLiteralExpr builds a literal node from a NUMBER, STRING, TRUE or FALSE
// token. The lexer has already decoded the literal value.
func newLiteralExpr(tok *decl.Token) *decl.LiteralExpr {
	return &decl.LiteralExpr{
		ExprBase: decl.ExprBase{NodeInfo: decl.NewNodeInfo(tok.Range)},
		Token:    tok,
		Value:    tok.Literal,
	}
}

func newVariableExpr(tok *decl.Token) *decl.VariableExpr {
	return &decl.VariableExpr{
		ExprBase: decl.ExprBase{NodeInfo: decl.NewNodeInfo(tok.Range)},
		Name:     tok,
	}
}
