package parser

import (
	"fmt"
	"strings"

	"github.com/panyam/blang/decl"
	gfn "github.com/panyam/goutils/fn"
)

// MaxArgs caps both parameter and argument lists.
const MaxArgs = 255

// SourceLines lets the parser quote the offending line in some errors.
type SourceLines interface {
	GetLineOfSource(r decl.Range) string
}

// Parser is a recursive descent parser over a token slice. Errors are
// collected in Errors; after each one the parser skips to the next statement
// boundary and carries on.
type Parser struct {
	tokens  []*decl.Token
	current int
	source  SourceLines

	Errors []*decl.ParserError
}

func NewParser(tokens []*decl.Token, source SourceLines) *Parser {
	return &Parser{tokens: tokens, source: source}
}

// Parse parses declarations until end of input.
func (p *Parser) Parse() (*decl.Program, []*decl.ParserError) {
	program := &decl.Program{}
	if sr, ok := p.source.(Reader); ok {
		program.Path = sr.SrcPath()
	}
	for !p.atEnd() {
		if d := p.declaration(); d != nil {
			program.Declarations = append(program.Declarations, d)
		}
	}
	return program, p.Errors
}

// ParseSource lexes and parses src. A lexer error aborts; parse errors do not.
func ParseSource(path, src string) (*decl.Program, []*decl.ParserError, error) {
	reader := NewStringReader(path, src)
	tokens, err := NewLexer(reader).Tokenize()
	if err != nil {
		return nil, nil, err
	}
	program, errs := NewParser(tokens, reader).Parse()
	return program, errs, nil
}

// --- Token helpers ---

func (p *Parser) PeekToken() *decl.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() *decl.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) atEnd() bool {
	return p.PeekToken().Kind == decl.EOF
}

func (p *Parser) Advance() *decl.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind decl.TokenKind) bool {
	return p.PeekToken().Kind == kind
}

// match advances if the next token is one of kinds.
func (p *Parser) match(kinds ...decl.TokenKind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.Advance()
			return true
		}
	}
	return false
}

// Expect consumes a token of one of the given kinds or returns an error.
func (p *Parser) Expect(message string, kinds ...decl.TokenKind) (*decl.Token, error) {
	for _, k := range kinds {
		if p.check(k) {
			return p.Advance(), nil
		}
	}
	if message == "" {
		expected := gfn.Map(kinds, func(k decl.TokenKind) string { return k.String() })
		message = fmt.Sprintf("expected one of: [%s], found: %s", strings.Join(expected, ", "), p.PeekToken().Kind)
	}
	return nil, p.Errorf(p.PeekToken(), "%s", message)
}

func (p *Parser) Errorf(tok *decl.Token, format string, args ...any) *decl.ParserError {
	return &decl.ParserError{Message: fmt.Sprintf(format, args...), Token: tok}
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.Advance()
	for !p.atEnd() {
		if p.previous().Kind == decl.SEMI {
			return
		}
		switch p.PeekToken().Kind {
		case decl.FUNC, decl.LET, decl.CLASS, decl.IF, decl.RETURN:
			return
		case decl.IDENTIFIER:
			if p.PeekToken().Lexeme == "print" {
				return
			}
		}
		p.Advance()
	}
}

func spanOf(start *decl.Token, end *decl.Token) decl.NodeInfo {
	return decl.NewNodeInfo(decl.Range{Start: start.Range.Start, End: end.Range.End})
}

func spanNodes(start, end decl.Node) decl.NodeInfo {
	return decl.NewNodeInfo(decl.Range{Start: start.Pos(), End: end.End()})
}

// --- Declarations ---

func (p *Parser) declaration() decl.Stmt {
	var stmt decl.Stmt
	var err *decl.ParserError
	switch {
	case p.match(decl.FUNC):
		stmt, err = p.funcDecl(p.previous())
	case p.match(decl.LET):
		stmt, err = p.letDecl(p.previous())
	case p.match(decl.CLASS):
		stmt, err = p.classDecl(p.previous())
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		p.Errors = append(p.Errors, err)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) funcDecl(keyword *decl.Token) (*decl.FuncDecl, *decl.ParserError) {
	name, err := p.expect("expected function name", decl.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err = p.expect("expected '(' after function name", decl.LEFT_PAREN); err != nil {
		return nil, err
	}
	var params []*decl.Token
	if !p.check(decl.RIGHT_PAREN) {
		for {
			if len(params) >= MaxArgs {
				return nil, p.Errorf(p.PeekToken(), "can't have more than %d parameters", MaxArgs)
			}
			param, err := p.expect("expected parameter name", decl.IDENTIFIER)
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(decl.COMMA) {
				break
			}
		}
	}
	if _, err = p.expect("expected ')' after parameters", decl.RIGHT_PAREN); err != nil {
		return nil, err
	}
	if _, err = p.expect("expected '{' before function body", decl.LEFT_BRACE); err != nil {
		return nil, err
	}
	body, err := p.block(p.previous())
	if err != nil {
		return nil, err
	}
	return &decl.FuncDecl{
		NodeInfo: spanOf(keyword, p.previous()),
		Name:     name,
		Params:   params,
		Body:     body.Statements,
	}, nil
}

func (p *Parser) letDecl(keyword *decl.Token) (*decl.LetDecl, *decl.ParserError) {
	name, err := p.expect("expected variable name", decl.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	var init decl.Expr
	if p.match(decl.EQUAL) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err = p.expect("expected ';' after variable declaration", decl.SEMI); err != nil {
		return nil, err
	}
	return &decl.LetDecl{NodeInfo: spanOf(keyword, p.previous()), Name: name, Initializer: init}, nil
}

func (p *Parser) classDecl(keyword *decl.Token) (*decl.ClassDecl, *decl.ParserError) {
	name, err := p.expect("expected class name", decl.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err = p.expect("expected '{' before class body", decl.LEFT_BRACE); err != nil {
		return nil, err
	}
	out := &decl.ClassDecl{Name: name}
	for !p.check(decl.RIGHT_BRACE) && !p.atEnd() {
		fkw, err := p.expect("expected method declaration", decl.FUNC)
		if err != nil {
			return nil, err
		}
		method, err := p.funcDecl(fkw)
		if err != nil {
			return nil, err
		}
		out.Methods = append(out.Methods, method)
	}
	if _, err = p.expect("expected '}' after class body", decl.RIGHT_BRACE); err != nil {
		return nil, err
	}
	out.NodeInfo = spanOf(keyword, p.previous())
	return out, nil
}

// --- Statements ---

func (p *Parser) statement() (decl.Stmt, *decl.ParserError) {
	switch {
	case p.match(decl.LEFT_BRACE):
		return p.block(p.previous())
	case p.match(decl.RETURN):
		return p.returnStmt(p.previous())
	case p.match(decl.IF):
		return p.ifStmt(p.previous())
	}
	return p.exprStmt()
}

// block parses the declarations after an already consumed '{'.
func (p *Parser) block(lbrace *decl.Token) (*decl.BlockStmt, *decl.ParserError) {
	out := &decl.BlockStmt{}
	for !p.check(decl.RIGHT_BRACE) && !p.atEnd() {
		if d := p.declaration(); d != nil {
			out.Statements = append(out.Statements, d)
		}
	}
	if _, err := p.expect("expected '}' after block", decl.RIGHT_BRACE); err != nil {
		return nil, err
	}
	out.NodeInfo = spanOf(lbrace, p.previous())
	return out, nil
}

func (p *Parser) returnStmt(keyword *decl.Token) (*decl.ReturnStmt, *decl.ParserError) {
	var value decl.Expr
	var err *decl.ParserError
	if !p.check(decl.SEMI) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err = p.expect("expected ';' after return value", decl.SEMI); err != nil {
		return nil, err
	}
	return &decl.ReturnStmt{NodeInfo: spanOf(keyword, p.previous()), Keyword: keyword, Value: value}, nil
}

func (p *Parser) ifStmt(keyword *decl.Token) (*decl.IfStmt, *decl.ParserError) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	lbrace, err := p.expect("expected '{' after if condition", decl.LEFT_BRACE)
	if err != nil {
		return nil, err
	}
	then, err := p.block(lbrace)
	if err != nil {
		return nil, err
	}
	out := &decl.IfStmt{Keyword: keyword, Condition: cond, Then: then}
	if p.match(decl.ELSE) {
		if p.match(decl.IF) {
			if out.Else, err = p.ifStmt(p.previous()); err != nil {
				return nil, err
			}
		} else {
			lbrace, err := p.expect("expected '{' or 'if' after else", decl.LEFT_BRACE)
			if err != nil {
				return nil, err
			}
			if out.Else, err = p.block(lbrace); err != nil {
				return nil, err
			}
		}
	}
	out.NodeInfo = spanOf(keyword, p.previous())
	return out, nil
}

func (p *Parser) exprStmt() (*decl.ExprStmt, *decl.ParserError) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect("expected ';' after expression", decl.SEMI); err != nil {
		return nil, err
	}
	return &decl.ExprStmt{NodeInfo: decl.NewNodeInfo(decl.Range{Start: expr.Pos(), End: p.previous().Range.End}), Expression: expr}, nil
}

// --- Expressions ---

func (p *Parser) expression() (decl.Expr, *decl.ParserError) {
	return p.assignment()
}

func (p *Parser) assignment() (decl.Expr, *decl.ParserError) {
	expr, err := p.additive()
	if err != nil {
		return nil, err
	}
	if p.match(decl.EQUAL) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if v, ok := expr.(*decl.VariableExpr); ok {
			return &decl.AssignExpr{ExprBase: decl.ExprBase{NodeInfo: spanNodes(v, value)}, Name: v.Name, Value: value}, nil
		}
		msg := "invalid assignment target"
		if p.source != nil {
			msg = fmt.Sprintf("%s\n    %s", msg, p.source.GetLineOfSource(equals.Range))
		}
		return nil, p.Errorf(equals, "%s", msg)
	}
	return expr, nil
}

func (p *Parser) additive() (decl.Expr, *decl.ParserError) {
	return p.binary(p.factor, decl.PLUS, decl.MINUS)
}

func (p *Parser) factor() (decl.Expr, *decl.ParserError) {
	return p.binary(p.call, decl.STAR, decl.SLASH)
}

// binary parses a left associative chain of operand (op operand)*.
func (p *Parser) binary(operand func() (decl.Expr, *decl.ParserError), ops ...decl.TokenKind) (decl.Expr, *decl.ParserError) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &decl.BinaryExpr{ExprBase: decl.ExprBase{NodeInfo: spanNodes(expr, right)}, Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) call() (decl.Expr, *decl.ParserError) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(decl.LEFT_PAREN) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee decl.Expr) (decl.Expr, *decl.ParserError) {
	var args []decl.Expr
	if !p.check(decl.RIGHT_PAREN) {
		for {
			if len(args) >= MaxArgs {
				return nil, p.Errorf(p.PeekToken(), "can't have more than %d arguments", MaxArgs)
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(decl.COMMA) {
				break
			}
		}
	}
	paren, err := p.expect("expected ')' after arguments", decl.RIGHT_PAREN)
	if err != nil {
		return nil, err
	}
	return &decl.CallExpr{
		ExprBase:  decl.ExprBase{NodeInfo: decl.NewNodeInfo(decl.Range{Start: callee.Pos(), End: paren.Range.End})},
		Callee:    callee,
		Paren:     paren,
		Arguments: args,
	}, nil
}

func (p *Parser) primary() (decl.Expr, *decl.ParserError) {
	tok := p.PeekToken()
	switch tok.Kind {
	case decl.NUMBER, decl.STRING, decl.TRUE, decl.FALSE:
		p.Advance()
		return newLiteralExpr(tok), nil
	case decl.IDENTIFIER:
		p.Advance()
		return newVariableExpr(tok), nil
	case decl.LEFT_PAREN:
		p.Advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect("expected ')' after expression", decl.RIGHT_PAREN); err != nil {
			return nil, err
		}
		return &decl.GroupingExpr{ExprBase: decl.ExprBase{NodeInfo: spanOf(tok, p.previous())}, Expression: inner}, nil
	case decl.CASE:
		p.Advance()
		return p.caseExpr(tok)
	}
	return nil, p.Errorf(tok, "expected expression")
}

func (p *Parser) caseExpr(keyword *decl.Token) (decl.Expr, *decl.ParserError) {
	scrutinee, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect("expected '{' after case subject", decl.LEFT_BRACE); err != nil {
		return nil, err
	}
	out := &decl.CaseExpr{Keyword: keyword, Scrutinee: scrutinee}
	for !p.check(decl.RIGHT_BRACE) && !p.atEnd() {
		arm, err := p.caseArm()
		if err != nil {
			return nil, err
		}
		out.Arms = append(out.Arms, arm)
		if !p.match(decl.COMMA) {
			break
		}
	}
	if _, err = p.expect("expected '}' after case arms", decl.RIGHT_BRACE); err != nil {
		return nil, err
	}
	if len(out.Arms) == 0 {
		return nil, p.Errorf(keyword, "case expression needs at least one arm")
	}
	out.NodeInfo = spanOf(keyword, p.previous())
	return out, nil
}

func (p *Parser) caseArm() (*decl.CaseArm, *decl.ParserError) {
	tok := p.PeekToken()
	var pattern decl.Expr
	switch {
	case tok.Kind == decl.NUMBER || tok.Kind == decl.STRING || tok.Kind == decl.TRUE || tok.Kind == decl.FALSE:
		pattern = newLiteralExpr(tok)
	case tok.Kind == decl.IDENTIFIER && tok.Lexeme == "_":
		pattern = newVariableExpr(tok)
	default:
		return nil, p.Errorf(tok, "expected literal or '_' pattern")
	}
	p.Advance()
	if _, err := p.expect("expected '->' after pattern", decl.ARROW); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &decl.CaseArm{NodeInfo: spanNodes(pattern, body), Pattern: pattern, Body: body}, nil
}

// expect is Expect narrowed to the concrete error type used by the grammar.
func (p *Parser) expect(message string, kinds ...decl.TokenKind) (*decl.Token, *decl.ParserError) {
	tok, err := p.Expect(message, kinds...)
	if err != nil {
		return nil, err.(*decl.ParserError)
	}
	return tok, nil
}
