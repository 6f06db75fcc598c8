package decl

import "fmt"

// LexerError is fatal: the token stream cannot be produced.
type LexerError struct {
	Message string
	Pos     Location
	SrcPath string
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s:%s: lexer error: %s", e.SrcPath, e.Pos.LineColStr(), e.Message)
}

// ParserError is recoverable; the parser resynchronizes after recording it.
type ParserError struct {
	Message string
	Token   *Token
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s: parse error at %s: %s", e.Token.Pos().LineColStr(), describeToken(e.Token), e.Message)
}

// ResolutionError reports an illegal reference found by the scope resolver.
type ResolutionError struct {
	Token   *Token
	Message string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: resolution error at '%s': %s", e.Token.Pos().LineColStr(), e.Token.Lexeme, e.Message)
}

// TypeCheckError reports a failed inference. Range is the most specific span
// known for the offending node and may be wider than Token's.
type TypeCheckError struct {
	Message string
	Token   *Token
	Range   *Range
}

func (e *TypeCheckError) Error() string {
	return fmt.Sprintf("%s: type error: %s", e.Location().LineColStr(), e.Message)
}

func (e *TypeCheckError) Location() Location {
	if e.Range != nil {
		return e.Range.Start
	}
	if e.Token != nil {
		return e.Token.Pos()
	}
	return Location{}
}

// RuntimeError aborts the current evaluation. Cause, when set, is the
// sentinel or host error behind the message.
type RuntimeError struct {
	Token   *Token
	Message string
	Cause   error
}

func (e *RuntimeError) Unwrap() error { return e.Cause }

func (e *RuntimeError) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("runtime error: %s", e.Message)
	}
	return fmt.Sprintf("%s: runtime error at '%s': %s", e.Token.Pos().LineColStr(), e.Token.Lexeme, e.Message)
}

func describeToken(t *Token) string {
	if t.Kind == EOF {
		return "end"
	}
	return fmt.Sprintf("'%s'", t.Lexeme)
}
