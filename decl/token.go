package decl

import "fmt"

// TokenKind is the closed set of lexical categories.
type TokenKind int

const (
	EOF TokenKind = iota
	STRING
	NUMBER
	IDENTIFIER
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	SEMI
	PLUS
	MINUS
	STAR
	SLASH
	EQUAL
	COMMA
	ARROW
	TRUE
	FALSE
	LET
	FUNC
	CASE
	RETURN
	CLASS
	TYPE
	IF
	ELSE
)

var tokenNames = map[TokenKind]string{
	EOF:         "EOF",
	STRING:      "STRING",
	NUMBER:      "NUMBER",
	IDENTIFIER:  "IDENTIFIER",
	LEFT_PAREN:  "LEFT_PAREN",
	RIGHT_PAREN: "RIGHT_PAREN",
	LEFT_BRACE:  "LEFT_BRACE",
	RIGHT_BRACE: "RIGHT_BRACE",
	SEMI:        "SEMI",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	STAR:        "STAR",
	SLASH:       "SLASH",
	EQUAL:       "EQUAL",
	COMMA:       "COMMA",
	ARROW:       "ARROW",
	TRUE:        "TRUE",
	FALSE:       "FALSE",
	LET:         "LET",
	FUNC:        "FUNC",
	CASE:        "CASE",
	RETURN:      "RETURN",
	CLASS:       "CLASS",
	TYPE:        "TYPE",
	IF:          "IF",
	ELSE:        "ELSE",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Keywords maps reserved words to their token kinds.
var Keywords = map[string]TokenKind{
	"true":   TRUE,
	"false":  FALSE,
	"let":    LET,
	"func":   FUNC,
	"case":   CASE,
	"return": RETURN,
	"class":  CLASS,
	"type":   TYPE,
	"if":     IF,
	"else":   ELSE,
}

// Location is a 1-based line/column position in a source file.
type Location struct {
	Line int
	Col  int
}

func (l Location) LineColStr() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Before reports whether l comes strictly before other.
func (l Location) Before(other Location) bool {
	return l.Line < other.Line || (l.Line == other.Line && l.Col < other.Col)
}

// Range spans [Start, End). End.Col is one past the last rune.
type Range struct {
	Start Location
	End   Location
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start.LineColStr(), r.End.LineColStr())
}

// Contains reports whether loc falls inside the range.
func (r Range) Contains(loc Location) bool {
	return !loc.Before(r.Start) && loc.Before(r.End)
}

// Span returns the smallest range covering both a and b.
func Span(a, b Range) Range {
	out := a
	if b.Start.Before(out.Start) {
		out.Start = b.Start
	}
	if out.End.Before(b.End) {
		out.End = b.End
	}
	return out
}

// Token is an immutable lexical unit.
type Token struct {
	Kind    TokenKind
	Lexeme  string // raw text as captured, quotes included for strings
	Literal any    // float64, string or bool for literal tokens
	Range   Range
}

func (t *Token) Pos() Location { return t.Range.Start }

func (t *Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %v @%s", t.Kind, t.Lexeme, t.Literal, t.Range)
	}
	return fmt.Sprintf("%s %q @%s", t.Kind, t.Lexeme, t.Range)
}
