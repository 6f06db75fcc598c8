package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/panyam/blang/decl"
)

// Lexer turns the characters of a Reader into tokens.
type Lexer struct {
	reader Reader
	tokens []*decl.Token

	// Position tracking for the current token
	tokenStart decl.Location
	tokenText  strings.Builder
}

// NewLexer creates a new lexer instance
func NewLexer(r Reader) *Lexer {
	return &Lexer{reader: r}
}

// Tokenize scans the whole input. The returned slice always ends with an
// EOF token unless an error is returned.
func (l *Lexer) Tokenize() ([]*decl.Token, error) {
	for {
		l.skipWhitespace()
		if l.reader.AtEOF() {
			break
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	here := l.here()
	l.tokens = append(l.tokens, &decl.Token{Kind: decl.EOF, Range: decl.Range{Start: here, End: here}})
	return l.tokens, nil
}

func (l *Lexer) here() decl.Location {
	return decl.Location{Line: l.reader.LineNo(), Col: l.reader.ColumnNo()}
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &decl.LexerError{
		Message: fmt.Sprintf(format, args...),
		Pos:     l.tokenStart,
		SrcPath: l.reader.SrcPath(),
	}
}

// --- Rune Reading Helpers ---

func (l *Lexer) read() rune {
	r := l.reader.Next()
	l.tokenText.WriteRune(r)
	return r
}

func (l *Lexer) begin() {
	l.tokenStart = l.here()
	l.tokenText.Reset()
}

func (l *Lexer) emit(kind decl.TokenKind, literal any) {
	l.tokens = append(l.tokens, &decl.Token{
		Kind:    kind,
		Lexeme:  l.tokenText.String(),
		Literal: literal,
		Range:   decl.Range{Start: l.tokenStart, End: l.here()},
	})
}

// --- Scanning Functions ---

func (l *Lexer) skipWhitespace() {
	for !l.reader.AtEOF() {
		ch := l.reader.Peek()
		switch {
		case ch == '\n':
			l.reader.Next()
			l.reader.IncrementLineNo()
		case unicode.IsSpace(ch):
			l.reader.Next()
		case ch == '/' && l.reader.PeekAhead(1) == '/':
			for !l.reader.AtEOF() && l.reader.Peek() != '\n' {
				l.reader.Next()
			}
		default:
			return
		}
	}
}

var singleCharTokens = map[rune]decl.TokenKind{
	'(': decl.LEFT_PAREN,
	')': decl.RIGHT_PAREN,
	'{': decl.LEFT_BRACE,
	'}': decl.RIGHT_BRACE,
	';': decl.SEMI,
	'+': decl.PLUS,
	'*': decl.STAR,
	'/': decl.SLASH,
	'=': decl.EQUAL,
	',': decl.COMMA,
}

func (l *Lexer) scanToken() error {
	l.begin()
	ch := l.reader.Peek()
	if kind, ok := singleCharTokens[ch]; ok {
		l.read()
		l.emit(kind, nil)
		return nil
	}
	switch {
	case ch == '-':
		l.read()
		if l.reader.Peek() == '>' {
			l.read()
			l.emit(decl.ARROW, nil)
		} else {
			l.emit(decl.MINUS, nil)
		}
		return nil
	case ch == '"' || ch == '\'':
		return l.scanString(ch)
	case isDigit(ch):
		return l.scanNumber()
	case isWordStart(ch):
		l.scanIdentifier()
		return nil
	}
	l.read()
	return l.errorf("unexpected character %q", ch)
}

// scanString captures everything between matching delimiters verbatim.
func (l *Lexer) scanString(quote rune) error {
	l.read()
	var value strings.Builder
	for {
		if l.reader.AtEOF() {
			return l.errorf("unterminated string")
		}
		ch := l.read()
		if ch == quote {
			break
		}
		if ch == '\n' {
			l.reader.IncrementLineNo()
		}
		value.WriteRune(ch)
	}
	l.emit(decl.STRING, value.String())
	return nil
}

// scanNumber accepts digits with at most one decimal point, which must be
// followed by at least one digit.
func (l *Lexer) scanNumber() error {
	for isDigit(l.reader.Peek()) {
		l.read()
	}
	if l.reader.Peek() == '.' {
		l.read()
		if !isDigit(l.reader.Peek()) {
			return l.errorf("malformed number %q", l.tokenText.String())
		}
		for isDigit(l.reader.Peek()) {
			l.read()
		}
		if l.reader.Peek() == '.' {
			l.read()
			return l.errorf("malformed number %q", l.tokenText.String())
		}
	}
	value, err := strconv.ParseFloat(l.tokenText.String(), 64)
	if err != nil {
		return l.errorf("malformed number %q: %v", l.tokenText.String(), err)
	}
	l.emit(decl.NUMBER, value)
	return nil
}

func (l *Lexer) scanIdentifier() {
	for isWordChar(l.reader.Peek()) {
		l.read()
	}
	text := l.tokenText.String()
	if kind, ok := decl.Keywords[text]; ok {
		switch kind {
		case decl.TRUE:
			l.emit(kind, true)
		case decl.FALSE:
			l.emit(kind, false)
		default:
			l.emit(kind, nil)
		}
		return
	}
	l.emit(decl.IDENTIFIER, nil)
}

func isDigit(r rune) bool     { return r >= '0' && r <= '9' }
func isWordStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isWordChar(r rune) bool  { return isWordStart(r) || unicode.IsDigit(r) }

// Tokenize is a convenience wrapper lexing src in one call.
func Tokenize(path, src string) ([]*decl.Token, error) {
	return NewLexer(NewStringReader(path, src)).Tokenize()
}
