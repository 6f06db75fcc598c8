package parser

import (
	"io"
	"strings"

	"github.com/panyam/blang/decl"
)

// Ensure EOF is defined
const eof = 0

// Reader is the character addressable source the lexer consumes.
type Reader interface {
	Next() rune
	Peek() rune
	PeekAhead(n int) rune
	AtEOF() bool
	LineNo() int
	ColumnNo() int
	IncrementLineNo()
	GetLineOfSource(r decl.Range) string
	SrcPath() string
}

// SourceReader is a Reader over a fully buffered source text.
type SourceReader struct {
	path  string
	runes []rune
	lines []string
	pos   int

	// Current line and column (rune-based, 1-based) in the input
	line int
	col  int
}

// NewSourceReader buffers all of r.
func NewSourceReader(path string, r io.Reader) (*SourceReader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewStringReader(path, string(data)), nil
}

func NewStringReader(path string, src string) *SourceReader {
	return &SourceReader{
		path:  path,
		runes: []rune(src),
		lines: strings.Split(src, "\n"),
		line:  1,
		col:   1,
	}
}

func (s *SourceReader) SrcPath() string { return s.path }
func (s *SourceReader) Source() string  { return string(s.runes) }
func (s *SourceReader) LineNo() int     { return s.line }
func (s *SourceReader) ColumnNo() int   { return s.col }
func (s *SourceReader) AtEOF() bool     { return s.pos >= len(s.runes) }

// IncrementLineNo moves to the start of the next line. The lexer calls it
// after consuming a newline.
func (s *SourceReader) IncrementLineNo() {
	s.line++
	s.col = 1
}

func (s *SourceReader) Peek() rune {
	return s.PeekAhead(0)
}

// PeekAhead returns the rune n positions past the cursor without consuming.
func (s *SourceReader) PeekAhead(n int) rune {
	if s.pos+n >= len(s.runes) {
		return eof
	}
	return s.runes[s.pos+n]
}

// Next consumes one rune and advances the column. Newlines are left to the
// caller so that line tracking stays with the lexer.
func (s *SourceReader) Next() rune {
	if s.AtEOF() {
		return eof
	}
	r := s.runes[s.pos]
	s.pos++
	s.col++
	return r
}

// GetLineOfSource returns the full text of the line the range starts on.
func (s *SourceReader) GetLineOfSource(r decl.Range) string {
	idx := r.Start.Line - 1
	if idx < 0 || idx >= len(s.lines) {
		return ""
	}
	return strings.TrimRight(s.lines[idx], "\r")
}
