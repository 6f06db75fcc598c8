package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/panyam/blang/decl"
)

// DefaultDepth is how many errors per pass are shown when Depth is unset.
const DefaultDepth = 5

// SourceLines gives the reporter the text of the line a range starts on.
type SourceLines interface {
	GetLineOfSource(r decl.Range) string
}

// Reporter renders front end and runtime errors for a terminal: a header,
// the offending source line and a caret underline under the token's range.
type Reporter struct {
	out io.Writer

	// Depth caps the errors printed per pass. 0 means DefaultDepth, a
	// negative value means no limit.
	Depth int

	header *color.Color
	gutter *color.Color
	caret  *color.Color
	note   *color.Color
}

func NewReporter(out io.Writer, noColor bool) *Reporter {
	r := &Reporter{
		out:    out,
		header: color.New(color.FgRed, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgYellow, color.Bold),
		note:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.header, r.gutter, r.caret, r.note} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return r
}

func (r *Reporter) depth() int {
	if r.Depth == 0 {
		return DefaultDepth
	}
	return r.Depth
}

// ReportPass prints the errors of one pass most recent first, up to Depth.
// It returns the number of errors printed.
func ReportPass[E error](r *Reporter, pass string, src SourceLines, errs []E) int {
	if len(errs) == 0 {
		return 0
	}
	limit := r.depth()
	shown := 0
	for i := len(errs) - 1; i >= 0; i-- {
		if limit > 0 && shown >= limit {
			r.note.Fprintf(r.out, "... %d more %s error(s) not shown\n", i+1, pass)
			break
		}
		r.Report(pass, src, errs[i])
		shown++
	}
	return shown
}

// Report prints a single error. Errors without a known position get the
// header only.
func (r *Reporter) Report(pass string, src SourceLines, err error) {
	r.header.Fprintf(r.out, "%s error: ", pass)
	fmt.Fprintln(r.out, messageOf(err))
	rng, ok := RangeOf(err)
	if !ok {
		return
	}
	r.gutter.Fprintf(r.out, "  --> %s\n", rng.Start.LineColStr())
	if src == nil {
		return
	}
	line := src.GetLineOfSource(rng)
	if line == "" {
		return
	}
	r.gutter.Fprintf(r.out, "%4d | ", rng.Start.Line)
	fmt.Fprintln(r.out, line)
	r.gutter.Fprint(r.out, "     | ")
	r.caret.Fprintln(r.out, Underline(line, rng))
}

// Underline returns the padding and carets marking rng on line. Ranges that
// run past the line are cut at its end; empty ranges get a single caret.
func Underline(line string, rng decl.Range) string {
	runes := []rune(line)
	start := rng.Start.Col - 1
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	end := len(runes)
	if rng.End.Line == rng.Start.Line && rng.End.Col-1 < end {
		end = rng.End.Col - 1
	}
	width := end - start
	if width < 1 {
		width = 1
	}
	var b strings.Builder
	for _, ch := range runes[:start] {
		// keep tabs so the carets line up under them
		if ch == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

// RangeOf extracts the most specific source range an error carries.
func RangeOf(err error) (decl.Range, bool) {
	var (
		le  *decl.LexerError
		pe  *decl.ParserError
		re  *decl.ResolutionError
		te  *decl.TypeCheckError
		rte *decl.RuntimeError
	)
	switch {
	case errors.As(err, &le):
		end := le.Pos
		end.Col++
		return decl.Range{Start: le.Pos, End: end}, true
	case errors.As(err, &pe) && pe.Token != nil:
		return pe.Token.Range, true
	case errors.As(err, &re) && re.Token != nil:
		return re.Token.Range, true
	case errors.As(err, &te):
		if te.Range != nil {
			return *te.Range, true
		}
		if te.Token != nil {
			return te.Token.Range, true
		}
	case errors.As(err, &rte) && rte.Token != nil:
		return rte.Token.Range, true
	}
	return decl.Range{}, false
}

func messageOf(err error) string {
	var (
		le  *decl.LexerError
		pe  *decl.ParserError
		re  *decl.ResolutionError
		te  *decl.TypeCheckError
		rte *decl.RuntimeError
	)
	switch {
	case errors.As(err, &le):
		return le.Message
	case errors.As(err, &pe):
		return pe.Message
	case errors.As(err, &re):
		return re.Message
	case errors.As(err, &te):
		return te.Message
	case errors.As(err, &rte):
		return rte.Message
	}
	return err.Error()
}
