package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/panyam/blang/decl"
	"github.com/panyam/blang/loader"
	"github.com/panyam/blang/runtime"
	gfn "github.com/panyam/goutils/fn"
)

// ReportStatus prints every pass's errors for a loaded file and returns
// whether there were any.
func (r *Reporter) ReportStatus(fs *loader.FileStatus) bool {
	if fs.LexError != nil {
		r.Report("lexer", fs, fs.LexError)
		return true
	}
	n := ReportPass(r, "parse", fs, fs.ParseErrors)
	n += ReportPass(r, "resolution", fs, fs.ResolutionErrors)
	n += ReportPass(r, "type", fs, fs.TypeErrors)
	return n > 0
}

// DumpTokens writes one token per line.
func DumpTokens(w io.Writer, tokens []*decl.Token) {
	lines := gfn.Map(tokens, func(t *decl.Token) string { return t.String() })
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

// DumpAST pretty prints the program.
func DumpAST(w io.Writer, program *decl.Program) {
	fmt.Fprint(w, decl.Dump(program))
}

// DumpTypes writes each top level declaration's name with its inferred type.
func DumpTypes(w io.Writer, fs *loader.FileStatus) {
	if fs.Program == nil {
		return
	}
	for i, d := range fs.Program.Declarations {
		if i >= len(fs.Types) {
			break
		}
		fmt.Fprintf(w, "%-16s %s\n", declLabel(d), fs.Types[i])
	}
}

// DumpResult writes the program's final value.
func DumpResult(w io.Writer, v runtime.Value) {
	fmt.Fprintf(w, "=> %s\n", runtime.Stringify(v))
}

func declLabel(d decl.Stmt) string {
	switch s := d.(type) {
	case *decl.FuncDecl:
		return s.Name.Lexeme
	case *decl.LetDecl:
		return s.Name.Lexeme
	case *decl.ClassDecl:
		return s.Name.Lexeme
	}
	return fmt.Sprintf("<line %d>", d.Pos().Line)
}
