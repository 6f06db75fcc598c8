package loader

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panyam/blang/decl"
	"github.com/panyam/blang/parser"
	"github.com/panyam/blang/resolver"
	"github.com/panyam/blang/runtime"
	"github.com/panyam/blang/types"
)

// FileStatus is everything the front end learned about one file.
type FileStatus struct {
	ErrorCollector

	Path   string
	Source string
	Reader *parser.SourceReader

	Tokens  []*decl.Token
	Program *decl.Program
	Checker *types.Checker
	Locals  map[decl.Expr]int
	// Types has one rendered type per top level declaration.
	Types []string

	LexError         error
	ParseErrors      []*decl.ParserError
	ResolutionErrors []*decl.ResolutionError
	TypeErrors       []*decl.TypeCheckError

	LastLoaded    time.Time
	LastValidated time.Time
}

// GetLineOfSource returns the source line a range starts on.
func (f *FileStatus) GetLineOfSource(r decl.Range) string {
	if f.Reader == nil {
		return ""
	}
	return f.Reader.GetLineOfSource(r)
}

// Parsed reports whether lexing succeeded and the program can be walked.
func (f *FileStatus) Parsed() bool {
	return f.Program != nil
}

// Loader reads files through a FileResolver and runs the front end passes
// over them. Files are cached by canonical path.
type Loader struct {
	resolver  FileResolver
	MaxErrors int

	mutex       sync.Mutex
	loadedFiles map[string]*FileStatus
}

func NewLoader(resolver FileResolver) *Loader {
	if resolver == nil {
		resolver = NewDefaultFileResolver()
	}
	return &Loader{
		resolver:    resolver,
		loadedFiles: make(map[string]*FileStatus),
	}
}

// LoadFile reads, lexes and parses path. A returned error means the file
// could not be read; lexer and parser failures are recorded on the status.
func (l *Loader) LoadFile(path string) (*FileStatus, error) {
	rc, canonicalPath, err := l.resolver.Resolve("", path)
	if err != nil {
		return nil, fmt.Errorf("failed to load '%s': %w", path, err)
	}
	defer rc.Close()

	l.mutex.Lock()
	defer l.mutex.Unlock()
	if fs, ok := l.loadedFiles[canonicalPath]; ok {
		return fs, nil
	}

	reader, err := parser.NewSourceReader(canonicalPath, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", canonicalPath, err)
	}
	fs := l.parse(canonicalPath, reader)
	l.loadedFiles[canonicalPath] = fs
	return fs, nil
}

// LoadSource runs the same passes as LoadFile over an in-memory source. The
// result is not cached.
func (l *Loader) LoadSource(path, src string) *FileStatus {
	return l.parse(path, parser.NewStringReader(path, src))
}

func (l *Loader) parse(path string, reader *parser.SourceReader) *FileStatus {
	fs := &FileStatus{
		ErrorCollector: ErrorCollector{MaxErrors: l.MaxErrors},
		Path:           path,
		Source:         reader.Source(),
		Reader:         reader,
		LastLoaded:     time.Now(),
	}

	start := time.Now()
	tokens, err := parser.NewLexer(reader).Tokenize()
	runtime.Debug("loader: lexed %s in %v", path, time.Since(start))
	if err != nil {
		fs.LexError = err
		fs.AddErrors(err)
		return fs
	}
	fs.Tokens = tokens

	start = time.Now()
	fs.Program, fs.ParseErrors = parser.NewParser(tokens, reader).Parse()
	runtime.Debug("loader: parsed %s in %v (%d errors)", path, time.Since(start), len(fs.ParseErrors))
	fs.AddErrors(asErrors(fs.ParseErrors)...)
	return fs
}

// Validate resolves and type checks a parsed file. It returns true if no pass
// reported an error. Validating twice is a no-op.
func (l *Loader) Validate(fs *FileStatus) bool {
	if !fs.Parsed() {
		return false
	}
	if !fs.LastValidated.IsZero() {
		return !fs.HasErrors()
	}

	fs.Checker = types.NewChecker()
	start := time.Now()
	r := resolver.NewResolver(fs.Checker)
	fs.ResolutionErrors = r.Resolve(fs.Program)
	fs.Locals = r.Locals()
	runtime.Debug("loader: resolved %s in %v (%d errors)", fs.Path, time.Since(start), len(fs.ResolutionErrors))
	fs.AddErrors(asErrors(fs.ResolutionErrors)...)

	start = time.Now()
	fs.Types = fs.Checker.Validate(fs.Program)
	fs.TypeErrors = fs.Checker.Errors
	runtime.Debug("loader: checked %s in %v (%d errors)", fs.Path, time.Since(start), len(fs.TypeErrors))
	fs.AddErrors(asErrors(fs.TypeErrors)...)

	fs.LastValidated = time.Now()
	return !fs.HasErrors()
}

// LoadAndValidate loads path and validates it, returning ErrHasErrors
// (wrapped) when any pass fails.
func (l *Loader) LoadAndValidate(path string) (*FileStatus, error) {
	fs, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if !l.Validate(fs) {
		return fs, fs.Err()
	}
	return fs, nil
}

// IsLexError reports whether err came from the lexer.
func IsLexError(err error) bool {
	var le *decl.LexerError
	return errors.As(err, &le)
}
