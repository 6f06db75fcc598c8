package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/panyam/blang/decl"
	"github.com/panyam/blang/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	t.Cleanup(runtime.QuietTest(t))
	fs := NewMemoryFS()
	fs.PreloadFiles(files)
	return NewLoader(NewFSResolver(fs))
}

func TestLoadAndValidateCleanFile(t *testing.T) {
	l := memLoader(t, map[string]string{
		"src/main.bl": "func inc(n) { return n + 1; }\nlet x = inc(1);\nprint(x);\n",
	})
	fs, err := l.LoadAndValidate("src/main.bl")
	require.NoError(t, err)
	assert.Equal(t, "src/main.bl", fs.Path)
	assert.NotEmpty(t, fs.Tokens)
	require.Len(t, fs.Types, 3)
	assert.Equal(t, "number -> number", fs.Types[0])
	assert.Equal(t, "number", fs.Types[1])
	assert.NotEmpty(t, fs.Locals)
	assert.False(t, fs.LastValidated.IsZero())
	assert.Equal(t, "let x = inc(1);", fs.GetLineOfSource(decl.Range{Start: decl.Location{Line: 2}}))
}

func TestLoadFileIsCached(t *testing.T) {
	l := memLoader(t, map[string]string{"a.bl": "let a = 1;"})
	first, err := l.LoadFile("a.bl")
	require.NoError(t, err)
	second, err := l.LoadFile("./a.bl")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoadMissingFile(t *testing.T) {
	l := memLoader(t, nil)
	_, err := l.LoadFile("nope.bl")
	assert.ErrorContains(t, err, "file not found")
}

func TestErrorsFromEveryPass(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		parse      int
		resolution int
		typeErrs   int
	}{
		{"parse", "let = 5;\nlet a = 1;\n", 1, 0, 0},
		{"resolution", "return 1;\n", 0, 1, 0},
		{"type", "let a = 1 - \"s\";\nlet b = a;\n", 0, 0, 1},
		{"all three", "let = 5;\nreturn 1;\nlet d = 1 - \"s\";\n", 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := memLoader(t, map[string]string{"f.bl": tt.src})
			fs, err := l.LoadAndValidate("f.bl")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrHasErrors))
			assert.Len(t, fs.ParseErrors, tt.parse)
			assert.Len(t, fs.ResolutionErrors, tt.resolution)
			assert.Len(t, fs.TypeErrors, tt.typeErrs)
			assert.Len(t, fs.Errors, tt.parse+tt.resolution+tt.typeErrs)
		})
	}
}

func TestLexErrorStopsPipeline(t *testing.T) {
	l := memLoader(t, nil)
	fs := l.LoadSource("bad.bl", "let a = \"unterminated;\n")
	require.Error(t, fs.LexError)
	assert.True(t, IsLexError(fs.LexError))
	assert.False(t, fs.Parsed())
	assert.False(t, l.Validate(fs))
	assert.Nil(t, fs.Checker)
}

func TestValidateTwiceIsNoop(t *testing.T) {
	l := memLoader(t, nil)
	fs := l.LoadSource("x.bl", "let a = 1 - \"s\";")
	assert.False(t, l.Validate(fs))
	assert.False(t, l.Validate(fs))
	assert.Len(t, fs.TypeErrors, 1)
	assert.Len(t, fs.Errors, 1)
}

func TestImportDeclaresModuleTypes(t *testing.T) {
	l := memLoader(t, nil)
	fs := l.LoadSource("m.bl", "import(\"math\");\nlet r = sqrt(16);\n")
	require.True(t, l.Validate(fs), "%v", fs.Errors)
	assert.Equal(t, "number", fs.Types[1])
}

func TestPrintErrorsHonoursMaxErrors(t *testing.T) {
	ec := ErrorCollector{MaxErrors: 2}
	ec.AddErrors(errors.New("one"), nil, errors.New("two"), errors.New("three"))
	require.Len(t, ec.Errors, 3)
	var out bytes.Buffer
	ec.PrintErrors(&out)
	assert.Equal(t, "one\ntwo\n... and 1 more\n", out.String())
	assert.ErrorIs(t, ec.Err(), ErrHasErrors)
	assert.NoError(t, (&ErrorCollector{}).Err())
}

func TestLocalFSResolver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.bl")
	require.NoError(t, os.WriteFile(path, []byte("let a = 1;"), 0o644))

	r := NewFSResolver(NewLocalFS(dir))
	rc, canonical, err := r.Resolve("", "main.bl")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, path, canonical)

	_, _, err = r.Resolve(path, "other.bl")
	assert.ErrorContains(t, err, "other.bl")
}
