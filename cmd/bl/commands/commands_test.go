package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/panyam/blang/debugger"
	"github.com/panyam/blang/loader"
	"github.com/panyam/blang/runtime"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoDeep = `func inner(x) {
  return x + 1;
}
func outer(x) {
  return inner(x) * 2;
}
let a = outer(1);
let b = outer(2);
print(a + b);
`

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(runtime.QuietTest(t))
	showResult, unchecked, breakLines, stopOnEntry = false, false, nil, false
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--env=", "--no-color", "--log-level=off"}, args...))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunPrintsOutput(t *testing.T) {
	path := writeFile(t, "ok.bl", twoDeep)
	out, _, err := execute(t, "run", "--result", path)
	require.NoError(t, err)
	assert.Equal(t, "10\n=> nil\n", out)
}

func TestRunReportsFrontEndErrors(t *testing.T) {
	path := writeFile(t, "bad.bl", "let = 5;\n")
	out, errOut, err := execute(t, "run", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrHasErrors)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "parse error: expected variable name")
	assert.Contains(t, errOut, "   1 | let = 5;")
}

func TestRunReportsRuntimeErrors(t *testing.T) {
	path := writeFile(t, "rt.bl", "let a = 1;\nlet b = a / 0;\n")
	_, errOut, err := execute(t, "run", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, runtime.ErrDivisionByZero)
	assert.Contains(t, errOut, "runtime error: Division by zero.")
	assert.Contains(t, errOut, "   2 | let b = a / 0;")
}

func TestRunUnchecked(t *testing.T) {
	path := writeFile(t, "typed.bl", "let a = \"x\" - 1;\nprint(1);\n")
	_, _, err := execute(t, "run", path)
	require.ErrorIs(t, err, loader.ErrHasErrors)

	_, _, err = execute(t, "run", "--unchecked", path)
	require.Error(t, err, "the subtraction still fails at runtime")
	assert.NotErrorIs(t, err, loader.ErrHasErrors)
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.bl", twoDeep)
	bad := writeFile(t, "bad.bl", "return 1;\n")
	out, errOut, err := execute(t, "check", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 file(s) failed")
	assert.Contains(t, out, "good.bl: ok (5 declarations)")
	assert.Contains(t, errOut, "Can't return from top-level code.")
}

func TestDumpCommands(t *testing.T) {
	path := writeFile(t, "dump.bl", "func id(x) { return x; }\nlet n = id(3);\n")

	out, _, err := execute(t, "types", path)
	require.NoError(t, err)
	assert.Contains(t, out, "a -> a")
	assert.Contains(t, out, "number")

	out, _, err = execute(t, "ast", path)
	require.NoError(t, err)
	assert.Contains(t, out, "func id(x) {")

	out, _, err = execute(t, "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"id"`)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "bl dev\n", out)
}

func TestLoadConfigLayers(t *testing.T) {
	env := writeFile(t, ".env", "BL_MAX_ERRORS=7\nBL_NO_COLOR=true\n")
	t.Setenv("BL_LOG_LEVEL", "debug")
	t.Setenv("BL_MAX_ERRORS", "")
	t.Setenv("BL_NO_COLOR", "")
	os.Unsetenv("BL_MAX_ERRORS")
	os.Unsetenv("BL_NO_COLOR")

	c, err := LoadConfig(env, nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.LogLevelDebug, c.LogLevel)
	assert.Equal(t, 7, c.MaxErrors)
	assert.True(t, c.NoColor)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.Int("max-errors", 0, "")
	flags.Bool("no-color", false, "")
	require.NoError(t, flags.Parse([]string{"--log-level=error", "--max-errors=2"}))
	c, err = LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, runtime.LogLevelError, c.LogLevel)
	assert.Equal(t, 2, c.MaxErrors)
}

func TestLoadConfigMissingEnvFileIsFine(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"), nil)
	assert.NoError(t, err)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("BL_MAX_ERRORS", "lots")
	_, err := LoadConfig("", nil)
	assert.ErrorContains(t, err, "BL_MAX_ERRORS")
}

// script feeds the session a fixed list of commands, then reports end of
// input.
func script(lines ...string) func() (string, bool) {
	return func() (string, bool) {
		if len(lines) == 0 {
			return "", false
		}
		line := lines[0]
		lines = lines[1:]
		return line, true
	}
}

func TestDebugSessionScript(t *testing.T) {
	t.Cleanup(runtime.QuietTest(t))
	l := loader.NewLoader(nil)
	fs := l.LoadSource("two.bl", twoDeep)
	require.True(t, l.Validate(fs))

	var progOut, out bytes.Buffer
	interp := runtime.NewInterpreter(&progOut)
	interp.SetLocals(fs.Locals)
	d := debugger.New(interp, fs.Program)
	_, err := d.SetBreakpointAtLine(2)
	require.NoError(t, err)

	s := newDebugSession(d, fs, &out, script(
		"frames",
		"locals",
		"bogus",
		"break 8",
		"continue",
		"",
		"breakpoints",
		"clear 2",
		"c",
	))

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()
	require.NoError(t, s.Loop(context.Background()))
	require.NoError(t, <-done)

	text := out.String()
	assert.Contains(t, text, "stopped at line 2 [continue]")
	assert.Contains(t, text, "   2 |   return x + 1;")
	assert.Contains(t, text, "#0 inner (line 5)")
	assert.Contains(t, text, "#1 outer (line 7)")
	assert.Contains(t, text, "x = 1\n")
	assert.Contains(t, text, `unknown command "bogus"`)
	assert.Contains(t, text, "breakpoint set at line 8")
	assert.Contains(t, text, "stopped at line 8 [continue]")
	assert.Contains(t, text, "breakpoints: [2 8]")
	assert.Contains(t, text, "breakpoint cleared at line 2")
	assert.Contains(t, text, "program finished")
	assert.Equal(t, "10\n", progOut.String())
}

func TestDebugSessionEndOfInputDetaches(t *testing.T) {
	t.Cleanup(runtime.QuietTest(t))
	l := loader.NewLoader(nil)
	fs := l.LoadSource("two.bl", twoDeep)
	require.True(t, l.Validate(fs))

	var progOut, out bytes.Buffer
	interp := runtime.NewInterpreter(&progOut)
	interp.SetLocals(fs.Locals)
	d := debugger.New(interp, fs.Program)
	d.StopOnEntry = true
	_, err := d.SetBreakpointAtLine(8)
	require.NoError(t, err)

	s := newDebugSession(d, fs, &out, script("step"))
	go func() { _ = d.Run(context.Background()) }()
	require.NoError(t, s.Loop(context.Background()))
	assert.Equal(t, "10\n", progOut.String())
	assert.Empty(t, d.BreakpointLines())
}

func TestLineReaderSeparatesEmptyLineFromEOF(t *testing.T) {
	type keyed struct {
		line  string
		enter bool
	}
	inputs := []keyed{{"step", true}, {"", true}, {"", false}}
	read := lineReader(func(onEnter prompt.KeyBindFunc) string {
		in := inputs[0]
		inputs = inputs[1:]
		if in.enter {
			onEnter(nil)
		}
		return in.line
	})

	line, ok := read()
	assert.True(t, ok)
	assert.Equal(t, "step", line)
	line, ok = read()
	assert.True(t, ok, "an empty submitted line repeats the last command")
	assert.Equal(t, "", line)
	_, ok = read()
	assert.False(t, ok, "ctrl-d on an empty buffer ends input")
}
