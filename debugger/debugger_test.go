package debugger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/panyam/blang/decl"
	"github.com/panyam/blang/parser"
	"github.com/panyam/blang/resolver"
	"github.com/panyam/blang/runtime"
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

type session struct {
	d   *Debugger
	out *bytes.Buffer
}

func newSession(t *testing.T, src string) *session {
	t.Helper()
	program, perrs, err := parser.ParseSource("debug.bl", src)
	require.NoError(t, err)
	require.Empty(t, perrs)
	r := resolver.NewResolver(nil)
	require.Empty(t, r.Resolve(program))

	out := &bytes.Buffer{}
	in := runtime.NewInterpreter(out)
	in.SetLocals(r.Locals())
	return &session{d: New(in, program), out: out}
}

func (s *session) start(t *testing.T) {
	t.Helper()
	restore := runtime.QuietTest(t)
	t.Cleanup(restore)
	go func() { _ = s.d.Run(context.Background()) }()
}

func (s *session) next(t *testing.T) Event {
	t.Helper()
	select {
	case ev, ok := <-s.d.Events():
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debugger event")
	}
	return nil
}

func (s *session) nextStop(t *testing.T) EventBreakpointReached {
	t.Helper()
	ev := s.next(t)
	stop, ok := ev.(EventBreakpointReached)
	require.True(t, ok, "expected breakpoint-reached, got %#v", ev)
	return stop
}

// finish keeps continuing until the complete event arrives.
func (s *session) finish(t *testing.T) EventComplete {
	t.Helper()
	if !s.d.Continue() {
		s.d.Continue()
	}
	for {
		switch ev := s.next(t).(type) {
		case EventComplete:
			_, open := <-s.d.Events()
			assert.False(t, open, "events must close after complete")
			return ev
		case EventBreakpointReached:
			s.d.Continue()
		}
	}
}

func TestContinueStopsAtBreakpointsInOrder(t *testing.T) {
	s := newSession(t, twoDeep)
	_, err := s.d.SetBreakpointAtLine(7)
	require.NoError(t, err)
	_, err = s.d.SetBreakpointAtLine(8)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, s.d.BreakpointLines())
	s.start(t)

	stop := s.nextStop(t)
	assert.Equal(t, 7, stop.Line)
	assert.IsType(t, &decl.LetDecl{}, stop.Node)
	assert.Equal(t, stop.Node, s.d.CurrentNode())

	assert.True(t, s.d.Continue())
	stop = s.nextStop(t)
	assert.Equal(t, 8, stop.Line)

	assert.True(t, s.d.Continue())
	done, ok := s.next(t).(EventComplete)
	require.True(t, ok)
	assert.NoError(t, done.Err)
	assert.Equal(t, "10\n", s.out.String())
}

func TestStepIntoStopsAtEveryNode(t *testing.T) {
	s := newSession(t, twoDeep)
	_, err := s.d.SetBreakpointAtLine(7)
	require.NoError(t, err)
	s.start(t)
	s.nextStop(t)

	// first call only switches mode
	assert.False(t, s.d.StepInto())
	assert.Equal(t, ModeStepInto, s.d.Mode())

	var lines []int
	var kinds []string
	for i := 0; i < 4; i++ {
		require.True(t, s.d.StepInto())
		stop := s.nextStop(t)
		lines = append(lines, stop.Line)
		kinds = append(kinds, nodeKind(stop.Node))
	}
	assert.Equal(t, []int{7, 7, 7, 5}, lines)
	assert.Equal(t, []string{"call", "variable", "literal", "return"}, kinds)

	frames := s.d.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, "outer", frames[0].Name)
	assert.Equal(t, 1.0, s.d.Locals()["x"])

	done := s.finish(t)
	assert.NoError(t, done.Err)
}

func TestStepOverDoesNotEnterCalls(t *testing.T) {
	s := newSession(t, twoDeep)
	_, err := s.d.SetBreakpointAtLine(7)
	require.NoError(t, err)
	s.start(t)
	s.nextStop(t)

	assert.False(t, s.d.StepOver())
	assert.Equal(t, ModeStepOver, s.d.Mode())

	var lines []int
	for i := 0; i < 4; i++ {
		require.True(t, s.d.StepOver())
		stop := s.nextStop(t)
		lines = append(lines, stop.Line)
		assert.Empty(t, s.d.Frames(), "step over must not stop inside a call")
	}
	assert.Equal(t, []int{7, 7, 7, 8}, lines)
	assert.Empty(t, s.d.Locals(), "top level names are globals")
	a, _ := s.d.interp.Globals().Get("a")
	assert.Equal(t, 4.0, a)

	s.finish(t)
}

func TestStepOverLeavingFunctionStopsInCaller(t *testing.T) {
	s := newSession(t, twoDeep)
	_, err := s.d.SetBreakpointAtLine(2)
	require.NoError(t, err)
	s.start(t)

	stop := s.nextStop(t)
	assert.Equal(t, 2, stop.Line)
	assert.Equal(t, "inner", s.d.CurrentContext().Name)
	assert.Equal(t, 2, s.d.CurrentContext().Depth())

	s.d.StepOver()
	for {
		require.True(t, s.d.StepOver())
		stop = s.nextStop(t)
		if stop.Line != 2 {
			break
		}
	}
	assert.Equal(t, 5, stop.Line)
	frames := s.d.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, "outer", frames[0].Name)

	done := s.finish(t)
	assert.NoError(t, done.Err)
	assert.Equal(t, "10\n", s.out.String())
}

func TestStopOnEntry(t *testing.T) {
	s := newSession(t, twoDeep)
	s.d.StopOnEntry = true
	s.start(t)

	stop := s.nextStop(t)
	assert.Equal(t, 1, stop.Line)
	assert.Equal(t, ModeContinue, s.d.Mode())
	assert.True(t, s.d.Continue())
	_, ok := s.next(t).(EventComplete)
	assert.True(t, ok)
}

func TestClearBreakpoint(t *testing.T) {
	s := newSession(t, twoDeep)
	node, err := s.d.SetBreakpointAtLine(7)
	require.NoError(t, err)
	_, err = s.d.SetBreakpointAtLine(8)
	require.NoError(t, err)
	s.d.ClearBreakpoint(node)
	s.start(t)

	assert.Equal(t, 8, s.nextStop(t).Line)
	s.finish(t)
}

func TestBreakpointOnMissingLine(t *testing.T) {
	s := newSession(t, twoDeep)
	_, err := s.d.SetBreakpointAtLine(42)
	assert.Error(t, err)
}

func TestBreakpointAtColumn(t *testing.T) {
	s := newSession(t, twoDeep)
	node, err := s.d.SetBreakpointAt(5, 10)
	require.NoError(t, err)
	assert.Equal(t, "inner", node.String())
}

func TestCompleteFiresOnRuntimeError(t *testing.T) {
	s := newSession(t, "let a = 1;\nnope();\n")
	s.start(t)
	done, ok := s.next(t).(EventComplete)
	require.True(t, ok)
	var rte *decl.RuntimeError
	assert.ErrorAs(t, done.Err, &rte)
	_, open := <-s.d.Events()
	assert.False(t, open)
}

func TestPauseBeforeRunHoldsEvaluation(t *testing.T) {
	s := newSession(t, twoDeep)
	require.NoError(t, s.d.Pause(context.Background()))
	assert.True(t, s.d.Paused())
	s.start(t)

	select {
	case ev := <-s.d.Events():
		t.Fatalf("unexpected event while paused: %#v", ev)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Empty(t, s.out.String())

	assert.True(t, s.d.Continue())
	_, ok := s.next(t).(EventComplete)
	assert.True(t, ok)
	assert.Equal(t, "10\n", s.out.String())
}

func TestStepIntoAfterPauseStopsAtNextNode(t *testing.T) {
	s := newSession(t, twoDeep)
	require.NoError(t, s.d.Pause(context.Background()))
	s.start(t)

	assert.False(t, s.d.StepInto(), "first call only switches mode")
	assert.True(t, s.d.StepInto())
	stop := s.nextStop(t)
	assert.Equal(t, 1, stop.Line)
	assert.Equal(t, ModeStepInto, s.d.Mode())

	assert.True(t, s.d.StepInto())
	s.nextStop(t)
	s.finish(t)
	assert.Equal(t, "10\n", s.out.String())
}

func TestStepIntoDuringContinueRun(t *testing.T) {
	s := newSession(t, `func down(n) { return case n { 0 -> 0, _ -> down(n - 1) }; }
print(down(3000));
`)
	s.start(t)
	require.NoError(t, s.d.Pause(context.Background()))
	require.True(t, s.d.Paused())

	assert.False(t, s.d.StepInto())
	assert.True(t, s.d.StepInto())
	first := s.nextStop(t)
	require.NotNil(t, first.Node)
	assert.Equal(t, ModeStepInto, s.d.Mode())
	assert.Same(t, first.Node, s.d.CurrentNode())

	assert.True(t, s.d.StepInto())
	second := s.nextStop(t)
	assert.NotSame(t, first.Node, second.Node)

	s.finish(t)
	assert.Equal(t, "0\n", s.out.String())
}

func TestRunWithCanceledContextCompletes(t *testing.T) {
	s := newSession(t, twoDeep)
	// hold the gate so Run has to wait on its context
	require.NoError(t, s.d.Pause(context.Background()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.d.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	done, ok := s.next(t).(EventComplete)
	require.True(t, ok)
	assert.ErrorIs(t, done.Err, context.Canceled)
	_, open := <-s.d.Events()
	assert.False(t, open)
	assert.Empty(t, s.out.String())
}

func TestModeTransitions(t *testing.T) {
	s := newSession(t, twoDeep)
	// not suspended: every call only switches or is a no-op
	assert.False(t, s.d.Continue())
	assert.False(t, s.d.StepOver())
	assert.Equal(t, ModeStepOver, s.d.Mode())
	assert.False(t, s.d.StepOver())
	assert.False(t, s.d.StepInto())
	assert.Equal(t, ModeStepInto, s.d.Mode())
	assert.False(t, s.d.Continue())
	assert.Equal(t, ModeContinue, s.d.Mode())
	assert.Equal(t, "step-over", ModeStepOver.String())
}

func nodeKind(n decl.Node) string {
	switch n.(type) {
	case *decl.CallExpr:
		return "call"
	case *decl.VariableExpr:
		return "variable"
	case *decl.LiteralExpr:
		return "literal"
	case *decl.ReturnStmt:
		return "return"
	}
	return n.String()
}
