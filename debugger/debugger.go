package debugger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panyam/blang/decl"
	"github.com/panyam/blang/runtime"
	"golang.org/x/sync/semaphore"
)

// Mode decides when a node visit suspends evaluation.
type Mode int

const (
	// ModeContinue suspends only at breakpoints.
	ModeContinue Mode = iota
	// ModeStepInto suspends at every node.
	ModeStepInto
	// ModeStepOver suspends only at nodes visited in the captured context.
	ModeStepOver
)

func (m Mode) String() string {
	switch m {
	case ModeContinue:
		return "continue"
	case ModeStepInto:
		return "step-into"
	case ModeStepOver:
		return "step-over"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

const eventBuffer = 128

// Debugger drives an interpreter one node at a time.
//
// The evaluator goroutine (the one calling Run) holds the single permit of
// gate while it evaluates. Around every node visit it releases and
// reacquires the permit, which is where a controller calling Pause can take
// it. Suspending at a breakpoint is an Acquire that blocks because the
// evaluator already holds the permit; resuming releases it.
type Debugger struct {
	interp  *runtime.Interpreter
	program *decl.Program
	gate    *semaphore.Weighted
	events  chan Event

	// StopOnEntry suspends before the first node regardless of mode.
	StopOnEntry bool

	mu          sync.Mutex
	mode        Mode
	stepCtx     *Context
	current     *Context
	env         *decl.Env[runtime.Value]
	breakpoints map[decl.Node]bool
	paused      bool
	entered     bool
	finished    bool
}

func New(interp *runtime.Interpreter, program *decl.Program) *Debugger {
	return &Debugger{
		interp:      interp,
		program:     program,
		gate:        semaphore.NewWeighted(1),
		events:      make(chan Event, eventBuffer),
		current:     &Context{Name: "<main>"},
		breakpoints: map[decl.Node]bool{},
	}
}

// Events delivers breakpoint-reached events followed by exactly one
// complete event, after which the channel is closed.
func (d *Debugger) Events() <-chan Event { return d.events }

// Run evaluates the program on the calling goroutine. It returns when the
// program finishes or fails; the complete event is sent either way.
func (d *Debugger) Run(ctx context.Context) (err error) {
	if err := d.gate.Acquire(ctx, 1); err != nil {
		d.mu.Lock()
		d.finished = true
		d.mu.Unlock()
		d.events <- EventComplete{Err: err}
		close(d.events)
		return err
	}
	var result runtime.Value
	defer func() {
		d.mu.Lock()
		d.finished = true
		d.paused = false
		d.mu.Unlock()
		d.gate.Release(1)
		runtime.Debug("debugger: complete (err=%v)", err)
		d.events <- EventComplete{Result: result, Err: err}
		close(d.events)
	}()

	d.interp.SetHooks(d)
	defer d.interp.SetHooks(nil)
	result, err = d.interp.Interpret(d.program)
	return err
}

// --- runtime.Hooks ---

func (d *Debugger) Visit(node decl.Node, env *decl.Env[runtime.Value]) {
	d.mu.Lock()
	d.current.CurrentNode = node
	d.env = env
	suspend := d.shouldSuspend(node)
	if suspend {
		d.paused = true
	}
	d.mu.Unlock()

	if !suspend {
		// yield so a controller waiting in Pause can take the gate
		d.gate.Release(1)
		_ = d.gate.Acquire(context.Background(), 1)
		return
	}
	line := node.Pos().Line
	runtime.Debug("debugger: suspended at line %d (%T)", line, node)
	d.events <- EventBreakpointReached{Line: line, Node: node}
	_ = d.gate.Acquire(context.Background(), 1)
}

func (d *Debugger) EnterCall(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = &Context{Name: name, Sender: d.current}
}

func (d *Debugger) ExitCall() {
	d.mu.Lock()
	defer d.mu.Unlock()
	returning := d.current
	returning.ReturnReached = true
	if d.stepCtx == returning {
		d.stepCtx = returning.Sender
	}
	if returning.Sender != nil {
		d.current = returning.Sender
	}
}

// shouldSuspend must be called with mu held.
func (d *Debugger) shouldSuspend(node decl.Node) bool {
	if !d.entered {
		d.entered = true
		if d.StopOnEntry {
			return true
		}
	}
	switch d.mode {
	case ModeStepInto:
		return true
	case ModeStepOver:
		return d.current == d.stepCtx
	}
	return d.breakpoints[node]
}

// --- Commands ---

// resumeLocked releases a suspended evaluator. It must be called with mu
// held and reports whether evaluation was actually resumed.
func (d *Debugger) resumeLocked() bool {
	if !d.paused {
		return false
	}
	d.paused = false
	d.gate.Release(1)
	return true
}

// Continue switches to ModeContinue, or resumes if already in it.
func (d *Debugger) Continue() (resumed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode != ModeContinue {
		runtime.Debug("debugger: %s -> continue", d.mode)
		d.mode = ModeContinue
		d.stepCtx = nil
		return false
	}
	return d.resumeLocked()
}

// StepInto switches to ModeStepInto, or resumes if already in it.
func (d *Debugger) StepInto() (resumed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode != ModeStepInto {
		runtime.Debug("debugger: %s -> step-into", d.mode)
		d.mode = ModeStepInto
		d.stepCtx = nil
		return false
	}
	return d.resumeLocked()
}

// StepOver switches to ModeStepOver capturing the current context, or
// resumes if already in it.
func (d *Debugger) StepOver() (resumed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode != ModeStepOver {
		runtime.Debug("debugger: %s -> step-over (%s)", d.mode, d.current.Name)
		d.mode = ModeStepOver
		d.stepCtx = d.current
		return false
	}
	return d.resumeLocked()
}

// Pause takes the gate from the controller side, stopping the evaluator at
// its next node visit. It returns immediately if already suspended.
func (d *Debugger) Pause(ctx context.Context) error {
	d.mu.Lock()
	if d.paused || d.finished {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	if err := d.gate.Acquire(ctx, 1); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finished {
		d.gate.Release(1)
		return nil
	}
	d.paused = true
	return nil
}

// --- Breakpoints ---

func (d *Debugger) SetBreakpointOn(node decl.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.breakpoints[node] = true
}

func (d *Debugger) ClearBreakpoint(node decl.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.breakpoints, node)
}

// SetBreakpointAtLine puts a breakpoint on the first node starting on line.
func (d *Debugger) SetBreakpointAtLine(line int) (decl.Node, error) {
	node := decl.NodeAtLine(d.program, line)
	if node == nil {
		return nil, fmt.Errorf("no statement starts on line %d", line)
	}
	d.SetBreakpointOn(node)
	return node, nil
}

// SetBreakpointAt puts a breakpoint on the most specific node at line:col.
func (d *Debugger) SetBreakpointAt(line, col int) (decl.Node, error) {
	node := decl.NodeAt(d.program, line, col)
	if node == nil {
		return nil, fmt.Errorf("no node at %d:%d", line, col)
	}
	d.SetBreakpointOn(node)
	return node, nil
}

// BreakpointLines lists the lines that carry a breakpoint, sorted.
func (d *Debugger) BreakpointLines() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	seen := map[int]bool{}
	var out []int
	for node := range d.breakpoints {
		if line := node.Pos().Line; !seen[line] {
			seen[line] = true
			out = append(out, line)
		}
	}
	sort.Ints(out)
	return out
}

// --- Inspection ---

func (d *Debugger) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

func (d *Debugger) Paused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// CurrentNode is the node most recently visited by the evaluator.
func (d *Debugger) CurrentNode() decl.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.CurrentNode
}

func (d *Debugger) CurrentContext() *Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *Debugger) Frames() []runtime.Frame {
	return d.interp.Frames()
}

// Locals returns the bindings visible at the current node, excluding
// globals. Inner bindings shadow outer ones.
func (d *Debugger) Locals() map[string]runtime.Value {
	d.mu.Lock()
	env := d.env
	d.mu.Unlock()

	out := map[string]runtime.Value{}
	globals := d.interp.Globals()
	for curr := env; curr != nil && curr != globals; curr = curr.Outer() {
		for name, v := range curr.All() {
			if _, shadowed := out[name]; !shadowed {
				out[name] = v
			}
		}
	}
	return out
}
