package debugger

import (
	"github.com/panyam/blang/decl"
	"github.com/panyam/blang/runtime"
)

// Event is sent to the controller on Debugger.Events.
type Event interface {
	eventName() string
}

// EventBreakpointReached is sent each time evaluation suspends.
type EventBreakpointReached struct {
	Line int
	Node decl.Node
}

// EventComplete is the last event of a session. Err is the runtime error
// that ended evaluation, if any.
type EventComplete struct {
	Result runtime.Value
	Err    error
}

func (EventBreakpointReached) eventName() string { return "breakpoint-reached" }
func (EventComplete) eventName() string          { return "complete" }

// EventName returns the wire name of an event.
func EventName(e Event) string { return e.eventName() }
