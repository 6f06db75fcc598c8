package runtime

import (
	"sync"
)

// Frame is one active call.
type Frame struct {
	Name  string
	Index int // position in the stack, 0 for the outermost call
	Line  int // line of the call site
}

// CallStack records the active calls of one interpreter. The evaluator
// pushes and pops; the debugger reads it from another goroutine while the
// evaluator is suspended.
type CallStack struct {
	mu     sync.Mutex
	frames []Frame
}

func (s *CallStack) Push(name string, line int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, Frame{Name: name, Index: len(s.frames), Line: line})
}

// Pop removes the most recent frame.
func (s *CallStack) Pop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *CallStack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Snapshot returns the frames innermost first.
func (s *CallStack) Snapshot() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Frame, len(s.frames))
	for i, f := range s.frames {
		out[len(s.frames)-1-i] = f
	}
	return out
}
