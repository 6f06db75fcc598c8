package debugger

import "github.com/panyam/blang/decl"

// Context is one level of the debug call chain. A new Context is pushed on
// every call, with Sender pointing at the caller's.
type Context struct {
	Name          string
	Sender        *Context
	CurrentNode   decl.Node
	ReturnReached bool
}

// Depth counts the contexts between c and the root.
func (c *Context) Depth() (n int) {
	for curr := c.Sender; curr != nil; curr = curr.Sender {
		n++
	}
	return
}
