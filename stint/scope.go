package stint

// # Region
//
// Represents an open scoped region. Its zero value has no meaning. A Region
// should always be obtained from [TimerStack.Open] or [Open] and released
// exactly once with Close, normally via defer:
//
//	defer stack.Open("policy_update").Close()
//
// Closing via defer keeps the active path and the node's running state
// consistent even when the region's body panics.
type Region struct {
	stack *TimerStack
	node  *TimerNode
}

// Open pushes name under the innermost open region and starts its timer.
func (ts *TimerStack) Open(name string) *Region {
	node := ts.Push(name)
	node.Start()
	return &Region{stack: ts, node: node}
}

// Close ends the region's timer and pops it off the active path, in that
// order.
func (r *Region) Close() {
	r.node.End()
	r.stack.Pop()
}

// Node returns the region's accumulator.
func (r *Region) Node() *TimerNode {
	return r.node
}

// Scoped runs fn inside a region named name and returns fn's error. The
// region is ended and popped on every exit path, a panic inside fn included.
func (ts *TimerStack) Scoped(name string, fn func() error) error {
	r := ts.Open(name)
	defer r.Close()
	return fn()
}
