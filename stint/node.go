package stint

import "time"

// # TimerNode
//
// Accumulates elapsed time and invocation count for one named region.
// Children are created lazily on first entry and kept in first-insertion
// order so tree exports are deterministic. A node's total includes the time
// spent in its children; the split into self time happens at snapshot time.
//
// Its zero value has no meaning. Nodes should always be obtained from a
// [TimerStack] via Push or Open.
type TimerNode struct {
	order    []string
	children map[string]*TimerNode

	// start is zero while the region is not executing
	start time.Time
	total time.Duration
	count int64
}

func newTimerNode() *TimerNode {
	return &TimerNode{children: make(map[string]*TimerNode)}
}

// child returns the child region named name, creating it on first use.
func (n *TimerNode) child(name string) *TimerNode {
	c, ok := n.children[name]
	if !ok {
		c = newTimerNode()
		n.children[name] = c
		n.order = append(n.order, name)
	}
	return c
}

// Start records the current time as the region's entry point. Starting an
// already-running node is a programming error and panics.
func (n *TimerNode) Start() {
	if n.Running() {
		panic("stint: Start on an already-running timer")
	}
	n.start = now()
}

// End adds the time elapsed since Start to the node's total, bumps its
// invocation count and marks it stopped. Ending a stopped node is a
// programming error and panics.
func (n *TimerNode) End() {
	if !n.Running() {
		panic("stint: End on a stopped timer")
	}
	n.total += now().Sub(n.start)
	n.count++
	n.start = time.Time{}
}

// Running reports whether the node is currently between Start and End.
func (n *TimerNode) Running() bool {
	return !n.start.IsZero()
}

// Total returns the cumulative elapsed time across all completed
// invocations, children included.
func (n *TimerNode) Total() time.Duration {
	return n.total
}

// Count returns the number of completed invocations.
func (n *TimerNode) Count() int64 {
	return n.count
}
