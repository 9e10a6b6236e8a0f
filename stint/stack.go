package stint

import "math"

// # TimerStack
//
// Owns a tree of [TimerNode] accumulators reachable from a root that spans
// the whole run, plus the active path of currently-open regions. The root is
// started at construction and only ended when a snapshot is taken.
//
// Its zero value has no meaning and should not be used; call
// [NewTimerStack]. Not safe for concurrent use.
type TimerStack struct {
	root *TimerNode
	path []*TimerNode
}

// NewTimerStack creates a stack whose root timer starts immediately.
func NewTimerStack() *TimerStack {
	root := newTimerNode()
	root.Start()
	return &TimerStack{
		root: root,
		path: []*TimerNode{root},
	}
}

// Push finds or creates the child named name under the innermost open
// region, appends it to the active path and returns it. Push does not start
// the node's timer; that is the caller's job (see [TimerStack.Open]).
func (ts *TimerStack) Push(name string) *TimerNode {
	current := ts.path[len(ts.path)-1]
	next := current.child(name)
	ts.path = append(ts.path, next)
	return next
}

// Pop removes the innermost region from the active path. The caller must
// have already ended that node. Popping with only the root open is a
// programming error and panics.
func (ts *TimerStack) Pop() {
	if len(ts.path) == 1 {
		panic("stint: Pop with only the root region open")
	}
	ts.path = ts.path[:len(ts.path)-1]
}

// Depth returns the length of the active path, root included. It is 1
// whenever every opened region has been closed again.
func (ts *TimerStack) Depth() int {
	return len(ts.path)
}

// # TreeNode
//
// A read-only snapshot record of one region. Totals are in seconds. Children
// appear in first-entry order and the field is omitted from JSON for leaves.
type TreeNode struct {
	Name     string      `json:"name,omitempty"`
	Total    float64     `json:"total"`
	Count    int64       `json:"count"`
	Children []*TreeNode `json:"children,omitempty"`
	Self     float64     `json:"self"`
}

// TimingTree ends the root timer, finalizing the whole run's elapsed time,
// and returns a recursive snapshot of the tree. Accumulated totals are not
// reset. Taking a second top-level snapshot from the same stack is a usage
// error: the root is already stopped.
func (ts *TimerStack) TimingTree() *TreeNode {
	ts.root.End()
	return snapshot("", ts.root)
}

func snapshot(name string, node *TimerNode) *TreeNode {
	res := &TreeNode{
		Name:  name,
		Total: node.total.Seconds(),
		Count: node.count,
	}

	childTotal := 0.0
	for _, childName := range node.order {
		child := snapshot(childName, node.children[childName])
		res.Children = append(res.Children, child)
		childTotal += child.Total
	}

	// self time is the total minus all time spent in children, clamped so
	// clock jitter cannot drive it negative
	res.Self = math.Max(0, res.Total-childTotal)

	return res
}
