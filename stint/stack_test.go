package stint

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPushReusesNamedChild(t *testing.T) {
	clock := useFakeClock(t)
	ts := NewTimerStack()

	for i := 0; i < 3; i++ {
		n := ts.Push("update")
		n.Start()
		clock.advance(time.Second)
		n.End()
		ts.Pop()
	}

	tree := ts.TimingTree()
	if len(tree.Children) != 1 {
		t.Fatalf("children: got %d, want 1", len(tree.Children))
	}
	child := tree.Children[0]
	if child.Name != "update" {
		t.Errorf("child name: got %q, want %q", child.Name, "update")
	}
	if child.Count != 3 {
		t.Errorf("child count: got %d, want 3", child.Count)
	}
	if child.Total != 3.0 {
		t.Errorf("child total: got %v, want 3.0", child.Total)
	}
}

func TestBalancedNestingRestoresDepth(t *testing.T) {
	useFakeClock(t)
	ts := NewTimerStack()
	if ts.Depth() != 1 {
		t.Fatalf("fresh stack depth: got %d, want 1", ts.Depth())
	}

	outer := ts.Push("outer")
	outer.Start()
	inner := ts.Push("inner")
	inner.Start()
	if ts.Depth() != 3 {
		t.Errorf("depth with two open regions: got %d, want 3", ts.Depth())
	}
	inner.End()
	ts.Pop()
	outer.End()
	ts.Pop()

	if ts.Depth() != 1 {
		t.Errorf("depth after closing all regions: got %d, want 1", ts.Depth())
	}
}

func TestPopRootPanics(t *testing.T) {
	useFakeClock(t)
	ts := NewTimerStack()
	mustPanic(t, ts.Pop)
}

func TestSelfTime(t *testing.T) {
	clock := useFakeClock(t)
	ts := NewTimerStack()

	parent := ts.Push("parent")
	parent.Start()
	c1 := ts.Push("c1")
	c1.Start()
	clock.advance(3 * time.Second)
	c1.End()
	ts.Pop()
	c2 := ts.Push("c2")
	c2.Start()
	clock.advance(4 * time.Second)
	c2.End()
	ts.Pop()
	clock.advance(3 * time.Second)
	parent.End()
	ts.Pop()

	tree := ts.TimingTree()
	p := tree.Children[0]
	if p.Total != 10.0 {
		t.Fatalf("parent total: got %v, want 10.0", p.Total)
	}
	if p.Self != 3.0 {
		t.Errorf("parent self: got %v, want 3.0", p.Self)
	}
}

func TestSelfTimeClampedAtZero(t *testing.T) {
	clock := useFakeClock(t)
	ts := NewTimerStack()

	parent := ts.Push("parent")
	parent.Start()
	c1 := ts.Push("c1")
	c1.Start()
	clock.advance(6 * time.Second)
	c1.End()
	ts.Pop()
	c2 := ts.Push("c2")
	c2.Start()
	clock.advance(7 * time.Second)
	c2.End()
	ts.Pop()
	// jitter: the clock steps back so the parent observes less elapsed
	// time than its children did
	clock.advance(-3 * time.Second)
	parent.End()
	ts.Pop()

	tree := ts.TimingTree()
	p := tree.Children[0]
	if p.Total != 10.0 {
		t.Fatalf("parent total: got %v, want 10.0", p.Total)
	}
	if p.Self != 0.0 {
		t.Errorf("parent self: got %v, want 0.0 (clamped)", p.Self)
	}
}

func TestChildOrderPreserved(t *testing.T) {
	clock := useFakeClock(t)
	ts := NewTimerStack()

	for _, name := range []string{"collect", "update", "export"} {
		n := ts.Push(name)
		n.Start()
		clock.advance(time.Second)
		n.End()
		ts.Pop()
	}
	// re-entering an early region must not move it to the back
	n := ts.Push("collect")
	n.Start()
	clock.advance(time.Second)
	n.End()
	ts.Pop()

	tree := ts.TimingTree()
	got := make([]string, len(tree.Children))
	for i, c := range tree.Children {
		got[i] = c.Name
	}
	want := []string{"collect", "update", "export"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("child order: got %v, want %v", got, want)
		}
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	clock := useFakeClock(t)
	ts := NewTimerStack()

	n := ts.Push("leaf")
	n.Start()
	clock.advance(time.Second)
	n.End()
	ts.Pop()
	clock.advance(time.Second)

	tree := ts.TimingTree()
	if tree.Name != "" {
		t.Errorf("root name: got %q, want empty", tree.Name)
	}

	leaf, err := json.Marshal(tree.Children[0])
	if err != nil {
		t.Fatalf("marshal leaf: %v", err)
	}
	if strings.Contains(string(leaf), `"children"`) {
		t.Errorf("leaf JSON should omit children, got %s", leaf)
	}
	if !strings.Contains(string(leaf), `"name":"leaf"`) {
		t.Errorf("leaf JSON missing name, got %s", leaf)
	}

	root, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal root: %v", err)
	}
	if strings.Contains(string(root), `"name":""`) {
		t.Errorf("root JSON should omit empty name, got %s", root)
	}
	if !strings.Contains(string(root), `"children"`) {
		t.Errorf("root JSON missing children, got %s", root)
	}
}

func TestSecondSnapshotPanics(t *testing.T) {
	useFakeClock(t)
	ts := NewTimerStack()
	ts.TimingTree()
	mustPanic(t, func() { ts.TimingTree() })
}
