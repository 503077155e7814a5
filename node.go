package medusa

import "strings"

// nodeIDCounter is a plain counter (no atomic, medusa is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is a tracked on-screen element. Nodes form a tree rooted at
// Scene.Root; children inherit their parent's transform and visibility.
//
// Width and Height describe the node's local bounds starting at its origin.
// A node with zero size still takes part in intersection tests as a point.
type Node struct {
	ID   uint32
	Name string

	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Local bounds size
	Width, Height float64

	// Visible false hides the node and its subtree from every detector.
	Visible bool

	UserData any

	worldTransform [6]float64
	transformDirty bool

	events   *Emitter
	disposed bool
}

// NewNode creates a node with default transform values and no size.
func NewNode(name string) *Node {
	return &Node{
		ID:             nextNodeID(),
		Name:           name,
		ScaleX:         1,
		ScaleY:         1,
		Visible:        true,
		worldTransform: identityTransform,
		transformDirty: true,
	}
}

// NewContainer creates a grouping node. It is an alias of NewNode kept for
// readability at call sites that build hierarchies.
func NewContainer(name string) *Node {
	return NewNode(name)
}

// NewBox creates a node positioned at (x, y) with the given size.
func NewBox(name string, x, y, w, h float64) *Node {
	n := NewNode(name)
	n.X, n.Y = x, y
	n.Width, n.Height = w, h
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("medusa: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("medusa: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("medusa: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("medusa: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("medusa: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("medusa: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Walk calls fn for every descendant of n in depth-first pre-order, not
// including n itself. Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, child := range n.children {
		if fn(child) {
			child.Walk(fn)
		}
	}
}

// PathFrom returns the slash-separated names from ancestor (exclusive) down
// to n. It returns n.Name when ancestor is not above n.
func (n *Node) PathFrom(ancestor *Node) string {
	var parts []string
	p := n
	for ; p != nil && p != ancestor; p = p.Parent {
		parts = append(parts, p.Name)
	}
	if p == nil {
		return n.Name
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Events returns the node's own emitter, creating it on first use. A node
// used as a target container receives that target's events here unless the
// target emits globally.
func (n *Node) Events() *Emitter {
	if n.events == nil {
		n.events = NewEmitter()
	}
	return n.events
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Disposed nodes never intersect.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.UserData = nil
	n.events = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// effectivelyVisible reports whether n and every ancestor are visible.
func (n *Node) effectivelyVisible() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
