package heap

/*
node is a binomial tree. A tree of order k holds 2^k values and has exactly k
children whose orders are 0, 1, ..., k-1, so children[i] has order i and the
child list doubles as a root list. Its value is no worse than any value below
it, as judged by the owning heap's directed comparison.

refs counts the slots that point at this node: heap root slots, the pending
carry of an in-flight merge, and parents' child lists. There are no parent
pointers, so the graph stays acyclic and counting is enough.
*/
type node[V any] struct {
	value    V
	order    int
	refs     uint32
	children []*node[V]
	alloc    *Allocator
}

func newLeaf[V any](a *Allocator, value V) *node[V] {
	// leaves are never refused
	_ = a.reserve(false)
	return &node[V]{value: value, refs: 1, alloc: a}
}

func (n *node[V]) ref() {
	n.refs++
}

// unref drops one reference. The node is torn down when the last one goes,
// releasing each child in turn.
func (n *node[V]) unref() {
	n.refs--
	if n.refs > 0 {
		return
	}
	for i, child := range n.children {
		child.unref()
		n.children[i] = nil
	}
	n.children = nil
	var zero V
	n.value = zero
	n.alloc.release()
}

// size is 2^order.
func (n *node[V]) size() int {
	return 1 << n.order
}

/*
mergePair links two trees of equal order into a new tree one order higher.
t1 wins ties. The new node copies the winner's value, shares the winner's
children and takes the loser as its last child; every one of those children
gains a reference from the new child list. Neither input is modified.

The only failure is the allocator refusing the new node, in which case no
reference count has moved.
*/
func (h *Heap[V]) mergePair(t1, t2 *node[V]) (*node[V], error) {
	winner, loser := t1, t2
	if h.directed(t1.value, t2.value) > 0 {
		winner, loser = t2, t1
	}

	if err := h.alloc.reserve(true); err != nil {
		return nil, err
	}

	children := make([]*node[V], 0, len(winner.children)+1)
	children = append(children, winner.children...)
	children = append(children, loser)
	for _, child := range children {
		child.ref()
	}

	return &node[V]{
		value:    winner.value,
		order:    t1.order + 1,
		refs:     1,
		children: children,
		alloc:    h.alloc,
	}, nil
}
