package heap

import "fmt"

/*
Verify walks every tree reachable from the heap and checks the structural
invariants: slot i holds a tree of order i, a tree of order k has children of
orders 0..k-1 and 2^k values, no child beats its parent, and every node's
reference count equals the number of slots in this heap pointing at it.

The count check assumes the heap shares no nodes with another heap, which is
always true between operations.
*/
func (h *Heap[V]) Verify() error {
	seen := map[*node[V]]uint32{}
	for i, root := range h.roots {
		if root == nil {
			if i == len(h.roots)-1 {
				return fmt.Errorf("trailing empty slot %d", i)
			}
			continue
		}
		if root.order != i {
			return fmt.Errorf("slot %d holds a tree of order %d", i, root.order)
		}
		seen[root]++
		if _, err := h.verifyTree(root, seen); err != nil {
			return err
		}
	}
	for n, count := range seen {
		if n.refs != count {
			return fmt.Errorf("node of order %d has %d references, %d slots point at it", n.order, n.refs, count)
		}
	}
	return nil
}

func (h *Heap[V]) verifyTree(n *node[V], seen map[*node[V]]uint32) (int, error) {
	if len(n.children) != n.order {
		return 0, fmt.Errorf("tree of order %d has %d children", n.order, len(n.children))
	}
	size := 1
	for i, child := range n.children {
		if child.order != i {
			return 0, fmt.Errorf("child %d of an order %d tree has order %d", i, n.order, child.order)
		}
		if h.directed(child.value, n.value) < 0 {
			return 0, fmt.Errorf("child %d of an order %d tree beats its parent", i, n.order)
		}
		seen[child]++
		sub, err := h.verifyTree(child, seen)
		if err != nil {
			return 0, err
		}
		size += sub
	}
	if size != n.size() {
		return 0, fmt.Errorf("tree of order %d holds %d values", n.order, size)
	}
	return size, nil
}
