package heap

/*
union adds two root lists the way binary numbers are added. Slot i of either
list is bit i; the carry out of position i is the order i+1 tree made by
linking the two order i trees that collided there.

At each position the occupied slots and the incoming carry vote, in that
order. An odd number of votes leaves the last one as the result's root at i.
Two or more votes link the first two into the outgoing carry.

Neither a nor b is modified and none of their references are consumed: the
returned list holds its own reference on every root. On failure everything
built so far is released and the caller's lists are exactly as they were.
*/
func (h *Heap[V]) union(a, b []*node[V]) ([]*node[V], error) {
	width := max(len(a), len(b))
	result := make([]*node[V], 0, width+1)

	var carry *node[V]
	for i := 0; i <= width; i++ {
		var votes [3]*node[V]
		n := 0
		if i < len(a) && a[i] != nil {
			votes[n] = a[i]
			n++
		}
		if i < len(b) && b[i] != nil {
			votes[n] = b[i]
			n++
		}
		if carry != nil {
			votes[n] = carry
			n++
		}

		var next *node[V]
		if n >= 2 {
			linked, err := h.mergePair(votes[0], votes[1])
			if err != nil {
				h.tracef("merge aborted at order %d: %v", i, err)
				release(result)
				if carry != nil {
					carry.unref()
				}
				return nil, err
			}
			next = linked
		}

		var root *node[V]
		if n%2 == 1 {
			root = votes[n-1]
			root.ref()
		}
		result = append(result, root)

		// the carry is now a root or a child of next, drop the carry slot
		if carry != nil {
			carry.unref()
		}
		carry = next
	}

	return trim(result), nil
}

// release drops the reference held by every occupied slot.
func release[V any](roots []*node[V]) {
	for _, root := range roots {
		if root != nil {
			root.unref()
		}
	}
}

func trim[V any](roots []*node[V]) []*node[V] {
	n := len(roots)
	for n > 0 && roots[n-1] == nil {
		n--
	}
	return roots[:n]
}
