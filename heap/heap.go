package heap

/*
Heap is a binomial heap: a list of binomial trees indexed by order, where slot
i is either empty or holds a tree of order exactly i. The occupied slots spell
out the number of values in binary.

Every mutating operation is built on one merge of root lists. Either the whole
operation succeeds or the heap (and, for Merge, both heaps) is left exactly as
it was before the call.

A Heap must not be used from more than one goroutine at a time. Merging two
heaps touches both, so callers must serialize access to the pair.
*/
type Heap[V any] struct {
	typ     Type
	compare Compare[V]
	roots   []*node[V]
	alloc   *Allocator
	trace   func(format string, args ...any)
}

type Option func(*options)

type options struct {
	alloc *Allocator
	trace func(string, ...any)
}

// WithAllocator charges nodes to a and lets a.Fault refuse links.
func WithAllocator(a *Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithTrace receives a line for each aborted merge.
func WithTrace(fn func(format string, args ...any)) Option {
	return func(o *options) {
		o.trace = fn
	}
}

/*
Create a new, empty heap. compare is captured for the lifetime of the heap;
typ decides whether the smallest (Min) or largest (Max) value comes out first.
*/
func New[V any](typ Type, compare Compare[V], opts ...Option) *Heap[V] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.alloc == nil {
		o.alloc = &Allocator{}
	}
	return &Heap[V]{
		typ:     typ,
		compare: compare,
		alloc:   o.alloc,
		trace:   o.trace,
	}
}

func (h *Heap[V]) Type() Type {
	return h.typ
}

func (h *Heap[V]) Allocator() *Allocator {
	return h.alloc
}

/*
Insert adds a value. The value becomes a one-node tree that is merged into the
heap exactly as another heap would be. On error the heap is unchanged.
*/
func (h *Heap[V]) Insert(value V) error {
	leaf := newLeaf(h.alloc, value)

	result, err := h.union(h.roots, []*node[V]{leaf})
	if err != nil {
		leaf.unref()
		return err
	}
	h.commit(result)

	// the root list holds its own reference now
	leaf.unref()
	return nil
}

/*
Pop removes and returns the best value: the smallest for a Min heap, the
largest for a Max heap. Among equal roots the one of lowest order is taken.
ok is false when the heap is empty; that is not an error.

The winning tree's children already form a valid root list, so they are merged
back into the remaining roots. If that merge fails the winner never left its
slot and the heap is unchanged.
*/
func (h *Heap[V]) Pop() (value V, ok bool, err error) {
	idx := h.best()
	if idx < 0 {
		return value, false, nil
	}
	winner := h.roots[idx]

	rest := make([]*node[V], len(h.roots))
	copy(rest, h.roots)
	rest[idx] = nil

	result, err := h.union(rest, winner.children)
	if err != nil {
		return value, false, err
	}
	release(rest)
	h.roots = result

	value = winner.value
	winner.unref()
	return value, true, nil
}

// Peek returns the value Pop would return, without removing it.
func (h *Heap[V]) Peek() (value V, ok bool) {
	idx := h.best()
	if idx < 0 {
		return value, false
	}
	return h.roots[idx].value, true
}

/*
Merge moves every value of other into h. On success other is left empty and
may be reused. On error both heaps are exactly as they were.

The two heaps should share a comparator; only their types are checked.
*/
func (h *Heap[V]) Merge(other *Heap[V]) error {
	if other == h {
		return ErrSelfMerge
	}
	if other.typ != h.typ {
		return ErrTypeMismatch
	}
	if len(other.roots) == 0 {
		return nil
	}

	result, err := h.union(h.roots, other.roots)
	if err != nil {
		return err
	}
	h.commit(result)

	release(other.roots)
	other.roots = nil
	return nil
}

// Len counts the values by summing 2^order over the occupied slots.
func (h *Heap[V]) Len() int {
	total := 0
	for _, root := range h.roots {
		if root != nil {
			total += root.size()
		}
	}
	return total
}

func (h *Heap[V]) Empty() bool {
	return len(h.roots) == 0
}

// Orders lists the occupied root orders, ascending.
func (h *Heap[V]) Orders() []int {
	orders := make([]int, 0, len(h.roots))
	for i, root := range h.roots {
		if root != nil {
			orders = append(orders, i)
		}
	}
	return orders
}

// Free drops every tree. The heap is empty afterwards and can be reused.
func (h *Heap[V]) Free() {
	release(h.roots)
	h.roots = nil
}

/*
Drain pops until the heap is empty, handing each value to fn in priority
order. It stops at the first error from fn (the value passed to that call has
already left the heap) or from Pop.
*/
func (h *Heap[V]) Drain(fn func(V) error) error {
	for {
		value, ok, err := h.Pop()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(value); err != nil {
			return err
		}
	}
}

// commit installs a freshly built root list, releasing the old one.
func (h *Heap[V]) commit(result []*node[V]) {
	release(h.roots)
	h.roots = result
}

// best returns the slot of the best root, or -1 when the heap is empty.
func (h *Heap[V]) best() int {
	idx := -1
	for i, root := range h.roots {
		if root == nil {
			continue
		}
		if idx < 0 || h.directed(root.value, h.roots[idx].value) < 0 {
			idx = i
		}
	}
	return idx
}

func (h *Heap[V]) tracef(format string, args ...any) {
	if h.trace != nil {
		h.trace(format, args...)
	}
}
