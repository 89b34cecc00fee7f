package heap

/*
Allocator accounts for every tree node a heap builds and releases, and is the
single place where node construction can be refused. Several heaps may share
one Allocator; merging heaps that use different allocators is allowed, new
nodes are charged to the receiving heap's allocator.

An Allocator is not safe for concurrent use, exactly like the heaps using it.
*/
type Allocator struct {
	// Fault is consulted each time two trees are linked. nil never fails.
	Fault Injector

	live      int64
	allocated int64
}

func NewAllocator(fault Injector) *Allocator {
	return &Allocator{Fault: fault}
}

// Live is the number of nodes built and not yet destroyed.
func (a *Allocator) Live() int64 {
	return a.live
}

// Allocated is the total number of nodes ever built.
func (a *Allocator) Allocated() int64 {
	return a.allocated
}

// reserve charges one node. Leaves are never refused, links may be.
func (a *Allocator) reserve(link bool) error {
	if link && a.Fault != nil && a.Fault.Fail() {
		return ErrNodeAlloc
	}
	a.live++
	a.allocated++
	return nil
}

func (a *Allocator) release() {
	a.live--
}
