package heap

import "errors"

var (
	// ErrNodeAlloc is returned when the allocator refuses to build a merged
	// node. The heaps involved are left exactly as they were.
	ErrNodeAlloc = errors.New("cannot construct node")

	ErrSelfMerge    = errors.New("cannot merge a heap into itself")
	ErrTypeMismatch = errors.New("cannot merge heaps of different types")
)

// Injector decides whether the next node construction should fail.
type Injector interface {
	Fail() bool
}

type InjectorFunc func() bool

func (f InjectorFunc) Fail() bool {
	return f()
}

// FailNever is the default injector.
var FailNever Injector = InjectorFunc(func() bool { return false })

/*
FailAfter lets n constructions succeed and refuses every one after that.
Useful for walking a fault through every step of a merge: run the same
operation with n = 0, 1, 2, ... until it succeeds.
*/
func FailAfter(n int) Injector {
	remaining := n
	return InjectorFunc(func() bool {
		if remaining <= 0 {
			return true
		}
		remaining--
		return false
	})
}

// FailEvery refuses every n-th construction. n <= 0 never fails.
func FailEvery(n int) Injector {
	count := 0
	return InjectorFunc(func() bool {
		if n <= 0 {
			return false
		}
		count++
		return count%n == 0
	})
}
