package heap

import (
	"cmp"
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Type selects which end of the ordering a heap yields first.
type Type int

const (
	Min Type = iota
	Max
)

func (t Type) String() string {
	switch t {
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	default:
		return Min, fmt.Errorf("Invalid heap type: %q", name)
	}
}

/*
Compare is the caller's three-way ordering: negative when a sorts before b,
zero when they tie, positive otherwise. It must be a total order over V.
The heap captures it once at construction and never swaps it out.
*/
type Compare[V any] func(a, b V) int

// Ordered is a Compare for any ordered builtin type.
func Ordered[V constraints.Ordered](a, b V) int {
	return cmp.Compare(a, b)
}

// directed folds the heap type into the comparator. A negative result
// means a is the better root.
func (h *Heap[V]) directed(a, b V) int {
	c := h.compare(a, b)
	if h.typ == Max {
		return -c
	}
	return c
}
