// Package binheap is a mergeable priority queue built on binomial trees.
// The data structure lives in the heap package; storage moves values
// between Redis lists and heaps; cmd/binheap is an interactive shell.
package binheap

var (
	Name      = "binheap"
	License   = "GPLv3"
	Licensing = "Licensed under the GNU Public License 3.0"
	Version   = "0.1.0"
)
