package storage

import (
	"context"

	"github.com/contribsys/binheap/heap"
	"github.com/contribsys/binheap/util"
	"github.com/pkg/errors"
)

// SpillBatch is how many popped values are pushed to Redis per round trip.
var SpillBatch = 1000

/*
Fill inserts every member of the list into h and returns how many went in.
It stops at the first failed insert; values inserted before that stay in h.
*/
func Fill(ctx context.Context, store Store, key string, h *heap.Heap[int64]) (int, error) {
	count := 0
	err := store.Load(ctx, key, func(val int64) error {
		if err := h.Insert(val); err != nil {
			return errors.Wrapf(err, "Unable to insert %d from %s", val, key)
		}
		count++
		return nil
	})
	util.Debugf("Filled %d values from %s", count, key)
	return count, err
}

/*
FillAll fetches several lists at once and inserts their members into h,
list by list in the order of keys. It stops at the first failed insert.
*/
func FillAll(ctx context.Context, store Store, keys []string, h *heap.Heap[int64]) (int, error) {
	lists, err := store.LoadAll(ctx, keys)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, key := range keys {
		for _, val := range lists[key] {
			if err := h.Insert(val); err != nil {
				return count, errors.Wrapf(err, "Unable to insert %d from %s", val, key)
			}
			count++
		}
	}
	util.Debugf("Filled %d values from %d lists", count, len(keys))
	return count, nil
}

/*
Spill drains h onto the tail of the list in priority order and returns how
many values were written. If a push fails, the values of that batch are put
back into h, so nothing popped is lost.
*/
func Spill(ctx context.Context, store Store, key string, h *heap.Heap[int64]) (int, error) {
	size := SpillBatch
	if size < 1 {
		size = 1
	}
	written := 0
	batch := make([]int64, 0, size)

	flush := func() error {
		if err := store.Append(ctx, key, batch...); err != nil {
			for _, val := range batch {
				if ierr := h.Insert(val); ierr != nil {
					util.Warnf("Lost value %d while restoring %s: %v", val, key, ierr)
				}
			}
			batch = batch[:0]
			return err
		}
		written += len(batch)
		batch = batch[:0]
		return nil
	}

	err := h.Drain(func(val int64) error {
		batch = append(batch, val)
		if len(batch) >= size {
			return flush()
		}
		return nil
	})
	// a failed Pop still leaves this batch out of the heap
	if len(batch) > 0 {
		if ferr := flush(); err == nil {
			err = ferr
		}
	}
	util.Debugf("Spilled %d values to %s", written, key)
	return written, err
}
