package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/contribsys/binheap/heap"
	"github.com/contribsys/binheap/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listStore struct {
	lists  map[string][]int64
	closed bool
}

func (s *listStore) Close() error                   { s.closed = true; return nil }
func (s *listStore) Ping(ctx context.Context) error { return nil }

func (s *listStore) Load(ctx context.Context, key string, fn func(int64) error) error {
	for _, v := range s.lists[key] {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *listStore) LoadAll(ctx context.Context, keys []string) (map[string][]int64, error) {
	out := map[string][]int64{}
	for _, key := range keys {
		out[key] = s.lists[key]
	}
	return out, nil
}

func (s *listStore) Append(ctx context.Context, key string, values ...int64) error {
	s.lists[key] = append(s.lists[key], values...)
	return nil
}

func (s *listStore) Size(ctx context.Context, key string) (int64, error) {
	return int64(len(s.lists[key])), nil
}

func (s *listStore) Clear(ctx context.Context, key string) error {
	delete(s.lists, key)
	return nil
}

func newTestShell(store *listStore) (*shell, *bytes.Buffer) {
	var out bytes.Buffer
	sh := newShell(context.Background(), &out, heap.Min, func(ctx context.Context) (storage.Store, error) {
		if store == nil {
			return nil, errors.New("redis is down")
		}
		return store, nil
	})
	return sh, &out
}

// run executes each line and returns what the last one printed.
func run(t *testing.T, sh *shell, out *bytes.Buffer, lines ...string) string {
	t.Helper()
	for _, line := range lines {
		out.Reset()
		require.NoError(t, sh.execute(strings.Fields(line)), line)
	}
	return strings.TrimSpace(out.String())
}

func TestInsertPop(t *testing.T) {
	sh, out := newTestShell(nil)

	assert.Equal(t, "3", run(t, sh, out, "insert jobs 5 1 3"))
	assert.Equal(t, "1", run(t, sh, out, "peek jobs"))
	assert.Equal(t, "1", run(t, sh, out, "pop jobs"))
	assert.Equal(t, "3", run(t, sh, out, "pop jobs"))
	assert.Equal(t, "1", run(t, sh, out, "count jobs"))
	assert.Equal(t, "5", run(t, sh, out, "pop jobs"))
	assert.Equal(t, "(empty)", run(t, sh, out, "pop jobs"))
	assert.Equal(t, "(empty)", run(t, sh, out, "peek jobs"))
}

func TestMaxHeapAndMerge(t *testing.T) {
	sh, out := newTestShell(nil)

	run(t, sh, out, "new a max", "new b max", "insert a 1 3 5", "insert b 2 4 6")
	assert.Equal(t, "6", run(t, sh, out, "merge a b"))
	assert.Equal(t, "0", run(t, sh, out, "count b"))
	assert.Contains(t, run(t, sh, out, "check a"), "OK orders=[1 2]")

	for _, want := range []string{"6", "5", "4", "3", "2", "1"} {
		assert.Equal(t, want, run(t, sh, out, "pop a"))
	}

	list := run(t, sh, out, "list")
	assert.Contains(t, list, "a\tmax\t0")
	assert.Contains(t, list, "nodes live=0")
	assert.Contains(t, list, "memory=")
}

func TestFaultCommand(t *testing.T) {
	sh, out := newTestShell(nil)
	run(t, sh, out, "insert a 1 2 3", "insert b 4")

	run(t, sh, out, "fault 0")
	err := sh.execute([]string{"merge", "a", "b"})
	assert.ErrorIs(t, err, heap.ErrNodeAlloc)
	assert.Equal(t, "3", run(t, sh, out, "count a"))
	assert.Equal(t, "1", run(t, sh, out, "count b"))
	assert.Contains(t, run(t, sh, out, "check a"), "OK")

	run(t, sh, out, "fault off")
	assert.Equal(t, "4", run(t, sh, out, "merge a b"))
}

func TestLoadSave(t *testing.T) {
	store := &listStore{lists: map[string][]int64{"in": {9, 2, 7}}}
	sh, out := newTestShell(store)

	assert.Equal(t, "3", run(t, sh, out, "load q in"))
	assert.Equal(t, "3", run(t, sh, out, "save q out"))
	assert.Equal(t, []int64{2, 7, 9}, store.lists["out"])
	assert.Equal(t, "0", run(t, sh, out, "count q"))

	sh.close()
	assert.True(t, store.closed)
}

func TestLoadMany(t *testing.T) {
	store := &listStore{lists: map[string][]int64{"a": {9, 2}, "b": {7}, "c": {4, 1}}}
	sh, out := newTestShell(store)

	assert.Equal(t, "5", run(t, sh, out, "load q a b c"))
	assert.Contains(t, run(t, sh, out, "check q"), "OK")
	assert.Equal(t, "5", run(t, sh, out, "save q out"))
	assert.Equal(t, []int64{1, 2, 4, 7, 9}, store.lists["out"])
}

func TestCancelledShell(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	sh := newShell(ctx, &out, heap.Min, func(ctx context.Context) (storage.Store, error) {
		return nil, errors.New("redis is down")
	})

	require.NoError(t, sh.execute([]string{"insert", "q", "1", "2"}))
	cancel()

	assert.ErrorIs(t, sh.execute([]string{"pop", "q"}), context.Canceled)
	assert.Equal(t, 2, sh.heaps["q"].Len())

	sh.close()
	assert.Equal(t, 0, sh.heaps["q"].Len())
}

func TestErrors(t *testing.T) {
	sh, out := newTestShell(nil)

	for _, line := range []string{
		"bogus",
		"pop missing",
		"new",
		"new x median",
		"insert x one",
		"merge x",
		"fault soon",
		"load q in",
		"load q",
		"save missing out",
	} {
		assert.Error(t, sh.execute(strings.Fields(line)), line)
	}

	run(t, sh, out, "new x")
	assert.Error(t, sh.execute([]string{"new", "x"}))
	assert.ErrorIs(t, sh.execute([]string{"merge", "x", "x"}), heap.ErrSelfMerge)

	assert.Contains(t, run(t, sh, out, "help"), "Valid commands")
	assert.Contains(t, run(t, sh, out, "version"), "binheap")
}
