package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/user"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/contribsys/binheap"
	"github.com/contribsys/binheap/heap"
	"github.com/contribsys/binheap/storage"
	"github.com/contribsys/binheap/util"
)

const helpMsg = `Valid commands:

new NAME [min|max]	create an empty heap
insert NAME V...	insert integer values
pop NAME		remove and print the best value
peek NAME		print the best value
merge DST SRC		move every value of SRC into DST
count NAME		number of values
free NAME		drop every value of NAME
check NAME		verify the heap's structure
load NAME KEY...	insert every value of one or more Redis lists
save NAME KEY		drain NAME onto the tail of a Redis list
fault N|off		fail every node link after the next N
list			list heaps and node usage
version
help`

var versionMsg = fmt.Sprintf("%s %s\n", binheap.Name, binheap.Version)

type opener func(ctx context.Context) (storage.Store, error)

type shell struct {
	ctx   context.Context
	out   io.Writer
	typ   heap.Type
	alloc *heap.Allocator
	heaps map[string]*heap.Heap[int64]

	open  opener
	store storage.Store
}

func newShell(ctx context.Context, out io.Writer, typ heap.Type, open opener) *shell {
	return &shell{
		ctx:   ctx,
		out:   out,
		typ:   typ,
		alloc: &heap.Allocator{},
		heaps: map[string]*heap.Heap[int64]{},
		open:  open,
	}
}

func repl(sh *shell) {
	fmt.Fprintf(sh.out, "%s %s, %s heaps by default\n", binheap.Name, binheap.Version, sh.typ)

	var completer = readline.NewPrefixCompleter(
		readline.PcItem("new"),
		readline.PcItem("insert"),
		readline.PcItem("pop"),
		readline.PcItem("peek"),
		readline.PcItem("merge"),
		readline.PcItem("count"),
		readline.PcItem("free"),
		readline.PcItem("check"),
		readline.PcItem("load"),
		readline.PcItem("save"),
		readline.PcItem("fault"),
		readline.PcItem("list"),
		readline.PcItem("version"),
		readline.PcItem("exit"),
		readline.PcItem("help"),
	)

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFilePath(),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		util.Error("Unable to start the shell", err)
		return
	}
	defer l.Close()

	// a signal unblocks Readline; the heaps are only touched by this goroutine
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sh.ctx.Done():
			l.Close()
		case <-done:
		}
	}()

	log.SetOutput(l.Stderr())
	sh.out = l.Stdout()
	for sh.ctx.Err() == nil {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			fmt.Fprintln(sh.out, "")
			break
		}

		cmd := strings.Fields(line)
		if len(cmd) == 0 {
			continue
		}
		if cmd[0] == "exit" || cmd[0] == "quit" {
			break
		}

		err = sh.execute(cmd)
		if err != nil {
			fmt.Fprintln(sh.out, err)
		}
	}
}

func (sh *shell) execute(cmd []string) error {
	if len(cmd) == 0 {
		return nil
	}
	if err := sh.ctx.Err(); err != nil {
		return err
	}
	first, args := cmd[0], cmd[1:]
	switch first {
	case "exit", "quit":
		return nil
	case "version":
		fmt.Fprint(sh.out, versionMsg)
	case "help":
		fmt.Fprintln(sh.out, helpMsg)
	case "new":
		return sh.create(args)
	case "insert":
		return sh.insert(args)
	case "pop":
		return sh.pop(args)
	case "peek":
		return sh.peek(args)
	case "merge":
		return sh.merge(args)
	case "count":
		return sh.count(args)
	case "free":
		return sh.free(args)
	case "check":
		return sh.check(args)
	case "load":
		return sh.load(args)
	case "save":
		return sh.save(args)
	case "fault":
		return sh.fault(args)
	case "list":
		sh.list()
	default:
		return fmt.Errorf("Unknown command: %v", cmd)
	}
	return nil
}

func (sh *shell) create(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("Usage: new NAME [min|max]")
	}
	name := args[0]
	if _, ok := sh.heaps[name]; ok {
		return fmt.Errorf("Heap %s already exists", name)
	}
	typ := sh.typ
	if len(args) == 2 {
		t, err := heap.ParseType(args[1])
		if err != nil {
			return err
		}
		typ = t
	}
	sh.heaps[name] = sh.newHeap(typ)
	fmt.Fprintln(sh.out, "OK")
	return nil
}

func (sh *shell) newHeap(typ heap.Type) *heap.Heap[int64] {
	return heap.New(typ, heap.Ordered[int64],
		heap.WithAllocator(sh.alloc),
		heap.WithTrace(util.Debugf))
}

// lookup finds a heap, creating it with the default type for insert and load.
func (sh *shell) lookup(name string, create bool) (*heap.Heap[int64], error) {
	h, ok := sh.heaps[name]
	if ok {
		return h, nil
	}
	if !create {
		return nil, fmt.Errorf("No such heap: %s", name)
	}
	h = sh.newHeap(sh.typ)
	sh.heaps[name] = h
	return h, nil
}

func (sh *shell) insert(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("Usage: insert NAME V...")
	}
	values, err := util.ParseInts(args[1:])
	if err != nil {
		return err
	}
	h, _ := sh.lookup(args[0], true)
	for idx, val := range values {
		if err := h.Insert(val); err != nil {
			return fmt.Errorf("Inserted %d of %d values: %w", idx, len(values), err)
		}
	}
	fmt.Fprintln(sh.out, h.Len())
	return nil
}

func (sh *shell) pop(args []string) error {
	h, err := sh.one(args, "pop")
	if err != nil {
		return err
	}
	val, ok, err := h.Pop()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(sh.out, "(empty)")
		return nil
	}
	fmt.Fprintln(sh.out, val)
	return nil
}

func (sh *shell) peek(args []string) error {
	h, err := sh.one(args, "peek")
	if err != nil {
		return err
	}
	val, ok := h.Peek()
	if !ok {
		fmt.Fprintln(sh.out, "(empty)")
		return nil
	}
	fmt.Fprintln(sh.out, val)
	return nil
}

func (sh *shell) merge(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("Usage: merge DST SRC")
	}
	dst, err := sh.lookup(args[0], false)
	if err != nil {
		return err
	}
	src, err := sh.lookup(args[1], false)
	if err != nil {
		return err
	}
	if err := dst.Merge(src); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, dst.Len())
	return nil
}

func (sh *shell) count(args []string) error {
	h, err := sh.one(args, "count")
	if err != nil {
		return err
	}
	fmt.Fprintln(sh.out, h.Len())
	return nil
}

func (sh *shell) free(args []string) error {
	h, err := sh.one(args, "free")
	if err != nil {
		return err
	}
	h.Free()
	fmt.Fprintln(sh.out, "OK")
	return nil
}

func (sh *shell) check(args []string) error {
	h, err := sh.one(args, "check")
	if err != nil {
		return err
	}
	if err := h.Verify(); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "OK orders=%v\n", h.Orders())
	return nil
}

func (sh *shell) load(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("Usage: load NAME KEY...")
	}
	store, err := sh.storage()
	if err != nil {
		return err
	}
	h, _ := sh.lookup(args[0], true)

	var count int
	if len(args) == 2 {
		count, err = storage.Fill(sh.ctx, store, args[1], h)
	} else {
		count, err = storage.FillAll(sh.ctx, store, args[1:], h)
	}
	if err != nil {
		return fmt.Errorf("Loaded %d values: %w", count, err)
	}
	fmt.Fprintln(sh.out, count)
	return nil
}

func (sh *shell) save(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("Usage: save NAME KEY")
	}
	h, err := sh.lookup(args[0], false)
	if err != nil {
		return err
	}
	store, err := sh.storage()
	if err != nil {
		return err
	}
	count, err := storage.Spill(sh.ctx, store, args[1], h)
	if err != nil {
		return fmt.Errorf("Saved %d values: %w", count, err)
	}
	fmt.Fprintln(sh.out, count)
	return nil
}

func (sh *shell) fault(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("Usage: fault N|off")
	}
	if args[0] == "off" {
		sh.alloc.Fault = nil
		fmt.Fprintln(sh.out, "OK")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("Usage: fault N|off")
	}
	sh.alloc.Fault = heap.FailAfter(n)
	fmt.Fprintln(sh.out, "OK")
	return nil
}

func (sh *shell) list() {
	names := make([]string, 0, len(sh.heaps))
	for name := range sh.heaps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		h := sh.heaps[name]
		fmt.Fprintf(sh.out, "%s\t%s\t%d\n", name, h.Type(), h.Len())
	}
	fmt.Fprintf(sh.out, "nodes live=%d allocated=%d memory=%s\n", sh.alloc.Live(), sh.alloc.Allocated(), util.MemoryUsage())
}

func (sh *shell) one(args []string, cmd string) (*heap.Heap[int64], error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("Usage: %s NAME", cmd)
	}
	return sh.lookup(args[0], false)
}

func (sh *shell) storage() (storage.Store, error) {
	if sh.store != nil {
		return sh.store, nil
	}
	if sh.open == nil {
		return nil, fmt.Errorf("No storage configured")
	}
	store, err := sh.open(sh.ctx)
	if err != nil {
		return nil, err
	}
	sh.store = store
	return store, nil
}

func (sh *shell) close() {
	for _, h := range sh.heaps {
		h.Free()
	}
	if sh.store != nil {
		if err := sh.store.Close(); err != nil {
			util.Warnf("Unable to close storage: %v", err)
		}
		sh.store = nil
	}
}

// historyFilePath returns the path of the history file
// $HOME/.local/.binheap.history
// if the .local folder does not exists, it will create it.
func historyFilePath() string {
	usr, err := user.Current()
	if err != nil {
		return ""
	}
	dir := usr.HomeDir + "/.local"
	historyFilePath := dir + "/.binheap.history"

	exists, err := util.FileExists(historyFilePath)
	if err != nil {
		return ""
	}

	if !exists {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			util.Error("Unable to create $HOME/.local dir", err)
			return ""
		}
	}

	return historyFilePath
}
