package main

import (
	"context"
	"fmt"
	"os"

	"github.com/contribsys/binheap/cli"
	"github.com/contribsys/binheap/heap"
	"github.com/contribsys/binheap/storage"
	"github.com/contribsys/binheap/util"
)

// binheap is a small shell over named int64 heaps, with Redis lists as
// a place to load values from and spill them to.
func main() {
	opts := cli.ParseArguments()

	// This takes over the default logger in `log` and gives us
	// extra powers for adding fields, errors to log output.
	util.InitLogger(opts.LogLevel)
	util.Debugf("Options: %+v", opts)

	ctx, cancel := cli.SignalContext(context.Background())
	defer cancel()

	typ, _ := heap.ParseType(opts.HeapType)
	sh := newShell(ctx, os.Stdout, typ, func(ctx context.Context) (storage.Store, error) {
		return storage.Open(ctx, opts.RedisURL)
	})
	if opts.FailAfter >= 0 {
		sh.alloc.Fault = heap.FailAfter(opts.FailAfter)
	}

	if len(opts.Args) == 0 {
		repl(sh)
		sh.close()
		return
	}

	// a signal cancels ctx; cleanup stays on this goroutine
	err := sh.execute(opts.Args)
	sh.close()
	if err != nil {
		fmt.Println(err)
		cancel()
		os.Exit(-1)
	}
}
