package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contribsys/binheap"
	"github.com/contribsys/binheap/heap"
	"github.com/contribsys/binheap/util"
)

type CmdOptions struct {
	ConfigFile   string
	LogLevel     string
	HeapType     string
	RedisURL     string
	FailAfter    int
	GlobalConfig map[string]any

	// non-flag arguments, a command to run instead of the shell
	Args []string
}

var (
	DefaultRedisURL = "redis://localhost:6379/0"

	StartupInfo = func() {
		log.Println(binheap.Licensing)
	}
)

// ParseArguments parses os.Args, exiting on -h, -v or a bad config file.
func ParseArguments() CmdOptions {
	log.SetFlags(0)
	log.Println(binheap.Name, binheap.Version)
	log.Println(fmt.Sprintf("Copyright © %d Contributed Systems LLC", time.Now().Year()))

	if StartupInfo != nil {
		StartupInfo()
	}

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.Usage = func() { help(os.Stderr) }
	opts, err := ParseArgs(fs, os.Args[1:])
	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
	return opts
}

/*
ParseArgs fills CmdOptions from defaults, then the TOML file named by -c, then
any flag given explicitly on the command line. Non-flag arguments are left in
fs.Args().
*/
func ParseArgs(fs *flag.FlagSet, args []string) (CmdOptions, error) {
	opts := CmdOptions{
		LogLevel:  "warn",
		HeapType:  heap.Min.String(),
		RedisURL:  DefaultRedisURL,
		FailAfter: -1,
	}

	fs.StringVar(&opts.ConfigFile, "c", "", "TOML configuration file")
	fs.StringVar(&opts.LogLevel, "l", opts.LogLevel, "Logging level (error, warn, info, debug)")
	fs.StringVar(&opts.HeapType, "t", opts.HeapType, "Default heap type (min, max)")
	fs.StringVar(&opts.RedisURL, "r", opts.RedisURL, "Redis URL for load and save")
	// undocumented on purpose, for exercising rollback by hand
	fs.IntVar(&opts.FailAfter, "f", opts.FailAfter, "")
	versionPtr := fs.Bool("v", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if *versionPtr {
		fmt.Println(binheap.Name, binheap.Version)
		return opts, flag.ErrHelp
	}

	opts.Args = fs.Args()

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	opts.GlobalConfig = map[string]any{}
	if opts.ConfigFile != "" {
		cfg, err := LoadConfig(opts.ConfigFile)
		if err != nil {
			return opts, err
		}
		opts.GlobalConfig = cfg
	}

	if !explicit["l"] {
		opts.LogLevel = opts.String("log", "level", opts.LogLevel)
	}
	if !explicit["t"] {
		opts.HeapType = opts.String("heap", "type", opts.HeapType)
	}
	if !explicit["r"] {
		opts.RedisURL = opts.String("redis", "url", opts.RedisURL)
	}
	if !explicit["f"] {
		opts.FailAfter = opts.Int("fault", "fail_after", opts.FailAfter)
	}

	if _, err := heap.ParseType(opts.HeapType); err != nil {
		return opts, err
	}
	return opts, nil
}

func help(w io.Writer) {
	fmt.Fprintln(w, "Usage: binheap [flags] [command args...]")
	fmt.Fprintln(w, "-c [file]\tTOML configuration file")
	fmt.Fprintln(w, "-l [level]\tSet logging level (error, warn, info, debug), default: warn")
	fmt.Fprintln(w, "-t [type]\tDefault heap type (min, max), default: min")
	fmt.Fprintln(w, "-r [url]\tRedis URL used by load and save, default: "+DefaultRedisURL)
	fmt.Fprintln(w, "-v\t\tShow version and license information")
	fmt.Fprintln(w, "-h\t\tThis help screen")
}

var (
	Term os.Signal = syscall.SIGTERM
	Hup  os.Signal = syscall.SIGHUP
)

/*
SignalContext returns a context cancelled by the first SIGTERM, SIGHUP or
interrupt. Nothing is torn down from the signal goroutine; whoever owns the
heaps notices the cancellation and cleans up on its own goroutine.
*/
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, Term, Hup, os.Interrupt)

	go func() {
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			util.Debugf("Received signal %v", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
