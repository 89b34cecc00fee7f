package storage

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/contribsys/binheap/util"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	Name    string
	rclient *redis.Client
}

var (
	instances  = map[string]*exec.Cmd{}
	redisMutex = sync.Mutex{}
)

const redisconf = `
# binheap %s
bind 127.0.0.1 ::1
port 0
save ""
appendonly no
`

/*
BootRedis starts a private redis-server listening on the unix socket sock,
with its working directory at path. It is meant for tests and local play; a
running server at sock is reused.
*/
func BootRedis(path string, sock string) (func(), error) {
	redisMutex.Lock()
	defer redisMutex.Unlock()
	if _, ok := instances[sock]; ok {
		return func() { _ = StopRedis(sock) }, nil
	}
	util.Infof("Initializing redis at %s, socket %s", path, sock)

	err := os.MkdirAll(path, os.ModeDir|0755)
	if err != nil {
		return nil, err
	}

	conffilename := filepath.Join(path, "redis.conf")
	err = os.WriteFile(conffilename, []byte(fmt.Sprintf(redisconf, sock)), 0644)
	if err != nil {
		return nil, err
	}

	binary, err := exec.LookPath("redis-server")
	if err != nil {
		return nil, err
	}
	util.Debugf("Booting Redis found at %s", binary)

	loglevel := "notice"
	if util.LogDebug {
		loglevel = "verbose"
	}
	arguments := []string{
		binary,
		conffilename,
		"--unixsocket",
		sock,
		"--loglevel",
		loglevel,
		"--dir",
		path,
	}

	cmd := exec.Command(arguments[0], arguments[1:]...)
	util.EnsureChildShutdown(cmd, util.SIGTERM)
	err = cmd.Start()
	if err != nil {
		return nil, err
	}
	instances[sock] = cmd

	// wait a few seconds for Redis to start
	start := time.Now()
	for i := 0; i < 1000; i++ {
		conn, err := net.Dial("unix", sock)
		if err == nil {
			conn.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	util.Debugf("Redis booted in %s", time.Since(start))

	return func() { _ = StopRedis(sock) }, nil
}

func StopRedis(sock string) error {
	redisMutex.Lock()
	defer redisMutex.Unlock()

	cmd, ok := instances[sock]
	if !ok {
		return errors.New("No such redis instance " + sock)
	}
	delete(instances, sock)

	util.Infof("Shutting down Redis PID %d", cmd.Process.Pid)
	p := cmd.Process
	err := p.Signal(syscall.SIGTERM)
	if err != nil {
		return err
	}
	_, err = p.Wait()
	return err
}

// Open connects to the Redis server at url, e.g. redis://localhost:6379/0.
func Open(ctx context.Context, url string) (Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid redis URL %q", url)
	}
	return open(ctx, url, opts)
}

// OpenSocket connects to a server booted with BootRedis.
func OpenSocket(ctx context.Context, sock string) (Store, error) {
	return open(ctx, sock, &redis.Options{
		Network: "unix",
		Addr:    sock,
	})
}

func open(ctx context.Context, name string, opts *redis.Options) (Store, error) {
	rs := &redisStore{
		Name:    name,
		rclient: redis.NewClient(opts),
	}
	if err := rs.Ping(ctx); err != nil {
		rs.rclient.Close()
		return nil, errors.Wrapf(err, "Unable to reach redis at %s", name)
	}
	util.Debugf("Connected to redis at %s", name)
	return rs, nil
}

func (store *redisStore) Ping(ctx context.Context) error {
	return store.rclient.Ping(ctx).Err()
}

func (store *redisStore) Close() error {
	util.Debug("Closing redis connection")
	return store.rclient.Close()
}
