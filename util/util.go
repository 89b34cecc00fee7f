package util

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const (
	SIGHUP  = 0x1
	SIGINT  = 0x2
	SIGQUIT = 0x3
	SIGTERM = 0xF

	// Log timestamps. Always UTC, lexigraphically sortable.
	TimestampFormat = time.RFC3339Nano
)

// FileExists checks if given file exists
func FileExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ParseInts parses each field as a base 10 int64, failing on the
// first field that isn't one.
func ParseInts(fields []string) ([]int64, error) {
	values := make([]int64, 0, len(fields))
	for _, field := range fields {
		val, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Not an integer: %q", field)
		}
		values = append(values, val)
	}
	return values, nil
}

func MemoryUsage() string {
	m := runtime.MemStats{}
	runtime.ReadMemStats(&m)
	mb := m.Sys / 1024 / 1024
	return fmt.Sprintf("%v MB", mb)
}

// Backtrace gathers a backtrace for the caller.
// Return a slice of up to N stack frames.
func Backtrace(size int) []string {
	pc := make([]uintptr, size)
	n := runtime.Callers(2, pc)
	if n == 0 {
		return []string{}
	}

	pc = pc[:n] // pass only valid pcs to runtime.CallersFrames
	frames := runtime.CallersFrames(pc)

	str := make([]string, size)
	count := 0

	for i := 0; i < size; i++ {
		frame, more := frames.Next()
		str[i] = fmt.Sprintf("in %s:%d %s", frame.File, frame.Line, frame.Function)
		count++
		if !more {
			break
		}
	}

	return str[0:count]
}
