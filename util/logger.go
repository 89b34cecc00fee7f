package util

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	alog "github.com/apex/log"
)

// colors.
const (
	none   = 0
	red    = 31
	green  = 32
	yellow = 33
	blue   = 34
	gray   = 37
)

// Colors mapping.
var Colors = [...]int{
	alog.DebugLevel: gray,
	alog.InfoLevel:  blue,
	alog.WarnLevel:  yellow,
	alog.ErrorLevel: red,
	alog.FatalLevel: red,
}

// Strings mapping.
var Strings = [...]string{
	alog.DebugLevel: "DEBUG",
	alog.InfoLevel:  "INFO",
	alog.WarnLevel:  "WARN",
	alog.ErrorLevel: "ERROR",
	alog.FatalLevel: "FATAL",
}

var (
	// LogInfo and LogDebug are cheap guards for callers that would
	// otherwise format an expensive message nobody reads.
	LogInfo  = false
	LogDebug = false

	logg alog.Interface = alog.Log
)

type LogHandler struct {
	mu     sync.Mutex
	Writer io.Writer
	Color  bool
}

func (h *LogHandler) HandleLog(e *alog.Entry) error {
	color := Colors[e.Level]
	if !h.Color {
		color = none
	}
	level := Strings[e.Level]
	names := e.Fields.Names()
	ts := time.Now().UTC().Format(TimestampFormat)

	h.mu.Lock()
	defer h.mu.Unlock()

	if color == none {
		fmt.Fprintf(h.Writer, "%6s %s %-25s", level, ts, e.Message)
		for _, name := range names {
			fmt.Fprintf(h.Writer, " %s=%v", name, e.Fields.Get(name))
		}
	} else {
		fmt.Fprintf(h.Writer, "\033[%dm%6s\033[0m %s %-25s", color, level, ts, e.Message)
		for _, name := range names {
			fmt.Fprintf(h.Writer, " \033[%dm%s\033[0m=%v", color, name, e.Fields.Get(name))
		}
	}

	fmt.Fprintln(h.Writer)
	return nil
}

// InitLogger sends all logging to stdout at the given level
// (debug, info, warn, error, fatal).
func InitLogger(level string) Logger {
	return InitLoggerTo(os.Stdout, isTTY(os.Stdout.Fd()), level)
}

func InitLoggerTo(w io.Writer, color bool, level string) Logger {
	lvl, err := alog.ParseLevel(level)
	if err != nil {
		lvl = alog.InfoLevel
	}

	logg = &alog.Logger{
		Handler: &LogHandler{Writer: w, Color: color},
		Level:   lvl,
	}
	LogInfo = lvl <= alog.InfoLevel
	LogDebug = lvl <= alog.DebugLevel
	return logg
}

// This generic logging interface hides
// apex/log or another impl
type Logger interface {
	Debug(arg string)
	Debugf(format string, args ...interface{})
	Info(arg string)
	Infof(format string, args ...interface{})
	Warn(arg string)
	Warnf(format string, args ...interface{})
	Error(arg string)
	Errorf(format string, args ...interface{})

	// Log and terminate process (unrecoverable)
	Fatal(arg string)

	// Log with fmt.Printf-like formatting and terminate process (unrecoverable)
	Fatalf(format string, args ...interface{})

	// Set key/value context for further logging with the returned logger
	WithField(key string, value interface{}) *alog.Entry

	// Set key/value context for further logging with the returned logger
	WithFields(keyValues alog.Fielder) *alog.Entry

	// Return a logger with the specified error set, to be included in a subsequent normal logging call
	WithError(err error) *alog.Entry
}

func Log() Logger {
	return logg
}

// Error logs err. At debug level the caller's stack is attached
// as a backtrace field.
func Error(msg string, err error) {
	entry := logg.WithError(err)
	if LogDebug {
		entry = entry.WithField("backtrace", strings.Join(Backtrace(8), " "))
	}
	entry.Error(msg)
}

func Errorf(msg string, args ...interface{}) {
	logg.Errorf(msg, args...)
}

func Warn(arg string) {
	logg.Warn(arg)
}

func Warnf(msg string, args ...interface{}) {
	logg.Warnf(msg, args...)
}

func Info(msg string) {
	logg.Info(msg)
}

func Infof(msg string, args ...interface{}) {
	logg.Infof(msg, args...)
}

func Debug(msg string) {
	logg.Debug(msg)
}

func Debugf(msg string, args ...interface{}) {
	logg.Debugf(msg, args...)
}
