package tlogger

import (
	"io"
	"os"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var (
	mu       sync.Mutex
	hlog     log.Logger
	out      io.Writer = os.Stdout
	minLevel           = "info"
	applied  bool
)

func init() {
	rebuild()
}

func rebuild() {
	base := log.NewSyncLogger(log.NewLogfmtLogger(out))
	hlog = log.With(base, "ts", log.DefaultTimestampUTC, "caller", log.Caller(6))
	hlog = level.NewFilter(hlog, levelOption(minLevel))
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	case "all":
		return level.AllowAll()
	default:
		return level.AllowInfo()
	}
}

// ApplyLogLevel applies min logging level. Only the first call per process has an effect.
func ApplyLogLevel(lvl string) {
	mu.Lock()
	defer mu.Unlock()
	if applied {
		return
	}
	applied = true
	minLevel = lvl
	rebuild()
}

// ApplyVerbosity maps a -v counter to a log level
func ApplyVerbosity(v int) {
	switch v {
	case 0:
		ApplyLogLevel("info")
	case 1:
		ApplyLogLevel("debug")
	default:
		ApplyLogLevel("all")
	}
}

// SetOutput redirects every log line to w and resets the level to lvl.
// Meant for tests.
func SetOutput(w io.Writer, lvl string) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	minLevel = lvl
	rebuild()
}

// Debug add a log entry w/ Debug level
func Debug(keyvals ...interface{}) {
	level.Debug(hlog).Log(keyvals...)
}

// Info add a log entry w/ Info level
func Info(keyvals ...interface{}) {
	level.Info(hlog).Log(keyvals...)
}

// Warn add a log entry w/ Warn level
func Warn(keyvals ...interface{}) {
	level.Warn(hlog).Log(keyvals...)
}

// Error add a log entry w/ Error level
func Error(keyvals ...interface{}) {
	level.Error(hlog).Log(keyvals...)
}

// Dump renders v for debug output
func Dump(v interface{}) string {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	return cfg.Sdump(v)
}

// Fatal add a log entry w/ Error level and exits
func Fatal(keyvals ...interface{}) {
	level.Error(hlog).Log(keyvals...)
	os.Exit(1)
}

// FatalIf prints a fatal Error level and exits if err != nil
func FatalIf(err error) {
	if err == nil {
		return
	}
	level.Error(hlog).Log("err", err)
	os.Exit(1)
}
