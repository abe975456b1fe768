// Package log hands out named, leveled loggers backed by go-logging.
// Render workers log concurrently, so everything funnels through one
// backend configured here.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level selects the minimum severity that reaches the sink.
type Level logging.Level

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var backendLevels = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

var leveled logging.LeveledBackend

// Logger is the surface packages log through. Each package holds one,
// created with New at init time.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger registered under name. The name shows up as the
// module tag in every line.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink points the shared backend at a new writer, resetting the level
// to Notice.
func SetSink(sink io.Writer) {
	format := logging.MustStringFormatter(
		`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
	)
	backend := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	leveled = logging.AddModuleLevel(backend)
	leveled.SetLevel(logging.NOTICE, "")
	logging.SetBackend(leveled)
}

// SetLevel changes the minimum severity for all modules.
func SetLevel(level Level) {
	leveled.SetLevel(backendLevels[level], "")
}

func init() {
	SetSink(os.Stdout)
}
