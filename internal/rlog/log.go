// Package rlog provides the leveled, optionally rotating-file logger used throughout
// ragengine. It mirrors the teacher's own ambient logging package: a severity-gated
// package-level logger with a pluggable backend, rather than a structured logging
// library, since none is used anywhere in the retrieved pack for this purpose.
package rlog

import (
	"fmt"
	"log"

	"github.com/natefinch/lumberjack"
)

// Severity is the minimum level a message must carry to be emitted.
type Severity uint

const (
	DebugMode Severity = iota
	InfoMode
	WarningMode
	ErrorMode
	SilentMode
)

// Logger is the interface consumed by the rest of ragengine.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Shutdown()
}

var (
	mode    = InfoMode
	backend Logger = stdoutLogger{}
)

// SetMode sets the minimum severity required for a message to be written.
func SetMode(s Severity) {
	mode = s
}

// Config describes where (if anywhere) log output should be rotated to disk.
type Config struct {
	Logfile string
	MaxSize int // megabytes
	MaxAge  int // days
}

// Configure installs a rotating-file backend when a log file is specified, mirroring
// the teacher's LogConfig.SetLogger; with no file, messages go to stdout via the
// standard library logger.
func Configure(c *Config) {
	if c == nil || c.Logfile == "" {
		backend = stdoutLogger{}
		return
	}
	backend = fileLogger{&lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize,
		MaxAge:   c.MaxAge,
	}}
}

func Debugf(format string, args ...interface{}) {
	if mode <= DebugMode {
		backend.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		backend.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if mode <= WarningMode {
		backend.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if mode <= ErrorMode {
		backend.Errorf(format, args...)
	}
}

func Shutdown() {
	backend.Shutdown()
}

type stdoutLogger struct{}

func (stdoutLogger) Debugf(format string, args ...interface{})   { log.Printf(" DEBUG "+format, args...) }
func (stdoutLogger) Infof(format string, args ...interface{})    { log.Printf(" INFO "+format, args...) }
func (stdoutLogger) Warningf(format string, args ...interface{}) { log.Printf(" WARNING "+format, args...) }
func (stdoutLogger) Errorf(format string, args ...interface{})   { log.Printf(" ERROR "+format, args...) }
func (stdoutLogger) Shutdown()                                   {}

type fileLogger struct {
	*lumberjack.Logger
}

func (f fileLogger) write(level, format string, args ...interface{}) {
	fmt.Fprintf(f.Logger, " %s %s\n", level, fmt.Sprintf(format, args...))
}

func (f fileLogger) Debugf(format string, args ...interface{})   { f.write("DEBUG", format, args...) }
func (f fileLogger) Infof(format string, args ...interface{})    { f.write("INFO", format, args...) }
func (f fileLogger) Warningf(format string, args ...interface{}) { f.write("WARNING", format, args...) }
func (f fileLogger) Errorf(format string, args ...interface{})   { f.write("ERROR", format, args...) }
func (f fileLogger) Shutdown() {
	if f.Logger != nil {
		f.Close()
	}
}
