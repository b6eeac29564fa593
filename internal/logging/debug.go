package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	debugMu     sync.Mutex
	debugOutput io.Writer = os.Stderr
)

// DebugEnabled returns true if debug mode is enabled via TASKSHARE_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TASKSHARE_DEBUG") != ""
}

// SetDebugOutput redirects debug messages and returns the previous writer
func SetDebugOutput(w io.Writer) io.Writer {
	debugMu.Lock()
	defer debugMu.Unlock()
	prev := debugOutput
	debugOutput = w
	return prev
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		debugMu.Lock()
		defer debugMu.Unlock()
		fmt.Fprintf(debugOutput, format, args...)
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		debugMu.Lock()
		defer debugMu.Unlock()
		fmt.Fprintln(debugOutput, args...)
	}
}
