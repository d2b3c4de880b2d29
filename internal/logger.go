package internal

import (
	"log"

	"github.com/thatguystone/cdnify"
	"github.com/thatguystone/cog/stringc"
)

// Indent is used when nesting multi-line messages
const Indent = "    "

type logger struct {
	prefix string
	logf   LogFunc
}

// LogFunc is the function called for everything
type LogFunc func(format string, a ...interface{})

// NewLogger creates a new cdnify.Logger that pushes everything to the given
// LogFunc with the given prefix. A nil logf logs with log.Printf.
func NewLogger(prefix string, logf LogFunc) cdnify.Logger {
	if logf == nil {
		logf = log.Printf
	}

	return &logger{
		prefix: prefix,
		logf:   logf,
	}
}

func (l *logger) Log(msg string) {
	l.logf("I: %s: %s", l.prefix, msg)
}

func (l *logger) Error(err error, msg string) {
	l.logf("E: %s: %s:\n%s", l.prefix, msg, stringc.Indent(err.Error(), Indent))
}
