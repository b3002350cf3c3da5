package jsonsize

import (
	"log"
	"os"
)

// Logger defines the interface used by the cache and the loaders to report
// what they do.
type Logger interface {
	// Debugf logs detailed messages, such as individual evictions.
	// Messages logged by this method are usually tagged with a `DEBUG` log
	// level in common logging libraries.
	Debugf(format string, args ...interface{})

	// Logf logs regular messages. Messages logged by this method are usually
	// tagged with an `INFO` log level in common logging libraries.
	Logf(format string, args ...interface{})

	// Warnf logs conditions the caller may want to look at, such as entries
	// rejected for exceeding the byte budget.
	Warnf(format string, args ...interface{})

	// Errorf logs failures, for example inputs that could not be read.
	Errorf(format string, args ...interface{})
}

// StdLogger returns a Logger that writes to the standard logger passed as
// argument. Debug messages are dropped unless verbose is set.
func StdLogger(logger *log.Logger, verbose bool) Logger {
	return stdLogger{
		logger:  logger,
		verbose: verbose,
	}
}

type stdLogger struct {
	logger  *log.Logger
	verbose bool
}

func (l stdLogger) Debugf(format string, args ...interface{}) {
	if l.verbose {
		l.logger.Printf("DEBUG: "+format, args...)
	}
}

func (l stdLogger) Logf(format string, args ...interface{}) {
	l.logger.Printf("INFO: "+format, args...)
}

func (l stdLogger) Warnf(format string, args ...interface{}) {
	l.logger.Printf("WARN: "+format, args...)
}

func (l stdLogger) Errorf(format string, args ...interface{}) {
	l.logger.Printf("ERROR: "+format, args...)
}

// DefaultLogger returns a Logger writing to stderr with the "jsonsize "
// prefix.
func DefaultLogger(verbose bool) Logger {
	return StdLogger(log.New(os.Stderr, "jsonsize ", log.LstdFlags), verbose)
}
