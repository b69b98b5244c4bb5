package engine

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
)

// LoggerLevel names a logger output level.
type LoggerLevel string

const (
	LogLevelDebug   LoggerLevel = "debug"
	LogLevelInfo    LoggerLevel = "info"
	LogLevelWarning LoggerLevel = "warn"
	LogLevelError   LoggerLevel = "error"
)

var (
	// LogLevel is the current log level of the engine package.
	LogLevel LoggerLevel = LogLevelInfo

	loggerDebug = log.New(os.Stdout, "DEBUG: ", log.Ltime|log.Lshortfile)
	loggerInfo  = log.New(os.Stdout, "INFO: ", log.Ltime|log.Lshortfile)
	loggerWarn  = log.New(os.Stdout, "ALERT: ", log.Ltime|log.Lshortfile)
	loggerError = log.New(os.Stderr, "ERROR: ", log.Ltime|log.Lshortfile)
)

// Fields tags a log line with the epoch-state-machine coordinates a reader
// needs to locate it in a run: which epoch it happened in, and which
// organism it concerns, if any. OrganismID is only meaningful when
// HasOrganism is true, since 0 is a valid organism id.
type Fields struct {
	Epoch       uint64
	OrganismID  uint64
	HasOrganism bool
}

// Organism returns a copy of f tagged with the given organism id, for the
// common case of logging something about one specific organism.
func (f Fields) Organism(id uint64) Fields {
	f.OrganismID = id
	f.HasOrganism = true
	return f
}

func (f Fields) String() string {
	if f.HasOrganism {
		return fmt.Sprintf("epoch=%d organism=%d", f.Epoch, f.OrganismID)
	}
	return fmt.Sprintf("epoch=%d", f.Epoch)
}

// DebugLog outputs a message tagged with fields if LogLevel accepts debug.
func DebugLog(fields Fields, message string) {
	if acceptLogLevel(LogLevel, LogLevelDebug) {
		_ = loggerDebug.Output(2, fields.String()+" "+message)
	}
}

// InfoLog outputs a message tagged with fields if LogLevel accepts info and up.
func InfoLog(fields Fields, message string) {
	if acceptLogLevel(LogLevel, LogLevelInfo) {
		_ = loggerInfo.Output(2, fields.String()+" "+message)
	}
}

// WarnLog outputs a message tagged with fields if LogLevel accepts warn and up.
func WarnLog(fields Fields, message string) {
	if acceptLogLevel(LogLevel, LogLevelWarning) {
		_ = loggerWarn.Output(2, fields.String()+" "+message)
	}
}

// ErrorLog outputs a message tagged with fields if LogLevel accepts error.
func ErrorLog(fields Fields, message string) {
	if acceptLogLevel(LogLevel, LogLevelError) {
		_ = loggerError.Output(2, fields.String()+" "+message)
	}
}

// InitLogger sets LogLevel from a string, as read from Options.LogLevel.
func InitLogger(level string) error {
	switch level {
	case "", string(LogLevelInfo):
		LogLevel = LogLevelInfo
	case string(LogLevelDebug):
		LogLevel = LogLevelDebug
	case string(LogLevelWarning):
		LogLevel = LogLevelWarning
	case string(LogLevelError):
		LogLevel = LogLevelError
	default:
		return errors.Errorf("unsupported engine log level: [%s]", level)
	}
	return nil
}

func acceptLogLevel(current, target LoggerLevel) bool {
	switch current {
	case LogLevelDebug:
		return true
	case LogLevelInfo:
		return target == LogLevelInfo || target == LogLevelWarning || target == LogLevelError
	case LogLevelWarning:
		return target == LogLevelWarning || target == LogLevelError
	case LogLevelError:
		return target == LogLevelError
	}
	_ = loggerError.Output(2, fmt.Sprintf("unsupported engine log level set: %q", current))
	return false
}
