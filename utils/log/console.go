package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// ConsoleHook sends log entries to stdout/stderr.
type ConsoleHook struct {
	formatter logrus.Formatter
}

// newConsoleHook creates a new log hook for writing to stdout/stderr.
func newConsoleHook(logFormat logrus.Formatter) (*ConsoleHook, error) {
	return &ConsoleHook{logFormat}, nil
}

// Levels returns all supported levels
func (hook *ConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire ensure logging of respective log entries
func (hook *ConsoleHook) Fire(entry *logrus.Entry) error {
	// Determine output stream
	var logWriter io.Writer
	switch entry.Level {
	case logrus.DebugLevel, logrus.InfoLevel, logrus.WarnLevel:
		logWriter = os.Stdout
	case logrus.ErrorLevel, logrus.FatalLevel:
		logWriter = os.Stderr
	default:
		return fmt.Errorf("unknown log level: %v", entry.Level)
	}

	lineBytes, err := hook.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to read entry, %v", err)
		return err
	}

	_, err = logWriter.Write(lineBytes)
	return err
}

func (hook *ConsoleHook) flush() {
}

func (hook *ConsoleHook) close() {
}
