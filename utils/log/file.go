package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileHook sends log entries to a file, rotating it once it exceeds the
// configured size. Rotated files get numbered suffixes, oldest removed first.
type FileHook struct {
	formatter   logrus.Formatter
	logFilePath string
	maxBytes    int64

	mu      sync.Mutex
	logFile *os.File
	written int64
}

// newFileHook creates a new log hook for writing to a file.
func newFileHook(logFilePath, maxSize string, logFormat logrus.Formatter) (*FileHook, error) {
	maxBytes, err := parseByteSize(maxSize)
	if err != nil {
		return nil, fmt.Errorf("invalid log file size %q: %v", maxSize, err)
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0750); err != nil {
		return nil, err
	}

	hook := &FileHook{
		formatter:   logFormat,
		logFilePath: logFilePath,
		maxBytes:    maxBytes,
	}
	if err := hook.openLocked(); err != nil {
		return nil, err
	}

	return hook, nil
}

// parseByteSize converts a size string like "20M", "512K" or "1048576" to bytes.
func parseByteSize(size string) (int64, error) {
	size = strings.ToUpper(strings.TrimSpace(size))
	if size == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := int64(1)
	switch size[len(size)-1:] {
	case "M":
		multiplier = 1024 * 1024
		size = size[:len(size)-1]
	case "K":
		multiplier = 1024
		size = size[:len(size)-1]
	case "B":
		size = size[:len(size)-1]
	}

	num, err := strconv.ParseInt(size, 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}

// Levels returns all supported levels
func (hook *FileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire ensure logging of respective log entries
func (hook *FileHook) Fire(entry *logrus.Entry) error {
	lineBytes, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}

	hook.mu.Lock()
	defer hook.mu.Unlock()

	if hook.written+int64(len(lineBytes)) > hook.maxBytes {
		if err := hook.rotateLocked(); err != nil {
			fmt.Fprintf(os.Stderr, "Unable to rotate log file %s: %v\n", hook.logFilePath, err)
		}
	}

	n, err := hook.logFile.Write(lineBytes)
	hook.written += int64(n)
	return err
}

func (hook *FileHook) openLocked() error {
	f, err := os.OpenFile(hook.logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	hook.logFile = f
	hook.written = info.Size()
	return nil
}

// rotateLocked renames current file to <name>.1, shifting older backups up,
// and opens a fresh log file. The caller must hold hook.mu.
func (hook *FileHook) rotateLocked() error {
	if hook.logFile != nil {
		hook.logFile.Close()
		hook.logFile = nil
	}

	backups := int(maxBackups)
	if backups < 1 {
		backups = 1
	}

	oldest := fmt.Sprintf("%s.%d", hook.logFilePath, backups)
	_ = os.Remove(oldest)

	for i := backups - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", hook.logFilePath, i)
		dst := fmt.Sprintf("%s.%d", hook.logFilePath, i+1)
		if _, err := os.Stat(src); err == nil {
			_ = os.Rename(src, dst)
		}
	}

	if err := os.Rename(hook.logFilePath, hook.logFilePath+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}

	return hook.openLocked()
}

func (hook *FileHook) flush() {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.logFile != nil {
		_ = hook.logFile.Sync()
	}
}

func (hook *FileHook) close() {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.logFile != nil {
		_ = hook.logFile.Close()
		hook.logFile = nil
	}
}
