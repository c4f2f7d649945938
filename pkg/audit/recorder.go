// Package audit appends one line per confirmed DR action to a shared log
// file. The file may be written by several orchestrator instances at once,
// so every append holds an exclusive lock and issues a single write.
package audit

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/utils"
)

const fieldSeparator = " | "

// Record is one audit line: who did what to which application, and how it
// ended.
type Record struct {
	Timestamp time.Time
	Action    constants.Action
	App       string
	Operator  string
	Outcome   string
}

// Line renders the record as its on-disk form, without the trailing newline.
func (r Record) Line() string {
	return strings.Join([]string{
		r.Timestamp.Local().Format(constants.AuditTimestampFormat),
		string(r.Action),
		r.App,
		r.Operator,
		r.Outcome,
	}, fieldSeparator)
}

// WriteError reports a failed audit append. The action it describes has
// already run; the caller surfaces the error and never rolls back.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("audit append to %s failed: %v", e.Path, e.Err)
}

// Unwrap returns the underlying write error
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Recorder appends records to one audit file.
type Recorder struct {
	path string
	now  func() time.Time
}

// NewRecorder builds a recorder for the given audit file.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path, now: time.Now}
}

// Record appends one line for a confirmed, executed action. The whole line
// goes out in a single write under an exclusive file lock, so concurrent
// writers never interleave within a record.
func (r *Recorder) Record(act constants.Action, appName, operator, outcome string) error {
	record := Record{
		Timestamp: r.now(),
		Action:    act,
		App:       appName,
		Operator:  operator,
		Outcome:   outcome,
	}

	lock := utils.NewFlock(r.path)
	if err := lock.Lock(); err != nil {
		return &WriteError{Path: r.path, Err: err}
	}
	defer lock.UnLock()

	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return &WriteError{Path: r.path, Err: err}
	}
	defer file.Close()

	if _, err := file.WriteString(record.Line() + "\n"); err != nil {
		return &WriteError{Path: r.path, Err: err}
	}
	if err := file.Sync(); err != nil {
		return &WriteError{Path: r.path, Err: err}
	}
	return nil
}

// List reads every record of the audit file, oldest first. appName filters
// to one application when non-empty. A missing file is an empty history.
func (r *Recorder) List(appName string) ([]Record, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read audit log %s: %w", r.path, err)
	}

	var records []Record
	for _, line := range strings.Split(string(data), "\n") {
		record, ok := parseLine(line)
		if !ok {
			continue
		}
		if appName != "" && record.App != appName {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Last returns the most recent record for an application, or nil.
func (r *Recorder) Last(appName string) (*Record, error) {
	records, err := r.List(appName)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[len(records)-1], nil
}

// parseLine reads one audit line back into a Record. Unparsable lines are
// skipped by the caller rather than failing the whole history.
func parseLine(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, false
	}

	fields := strings.Split(line, fieldSeparator)
	if len(fields) != 5 {
		return Record{}, false
	}

	timestamp, err := time.ParseInLocation(constants.AuditTimestampFormat, fields[0], time.Local)
	if err != nil {
		return Record{}, false
	}

	return Record{
		Timestamp: timestamp,
		Action:    constants.Action(fields[1]),
		App:       fields[2],
		Operator:  fields[3],
		Outcome:   fields[4],
	}, true
}
