package audit_test

import (
	"os"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Heprex/automation/pkg/audit"
	"github.com/Heprex/automation/pkg/constants"
)

func tempRecorder(t *testing.T) (*audit.Recorder, string) {
	t.Helper()
	logPath := path.Join(t.TempDir(), "recent-actions.log")
	return audit.NewRecorder(logPath), logPath
}

func TestRecordAppendsOneParsableLine(t *testing.T) {
	// arrange
	recorder, logPath := tempRecorder(t)

	// act
	err := recorder.Record(constants.ActionQuiesce, "APP1", "operator1", "success")

	// assert
	require.NoError(t, err)
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 1)

	fields := strings.Split(lines[0], " | ")
	require.Len(t, fields, 5)
	assert.Equal(t, "quiesce", fields[1])
	assert.Equal(t, "APP1", fields[2])
	assert.Equal(t, "operator1", fields[3])
	assert.Equal(t, "success", fields[4])

	// the timestamp round-trips through the fixed layout
	parsed, err := time.ParseInLocation(constants.AuditTimestampFormat, fields[0], time.Local)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
}

func TestConcurrentRecordsNeverInterleave(t *testing.T) {
	// arrange
	recorder, logPath := tempRecorder(t)
	const writers = 20

	// act
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, recorder.Record(constants.ActionUpdate, "APP1", "operator1", "success"))
		}()
	}
	wg.Wait()

	// assert: every line is complete and parsable
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, writers)
	for _, line := range lines {
		assert.Len(t, strings.Split(line, " | "), 5)
	}

	records, err := recorder.List("")
	require.NoError(t, err)
	assert.Len(t, records, writers)
}

func TestListFiltersByApplication(t *testing.T) {
	// arrange
	recorder, _ := tempRecorder(t)
	require.NoError(t, recorder.Record(constants.ActionQuiesce, "APP1", "op", "success"))
	require.NoError(t, recorder.Record(constants.ActionBreak, "APP2", "op", "success"))
	require.NoError(t, recorder.Record(constants.ActionResync, "APP1", "op", "partial-failure"))

	// act
	records, err := recorder.List("APP1")

	// assert
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, constants.ActionQuiesce, records[0].Action)
	assert.Equal(t, constants.ActionResync, records[1].Action)
}

func TestLastReturnsMostRecentRecord(t *testing.T) {
	// arrange
	recorder, _ := tempRecorder(t)
	require.NoError(t, recorder.Record(constants.ActionQuiesce, "APP1", "op", "success"))
	require.NoError(t, recorder.Record(constants.ActionBreak, "APP1", "op", "success"))

	// act
	record, err := recorder.Last("APP1")

	// assert
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, constants.ActionBreak, record.Action)
}

func TestLastOnMissingFileIsEmptyHistory(t *testing.T) {
	// arrange
	recorder := audit.NewRecorder(path.Join(t.TempDir(), "absent.log"))

	// act
	record, err := recorder.Last("APP1")

	// assert
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestUnreachableFileReturnsWriteError(t *testing.T) {
	// arrange
	recorder := audit.NewRecorder(path.Join(t.TempDir(), "missing-dir", "audit.log"))

	// act
	err := recorder.Record(constants.ActionQuiesce, "APP1", "op", "success")

	// assert
	var writeErr *audit.WriteError
	assert.ErrorAs(t, err, &writeErr)
}
