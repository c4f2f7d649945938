package mirror

import (
	"strings"

	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/ontap"
)

// minShowFields is the column count of one relationship row in
// "snapmirror show -fields schedule,policy,state,status,lag-time" output:
// source, destination, schedule, policy, state, status, lag-time.
const minShowFields = 7

// ShowResult is one parsed relationship row. Found is false when the cluster
// reported no matching entries.
type ShowResult struct {
	Found    bool
	State    constants.State
	RawState string
	Status   string
	LagTime  string
	Schedule string
	Policy   string
}

// ParseSnapMirrorShow extracts the relationship row for the given destination
// path from snapmirror show output. The row layout is positional from the
// right because source and destination paths never contain spaces but header
// and separator lines vary across ONTAP releases.
func ParseSnapMirrorShow(output string, destination ontap.Path) ShowResult {
	if strings.Contains(output, ontap.NoEntriesMarker) {
		return ShowResult{}
	}

	destText := destination.String()
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, destText) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < minShowFields {
			continue
		}

		n := len(fields)
		lagTime := fields[n-1]
		status := fields[n-2]
		state := fields[n-3]
		policy := fields[n-4]
		schedule := fields[n-5]

		return ShowResult{
			Found:    true,
			State:    classifyState(state, status),
			RawState: state,
			Status:   status,
			LagTime:  lagTime,
			Schedule: schedule,
			Policy:   policy,
		}
	}

	// Output neither carried the no-entries marker nor a parsable row.
	return ShowResult{Found: true, State: constants.StateUnknown}
}

// classifyState folds the ONTAP state and status columns into one
// orchestrator state. Transfer activity wins over the steady state because a
// transferring relationship must not be quiesced or broken mid-flight.
func classifyState(state, status string) constants.State {
	switch status {
	case "Transferring", "Finalizing", "Preparing":
		return constants.StateTransferring
	case "Resyncing":
		return constants.StateResyncing
	}

	switch state {
	case "Snapmirrored":
		switch status {
		case "Idle":
			return constants.StateMirrored
		case "Quiesced", "Quiescing":
			return constants.StateQuiesced
		}
	case "Broken-off":
		return constants.StateBrokenOff
	case "Uninitialized":
		return constants.StateUninitialized
	}

	return constants.StateUnknown
}
