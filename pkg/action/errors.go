package action

import (
	"fmt"
	"strings"

	"github.com/Heprex/automation/pkg/constants"
)

// PreconditionError reports an action attempted from an illegal relationship
// state. No remote command has been issued when it is returned.
type PreconditionError struct {
	Action   constants.Action
	App      string
	Volume   string
	Expected []constants.State
	Actual   constants.State
	Reason   string
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	target := e.App
	if e.Volume != "" {
		target = e.App + "/" + e.Volume
	}

	if e.Reason != "" {
		return fmt.Sprintf("%s on %s: %s", e.Action, target, e.Reason)
	}

	expected := make([]string, 0, len(e.Expected))
	for _, state := range e.Expected {
		expected = append(expected, string(state))
	}
	return fmt.Sprintf("%s on %s requires state %s, relationship is %s",
		e.Action, target, strings.Join(expected, " or "), e.Actual)
}

// InconsistentDirectionError blocks a whole-application action while the
// replication direction cannot be resolved. Explicitly targeted volumes
// bypass it.
type InconsistentDirectionError struct {
	App string
}

// Error implements the error interface
func (e *InconsistentDirectionError) Error() string {
	return fmt.Sprintf("replication direction of %s is inconsistent; "+
		"resolve it or target specific volumes", e.App)
}

// PartialBatchError summarizes a batch where some relationships succeeded and
// others failed. It is never resolved silently as full success.
type PartialBatchError struct {
	Action    constants.Action
	App       string
	Failed    []string
	Succeeded int
}

// Error implements the error interface
func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%s on %s partially failed: %d succeeded, failed volumes: %s",
		e.Action, e.App, e.Succeeded, strings.Join(e.Failed, ", "))
}
