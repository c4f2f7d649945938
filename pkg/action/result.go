package action

import (
	"fmt"
	"strings"

	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/mirror"
)

// Command is one ONTAP CLI command bound to the cluster it runs on.
type Command struct {
	Cluster string
	Text    string
}

// Result is the outcome for one relationship or volume within a batch.
type Result struct {
	Volume string
	Side   mirror.Side

	// Commands lists the remote commands actually issued, in order.
	// A precondition failure leaves it empty.
	Commands []Command

	// Skipped is set with a reason when the volume was deliberately left
	// alone, for example after a failure in an earlier workflow step.
	Skipped string

	Err error
}

// OK reports whether the relationship was acted on successfully.
func (r *Result) OK() bool {
	return r.Err == nil && r.Skipped == ""
}

// BatchResult is the per-application outcome of one applied action.
type BatchResult struct {
	Action  constants.Action
	App     string
	Results []*Result
}

// Partial reports whether the batch mixes successes with failures.
func (b *BatchResult) Partial() bool {
	var ok, failed int
	for _, result := range b.Results {
		if result.Err != nil {
			failed++
		} else if result.Skipped == "" {
			ok++
		}
	}
	return ok > 0 && failed > 0
}

// Err folds the batch into a single error: nil on full success, a
// PartialBatchError only on a genuinely mixed outcome. A batch where nothing
// succeeded is a full failure, never a partial one.
func (b *BatchResult) Err() error {
	var failed []string
	var firstErr error
	var succeeded int
	for _, result := range b.Results {
		if result.Err != nil {
			failed = append(failed, result.Volume)
			if firstErr == nil {
				firstErr = result.Err
			}
		} else if result.Skipped == "" {
			succeeded++
		}
	}

	if len(failed) == 0 {
		return nil
	}
	if succeeded == 0 {
		if len(failed) == 1 {
			return firstErr
		}
		return fmt.Errorf("%s on %s failed for every volume (%s), first error: %w",
			b.Action, b.App, strings.Join(failed, ", "), firstErr)
	}
	return &PartialBatchError{Action: b.Action, App: b.App, Failed: failed, Succeeded: succeeded}
}

// PlanStep is one ordered step of a preview, with the commands it would run.
type PlanStep struct {
	Name     string
	Commands []Command
	Notes    []string
}

// Plan is the preview of an action: every command that apply would issue, in
// order, without touching any cluster.
type Plan struct {
	Action constants.Action
	App    string
	Steps  []*PlanStep
}

// Commands flattens the plan into the full ordered command list.
func (p *Plan) Commands() []Command {
	var commands []Command
	for _, step := range p.Steps {
		commands = append(commands, step.Commands...)
	}
	return commands
}
