package action

import (
	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/mirror"
	"github.com/Heprex/automation/utils"
)

// legalSourceStates lists the states a relationship must be in for each
// single-command action. An action invoked from any other state fails before
// a remote command is issued.
var legalSourceStates = map[constants.Action][]constants.State{
	constants.ActionUpdate:  {constants.StateMirrored, constants.StateQuiesced},
	constants.ActionQuiesce: {constants.StateMirrored},
	constants.ActionBreak:   {constants.StateQuiesced},
	constants.ActionResync:  {constants.StateBrokenOff},
}

// workflowEligibility names the leg a multi-step workflow drives and the
// states that leg must start from. Workflows without an entry accept any
// starting state.
var workflowEligibility = map[constants.Action]struct {
	side   mirror.Side
	states []constants.State
}{
	constants.ActionRecovery: {mirror.SideProdToDR,
		[]constants.State{constants.StateMirrored, constants.StateQuiesced, constants.StateTransferring}},
	constants.ActionRecoveryExtended: {mirror.SideProdToDR,
		[]constants.State{constants.StateBrokenOff}},
	constants.ActionRestorationExtended: {mirror.SideDRToProd,
		[]constants.State{constants.StateMirrored, constants.StateQuiesced, constants.StateTransferring}},
	constants.ActionRestorationFlipFlop: {mirror.SideProdToDR,
		[]constants.State{constants.StateBrokenOff}},
}

// workflowDirections names the resolved direction each workflow requires.
var workflowDirections = map[constants.Action]constants.Direction{
	constants.ActionRecovery:            constants.DirectionProdToDR,
	constants.ActionRecoveryExtended:    constants.DirectionDRToProd,
	constants.ActionRestorationExtended: constants.DirectionDRToProd,
	constants.ActionRestorationFlipFlop: constants.DirectionDRToProd,
}

// IsWorkflow reports whether the action is a multi-step sequential workflow
// rather than a single SnapMirror command.
func IsWorkflow(act constants.Action) bool {
	switch act {
	case constants.ActionRecovery, constants.ActionRecoveryExtended,
		constants.ActionRestorationExtended, constants.ActionRestorationFlipFlop,
		constants.ActionRestorationPostTVT:
		return true
	}
	return false
}

// selectTarget picks the leg a single-command action operates on: the one
// whose state the action is legal from. Exactly one leg must qualify; two
// qualifying legs mean the direction cannot be trusted and none means the
// action is illegal from the current state.
func selectTarget(act constants.Action, vs *mirror.VolumeStatus,
	appName string) (*mirror.Relationship, error) {
	legal := legalSourceStates[act]

	var candidates []*mirror.Relationship
	for _, leg := range vs.Existing() {
		if utils.Contains(legal, leg.State) {
			candidates = append(candidates, leg)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		existing := vs.Existing()
		if len(existing) == 0 {
			return nil, &PreconditionError{
				Action: act, App: appName, Volume: vs.Volume,
				Reason: "no relationship exists for this volume",
			}
		}
		return nil, &PreconditionError{
			Action: act, App: appName, Volume: vs.Volume,
			Expected: legal, Actual: existing[0].State,
		}
	default:
		return nil, &PreconditionError{
			Action: act, App: appName, Volume: vs.Volume,
			Reason: "both replication legs qualify, target is ambiguous",
		}
	}
}

// eligibleLeg checks a volume against a workflow's starting conditions and
// returns the leg the workflow drives. Workflows without an eligibility
// entry return nil with no error.
func eligibleLeg(act constants.Action, vs *mirror.VolumeStatus,
	appName string) (*mirror.Relationship, error) {
	rule, ok := workflowEligibility[act]
	if !ok {
		return nil, nil
	}

	var leg *mirror.Relationship
	switch rule.side {
	case mirror.SideProdToDR:
		leg = vs.ProdToDR
	case mirror.SideDRToProd:
		leg = vs.DRToProd
	}

	if leg == nil {
		return nil, &PreconditionError{
			Action: act, App: appName, Volume: vs.Volume,
			Reason: "required replication leg does not exist",
		}
	}
	if !utils.Contains(rule.states, leg.State) {
		return nil, &PreconditionError{
			Action: act, App: appName, Volume: vs.Volume,
			Expected: rule.states, Actual: leg.State,
		}
	}
	return leg, nil
}
