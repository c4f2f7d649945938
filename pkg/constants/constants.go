// Package constants defines the shared enumerations of the DR orchestrator.
package constants

// State is the normalized lifecycle state of one replication relationship.
// Raw ONTAP state/status pairs are mapped to these values by pkg/mirror;
// anything the parser does not recognize becomes StateUnknown.
type State string

const (
	// StateUninitialized the relationship exists but was never initialized
	StateUninitialized State = "uninitialized"

	// StateMirrored the destination is an up-to-date read-only copy
	StateMirrored State = "mirrored"

	// StateQuiesced scheduled transfers are paused, relationship intact
	StateQuiesced State = "quiesced"

	// StateBrokenOff the relationship is severed, destination is writable
	StateBrokenOff State = "broken-off"

	// StateResyncing a previously broken relationship is re-establishing
	StateResyncing State = "resyncing"

	// StateTransferring an incremental transfer is in flight
	StateTransferring State = "transferring"

	// StateUnknown the remote answer could not be parsed or fetched
	StateUnknown State = "unknown"

	// StateCancelled the status query was abandoned before it completed
	StateCancelled State = "cancelled"
)

// Direction is the resolved active replication direction of an application.
type Direction string

const (
	// DirectionProdToDR all relationships replicate PROD to DR
	DirectionProdToDR Direction = "PROD_TO_DR"

	// DirectionDRToProd all relationships replicate DR to PROD
	DirectionDRToProd Direction = "DR_TO_PROD"

	// DirectionInconsistent relationships disagree, or at least one is unknown
	DirectionInconsistent Direction = "INCONSISTENT"
)

// Action is an operator-selectable DR action.
type Action string

const (
	ActionUpdate              Action = "update"
	ActionQuiesce             Action = "quiesce"
	ActionBreak               Action = "break"
	ActionResync              Action = "resync"
	ActionRecovery            Action = "recovery"
	ActionRecoveryExtended    Action = "recovery-extended"
	ActionRestorationExtended Action = "restoration-extended"
	ActionRestorationFlipFlop Action = "restoration-flip-flop"
	ActionRestorationPostTVT  Action = "restoration-post-tvt"
)

// Actions lists every supported action in menu order.
var Actions = []Action{
	ActionUpdate,
	ActionQuiesce,
	ActionBreak,
	ActionResync,
	ActionRecovery,
	ActionRecoveryExtended,
	ActionRestorationExtended,
	ActionRestorationFlipFlop,
	ActionRestorationPostTVT,
}

// Valid reports whether a is a supported action name.
func (a Action) Valid() bool {
	for _, action := range Actions {
		if a == action {
			return true
		}
	}
	return false
}

const (
	// AuditTimestampFormat is the fixed human-readable audit timestamp layout,
	// rendered in the operator's local timezone.
	AuditTimestampFormat = "02-Jan-2006 03:04:05 PM"
)
