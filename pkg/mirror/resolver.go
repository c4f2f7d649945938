package mirror

import (
	"github.com/Heprex/automation/pkg/constants"
)

// ResolveDirection derives the replication direction of an application from
// the observed relationships. Every existing leg casts a vote; the direction
// is resolved only when at least one vote supports it, no vote opposes it,
// and no leg is in an unknown or cancelled state. Anything else is
// INCONSISTENT, which blocks all actions until an operator intervenes.
func ResolveDirection(volumes []*VolumeStatus) constants.Direction {
	var prodToDR, drToProd, undecided int

	for _, volume := range volumes {
		for _, leg := range volume.Existing() {
			switch vote(leg) {
			case constants.DirectionProdToDR:
				prodToDR++
			case constants.DirectionDRToProd:
				drToProd++
			default:
				undecided++
			}
		}
	}

	if undecided > 0 {
		return constants.DirectionInconsistent
	}
	if prodToDR > 0 && drToProd == 0 {
		return constants.DirectionProdToDR
	}
	if drToProd > 0 && prodToDR == 0 {
		return constants.DirectionDRToProd
	}
	return constants.DirectionInconsistent
}

// vote maps one leg to the direction it implies. A leg replicating toward
// its destination implies its own direction; a broken-off leg implies the
// opposite, because breaking is how the other site takes over.
func vote(leg *Relationship) constants.Direction {
	var forward, reverse constants.Direction
	switch leg.Side {
	case SideProdToDR:
		forward, reverse = constants.DirectionProdToDR, constants.DirectionDRToProd
	case SideDRToProd:
		forward, reverse = constants.DirectionDRToProd, constants.DirectionProdToDR
	default:
		return constants.DirectionInconsistent
	}

	switch leg.State {
	case constants.StateMirrored, constants.StateQuiesced,
		constants.StateTransferring, constants.StateResyncing,
		constants.StateUninitialized:
		return forward
	case constants.StateBrokenOff:
		return reverse
	default:
		return constants.DirectionInconsistent
	}
}
