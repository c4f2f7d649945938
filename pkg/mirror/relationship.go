// Package mirror models SnapMirror relationships and aggregates their live
// state across the production and DR clusters of an application.
package mirror

import (
	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/ontap"
)

// Side identifies which replication leg a relationship belongs to.
type Side string

const (
	// SideProdToDR is the normal-operations leg, destination on DR.
	SideProdToDR Side = "p2d"
	// SideDRToProd is the reversed leg used after failover, destination on
	// production.
	SideDRToProd Side = "d2p"
)

// Relationship is the observed state of one SnapMirror relationship. A nil
// Relationship in a VolumeStatus means the leg does not exist on the cluster.
type Relationship struct {
	App         string
	Volume      string
	Side        Side
	Source      ontap.Path
	Destination ontap.Path

	State    constants.State
	RawState string
	Status   string
	LagTime  string
	Schedule string
	Policy   string

	// Err is set when the query for this leg failed; State is then
	// unknown or cancelled.
	Err error
}

// VolumeStatus is the pair of legs observed for one volume. Either leg may be
// nil when no relationship is defined in that direction.
type VolumeStatus struct {
	Volume   string
	ProdToDR *Relationship
	DRToProd *Relationship
}

// Existing returns the non-nil legs of the volume.
func (v *VolumeStatus) Existing() []*Relationship {
	var legs []*Relationship
	if v.ProdToDR != nil {
		legs = append(legs, v.ProdToDR)
	}
	if v.DRToProd != nil {
		legs = append(legs, v.DRToProd)
	}
	return legs
}

// ApplicationStatus is the aggregated view of one application.
type ApplicationStatus struct {
	App     string
	Volumes []*VolumeStatus

	// Direction is the resolved replication direction, or INCONSISTENT.
	Direction constants.Direction

	// Partial is true when at least one leg query failed or was cancelled.
	// A partial aggregate never qualifies for automatic actions.
	Partial bool
}
