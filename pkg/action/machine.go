// Package action enforces the DR action state machine: it previews and
// applies operator actions against the replication relationships of one
// application, honoring per-state preconditions and per-relationship
// isolation.
package action

import (
	"context"
	"fmt"
	"time"

	"github.com/Heprex/automation/pkg/app"
	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/mirror"
	"github.com/Heprex/automation/pkg/ontap"
	"github.com/Heprex/automation/utils"
	"github.com/Heprex/automation/utils/concurrent"
	"github.com/Heprex/automation/utils/log"
)

const (
	stateWaitTimeout  = 30 * time.Minute
	stateWaitInterval = 10 * time.Second
)

// Options tunes one Plan or Apply call.
type Options struct {
	// Volumes limits the action to the named volumes. Empty means every
	// volume of the application. Explicit volumes also lift the
	// inconsistent-direction block.
	Volumes []string

	// PostTVTVerified is the operator's assertion that test verification
	// completed and the extended restoration path is legal. Required by
	// restoration-extended.
	PostTVTVerified bool

	// AllowPartial permits applying on a status aggregate where some leg
	// queries failed. The operator confirms this explicitly.
	AllowPartial bool
}

// Machine previews and applies actions. Single-command actions run their
// relationships in parallel; workflows run strictly sequentially.
type Machine struct {
	pool       mirror.ClusterPool
	maxWorkers int
}

// NewMachine builds a machine. maxWorkers bounds parallel single-command
// actions; <= 0 means one worker per relationship.
func NewMachine(pool mirror.ClusterPool, maxWorkers int) *Machine {
	return &Machine{pool: pool, maxWorkers: maxWorkers}
}

// guard enforces the whole-application preconditions shared by Plan and
// Apply. It returns the volume statuses the action will operate on.
func (m *Machine) guard(application *app.Application, status *mirror.ApplicationStatus,
	act constants.Action, opts Options) ([]*mirror.VolumeStatus, error) {
	if !act.Valid() {
		return nil, fmt.Errorf("unsupported action %q", act)
	}

	if status.Partial && !opts.AllowPartial {
		return nil, fmt.Errorf("status of %s is incomplete, refusing %s without explicit confirmation",
			application.Name, act)
	}

	if status.Direction == constants.DirectionInconsistent && len(opts.Volumes) == 0 {
		return nil, &InconsistentDirectionError{App: application.Name}
	}

	if required, ok := workflowDirections[act]; ok && status.Direction != required {
		return nil, &PreconditionError{
			Action: act, App: application.Name,
			Reason: fmt.Sprintf("requires direction %s, current direction is %s",
				required, status.Direction),
		}
	}

	if act == constants.ActionRestorationExtended && !opts.PostTVTVerified {
		return nil, &PreconditionError{
			Action: act, App: application.Name,
			Reason: "post-TVT verification not asserted",
		}
	}

	if act == constants.ActionRestorationFlipFlop && opts.PostTVTVerified {
		return nil, &PreconditionError{
			Action: act, App: application.Name,
			Reason: "post-TVT verification selects the extended restoration path, not flip-flop",
		}
	}

	volumes := status.Volumes
	if len(opts.Volumes) != 0 {
		volumes = nil
		for _, name := range opts.Volumes {
			var found *mirror.VolumeStatus
			for _, vs := range status.Volumes {
				if vs.Volume == name {
					found = vs
					break
				}
			}
			if found == nil {
				return nil, fmt.Errorf("volume %s is not part of application %s",
					name, application.Name)
			}
			volumes = append(volumes, found)
		}
	}

	return volumes, nil
}

// Plan previews an action: the full ordered command list apply would issue,
// without touching any cluster.
func (m *Machine) Plan(ctx context.Context, application *app.Application,
	status *mirror.ApplicationStatus, act constants.Action, opts Options) (*Plan, error) {
	volumes, err := m.guard(application, status, act, opts)
	if err != nil {
		return nil, err
	}

	if IsWorkflow(act) {
		return planWorkflow(application, status, act, volumes)
	}
	return m.planSimple(application, act, volumes)
}

// Apply executes an action. Single-command actions fan out per relationship;
// workflows run their steps in order, dropping failed volumes from later
// steps. The returned BatchResult always enumerates every targeted volume.
func (m *Machine) Apply(ctx context.Context, application *app.Application,
	status *mirror.ApplicationStatus, act constants.Action, opts Options) (*BatchResult, error) {
	volumes, err := m.guard(application, status, act, opts)
	if err != nil {
		return nil, err
	}

	if IsWorkflow(act) {
		run := newWorkflowRun(m, application, status, act, volumes)
		return run.execute(ctx)
	}
	return m.applySimple(ctx, application, act, volumes)
}

// planSimple previews a single-command action: one command per volume whose
// relationship qualifies, a note for every volume that does not.
func (m *Machine) planSimple(application *app.Application, act constants.Action,
	volumes []*mirror.VolumeStatus) (*Plan, error) {
	step := &PlanStep{Name: fmt.Sprintf("SnapMirror %s", act)}
	for _, vs := range volumes {
		target, err := selectTarget(act, vs, application.Name)
		if err != nil {
			step.Notes = append(step.Notes, err.Error())
			continue
		}
		step.Commands = append(step.Commands, Command{
			Cluster: clusterOf(application, target.Side),
			Text:    simpleCommand(act, target.Destination),
		})
	}

	return &Plan{Action: act, App: application.Name, Steps: []*PlanStep{step}}, nil
}

// applySimple runs a single-command action on every qualifying relationship
// in parallel. One relationship's failure never blocks its siblings.
func (m *Machine) applySimple(ctx context.Context, application *app.Application,
	act constants.Action, volumes []*mirror.VolumeStatus) (*BatchResult, error) {
	results := concurrent.ForEach(ctx, volumes, m.maxWorkers,
		func(ctx context.Context, vs *mirror.VolumeStatus) (*Result, error) {
			return m.applyOne(ctx, application, act, vs), nil
		})

	batch := &BatchResult{Action: act, App: application.Name}
	for i, result := range results {
		if result.Err != nil {
			// Cancelled before this volume started.
			batch.Results = append(batch.Results, &Result{
				Volume: volumes[i].Volume,
				Err:    result.Err,
			})
			continue
		}
		batch.Results = append(batch.Results, result.Value)
	}
	return batch, nil
}

// applyOne issues one action command against one relationship. Precondition
// failures return with zero commands issued.
func (m *Machine) applyOne(ctx context.Context, application *app.Application,
	act constants.Action, vs *mirror.VolumeStatus) *Result {
	result := &Result{Volume: vs.Volume}

	target, err := selectTarget(act, vs, application.Name)
	if err != nil {
		result.Err = err
		return result
	}
	result.Side = target.Side

	cluster := clusterOf(application, target.Side)
	executor, err := m.pool.Get(ctx, cluster)
	if err != nil {
		result.Err = err
		return result
	}

	command := simpleCommand(act, target.Destination)
	result.Commands = append(result.Commands, Command{Cluster: cluster, Text: command})
	if _, err := executor.Execute(ctx, command); err != nil {
		result.Err = err
		return result
	}

	log.AddContext(ctx).Infof("%s completed for %s/%s on %s",
		act, application.Name, vs.Volume, utils.ShortClusterName(cluster))
	return result
}

// simpleCommand builds the SnapMirror command for a single-command action.
func simpleCommand(act constants.Action, destination ontap.Path) string {
	switch act {
	case constants.ActionUpdate:
		return ontap.SnapMirrorUpdate(destination)
	case constants.ActionQuiesce:
		return ontap.SnapMirrorQuiesce(destination)
	case constants.ActionBreak:
		return ontap.SnapMirrorBreak(destination)
	case constants.ActionResync:
		return ontap.SnapMirrorResync(destination)
	}
	return ""
}

// clusterOf maps a replication leg to the cluster that owns its destination.
func clusterOf(application *app.Application, side mirror.Side) string {
	if side == mirror.SideDRToProd {
		return application.ProdCluster
	}
	return application.DRCluster
}

// destinationOf builds the destination path of a leg for one volume.
func destinationOf(application *app.Application, side mirror.Side, volume string) ontap.Path {
	if side == mirror.SideDRToProd {
		return ontap.Path{Vserver: application.ProdVserver, Volume: volume}
	}
	return ontap.Path{Vserver: application.DRVserver, Volume: volume}
}

// sourceOf builds the source path of a leg for one volume.
func sourceOf(application *app.Application, side mirror.Side, volume string) ontap.Path {
	if side == mirror.SideDRToProd {
		return ontap.Path{Vserver: application.DRVserver, Volume: volume}
	}
	return ontap.Path{Vserver: application.ProdVserver, Volume: volume}
}
