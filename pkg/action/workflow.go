package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/Heprex/automation/pkg/app"
	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/mirror"
	"github.com/Heprex/automation/pkg/ontap"
	"github.com/Heprex/automation/utils"
	"github.com/Heprex/automation/utils/flow"
	"github.com/Heprex/automation/utils/log"
)

// workflowRun executes one multi-step workflow. Steps run strictly in order;
// a volume that fails a step is dropped from every later step while its
// siblings continue, so the batch result stays per-volume.
type workflowRun struct {
	machine     *Machine
	application *app.Application
	status      *mirror.ApplicationStatus
	act         constants.Action

	order   []string
	results map[string]*Result
	failed  map[string]bool
	byName  map[string]*mirror.VolumeStatus
}

func newWorkflowRun(m *Machine, application *app.Application,
	status *mirror.ApplicationStatus, act constants.Action,
	volumes []*mirror.VolumeStatus) *workflowRun {
	run := &workflowRun{
		machine:     m,
		application: application,
		status:      status,
		act:         act,
		results:     make(map[string]*Result, len(volumes)),
		failed:      make(map[string]bool),
		byName:      make(map[string]*mirror.VolumeStatus, len(volumes)),
	}
	for _, vs := range volumes {
		run.order = append(run.order, vs.Volume)
		run.results[vs.Volume] = &Result{Volume: vs.Volume}
		run.byName[vs.Volume] = vs
	}
	return run
}

// execute checks per-volume eligibility, runs the workflow's task flow and
// folds the per-volume outcomes into a BatchResult.
func (r *workflowRun) execute(ctx context.Context) (*BatchResult, error) {
	for _, volume := range r.order {
		if _, err := eligibleLeg(r.act, r.byName[volume], r.application.Name); err != nil {
			r.fail(volume, err)
		}
	}

	taskFlow := flow.NewTaskFlow(ctx, string(r.act))
	switch r.act {
	case constants.ActionRecovery:
		r.addRecoveryTasks(taskFlow)
	case constants.ActionRecoveryExtended:
		r.addRecoveryExtendedTasks(taskFlow)
	case constants.ActionRestorationExtended:
		r.addRestorationExtendedTasks(taskFlow)
	case constants.ActionRestorationFlipFlop:
		r.addRestorationFlipFlopTasks(taskFlow)
	case constants.ActionRestorationPostTVT:
		r.addRestorationPostTVTTasks(taskFlow)
	}

	if err := taskFlow.RunWithOutRevert(nil); err != nil {
		// Only cancellation aborts the flow; per-volume failures are
		// already recorded. Mark volumes that never got their turn.
		for _, volume := range r.active() {
			r.fail(volume, err)
		}
	}

	batch := &BatchResult{Action: r.act, App: r.application.Name}
	for _, volume := range r.order {
		batch.Results = append(batch.Results, r.results[volume])
	}
	return batch, nil
}

// active lists the volumes still participating, in inventory order.
func (r *workflowRun) active() []string {
	var volumes []string
	for _, volume := range r.order {
		if !r.failed[volume] {
			volumes = append(volumes, volume)
		}
	}
	return volumes
}

func (r *workflowRun) fail(volume string, err error) {
	if r.failed[volume] {
		return
	}
	r.failed[volume] = true
	r.results[volume].Err = err
}

// exec issues one command for one volume and records it on the volume's
// result. A failure drops the volume from later steps.
func (r *workflowRun) exec(ctx context.Context, volume, cluster, command string) {
	executor, err := r.machine.pool.Get(ctx, cluster)
	if err != nil {
		r.fail(volume, err)
		return
	}

	r.results[volume].Commands = append(r.results[volume].Commands,
		Command{Cluster: cluster, Text: command})
	if _, err := executor.Execute(ctx, command); err != nil {
		r.fail(volume, err)
		return
	}

	log.AddContext(ctx).Infof("%s: %s", utils.ShortClusterName(cluster), command)
}

// query runs a read-only command for one volume. Unlike exec, the command is
// not recorded as an issued action.
func (r *workflowRun) query(ctx context.Context, volume, cluster, command string) (string, bool) {
	executor, err := r.machine.pool.Get(ctx, cluster)
	if err != nil {
		r.fail(volume, err)
		return "", false
	}

	output, err := executor.Execute(ctx, command)
	if err != nil {
		r.fail(volume, err)
		return "", false
	}
	return output, true
}

// waitState polls one relationship until it reaches the wanted state. The
// volume is dropped on timeout or query failure.
func (r *workflowRun) waitState(ctx context.Context, volume string, side mirror.Side,
	want constants.State) {
	cluster := clusterOf(r.application, side)
	destination := destinationOf(r.application, side, volume)

	err := utils.WaitUntil(ctx, func() (bool, error) {
		executor, err := r.machine.pool.Get(ctx, cluster)
		if err != nil {
			return false, err
		}
		output, err := executor.Execute(ctx, ontap.SnapMirrorShow(destination))
		if err != nil {
			return false, err
		}

		parsed := mirror.ParseSnapMirrorShow(output, destination)
		if !parsed.Found {
			return false, fmt.Errorf("relationship %s disappeared while waiting", destination)
		}
		log.AddContext(ctx).Debugf("%s is %s, waiting for %s", destination, parsed.State, want)
		return parsed.State == want, nil
	}, stateWaitTimeout, stateWaitInterval)
	if err != nil {
		r.fail(volume, fmt.Errorf("wait for %s on %s: %w", want, destination, err))
	}
}

// snapMirrorStep issues one SnapMirror command per active volume against the
// given leg, then optionally waits for every surviving volume to settle.
func (r *workflowRun) snapMirrorStep(ctx context.Context, side mirror.Side,
	build func(ontap.Path) string, settle constants.State) {
	cluster := clusterOf(r.application, side)
	for _, volume := range r.active() {
		r.exec(ctx, volume, cluster, build(destinationOf(r.application, side, volume)))
	}
	if settle != "" {
		for _, volume := range r.active() {
			r.waitState(ctx, volume, side, settle)
		}
	}
}

// unmountOfflineStep unmounts and offlines every active volume on one side.
func (r *workflowRun) unmountOfflineStep(ctx context.Context, cluster, vserver string) {
	for _, volume := range r.active() {
		r.exec(ctx, volume, cluster, ontap.VolumeUnmount(vserver, volume))
		if !r.failed[volume] {
			r.exec(ctx, volume, cluster, ontap.VolumeOffline(vserver, volume))
		}
	}
}

// onlineStep brings every active volume online on one side.
func (r *workflowRun) onlineStep(ctx context.Context, cluster, vserver string) {
	for _, volume := range r.active() {
		r.exec(ctx, volume, cluster, ontap.VolumeOnline(vserver, volume))
	}
}

// mountStep mounts every active volume at /<volume> on one side.
func (r *workflowRun) mountStep(ctx context.Context, cluster, vserver string) {
	for _, volume := range r.active() {
		r.exec(ctx, volume, cluster, ontap.VolumeMount(vserver, volume))
	}
}

// shares lists the CIFS shares of one volume with their junction paths.
func shares(volume *app.Volume) []struct{ Name, Path string } {
	var list []struct{ Name, Path string }
	for _, qtree := range volume.Qtrees {
		if qtree.ShareName != "" {
			list = append(list, struct{ Name, Path string }{
				qtree.ShareName, fmt.Sprintf("/%s/%s", volume.Name, qtree.Name)})
		}
	}
	if volume.ShareName != "" {
		list = append(list, struct{ Name, Path string }{
			volume.ShareName, fmt.Sprintf("/%s", volume.Name)})
	}
	return list
}

// createSharesStep creates every configured share of the active volumes.
func (r *workflowRun) createSharesStep(ctx context.Context, cluster, vserver string) {
	for _, volume := range r.active() {
		spec := r.application.FindVolume(volume)
		if spec == nil {
			continue
		}
		for _, share := range shares(spec) {
			if r.failed[volume] {
				break
			}
			r.exec(ctx, volume, cluster, ontap.CIFSShareCreate(vserver, share.Name, share.Path))
		}
	}
}

// deleteSharesStep deletes every configured share of the active volumes.
func (r *workflowRun) deleteSharesStep(ctx context.Context, cluster, vserver string) {
	for _, volume := range r.active() {
		spec := r.application.FindVolume(volume)
		if spec == nil {
			continue
		}
		for _, share := range shares(spec) {
			if r.failed[volume] {
				break
			}
			r.exec(ctx, volume, cluster, ontap.CIFSShareDelete(vserver, share.Name))
		}
	}
}

// ensureSharesStep creates the configured shares of the active volumes only
// where no share of that name exists yet.
func (r *workflowRun) ensureSharesStep(ctx context.Context, cluster, vserver string) {
	for _, volume := range r.active() {
		spec := r.application.FindVolume(volume)
		if spec == nil {
			continue
		}
		for _, share := range shares(spec) {
			if r.failed[volume] {
				break
			}
			output, ok := r.query(ctx, volume, cluster, ontap.CIFSShareShow(vserver, share.Name))
			if !ok {
				break
			}
			if shareExists(output) {
				log.AddContext(ctx).Infof("Share %s already exists on %s, keeping it",
					share.Name, vserver)
				continue
			}
			r.exec(ctx, volume, cluster, ontap.CIFSShareCreate(vserver, share.Name, share.Path))
		}
	}
}

// shareExists interprets cifs share show output: an empty answer or the
// no-entries marker both mean the share is absent.
func shareExists(output string) bool {
	trimmed := strings.TrimSpace(output)
	return trimmed != "" && !strings.Contains(trimmed, ontap.NoEntriesMarker)
}

// legState reports the observed starting state of one leg, or unknown when
// the leg was never seen.
func (r *workflowRun) legState(volume string, side mirror.Side) constants.State {
	vs := r.byName[volume]
	if vs == nil {
		return constants.StateUnknown
	}

	leg := vs.ProdToDR
	if side == mirror.SideDRToProd {
		leg = vs.DRToProd
	}
	if leg == nil {
		return constants.StateUnknown
	}
	return leg.State
}

// replicationPolicy resolves the policy and schedule to recreate a leg with,
// preferring the leg's own observed settings and falling back to the
// opposite leg. Empty strings mean neither side knows them.
func (r *workflowRun) replicationPolicy(volume string, side mirror.Side) (policy, schedule string) {
	return observedPolicy(r.byName[volume], side)
}

// ensureLinkStep creates the given leg for every active volume where it does
// not already exist, reusing the observed policy and schedule.
func (r *workflowRun) ensureLinkStep(ctx context.Context, side mirror.Side) {
	cluster := clusterOf(r.application, side)
	for _, volume := range r.active() {
		destination := destinationOf(r.application, side, volume)
		output, ok := r.query(ctx, volume, cluster, ontap.SnapMirrorShow(destination))
		if !ok {
			continue
		}
		if mirror.ParseSnapMirrorShow(output, destination).Found {
			log.AddContext(ctx).Infof("Replication link %s already exists, skipping creation",
				destination)
			continue
		}

		policy, schedule := r.replicationPolicy(volume, side)
		if policy == "" || schedule == "" {
			r.fail(volume, fmt.Errorf(
				"cannot recreate link %s: policy/schedule unknown on both legs", destination))
			continue
		}
		r.exec(ctx, volume, cluster,
			ontap.SnapMirrorCreate(sourceOf(r.application, side, volume), destination, policy, schedule))
	}
}

// Failover: stop replication to DR and move the writable copy there. A leg
// that starts out quiesced has nothing left to transfer, so update and
// quiesce are skipped for it; waiting for mirrored would never complete.
func (r *workflowRun) addRecoveryTasks(taskFlow *flow.TaskFlow) {
	application := r.application
	cluster := clusterOf(application, mirror.SideProdToDR)
	alreadyQuiesced := func(volume string) bool {
		return r.legState(volume, mirror.SideProdToDR) == constants.StateQuiesced
	}
	taskFlow.AddTaskWithOutRevert("snapmirror-update-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			for _, volume := range r.active() {
				if alreadyQuiesced(volume) {
					continue
				}
				r.exec(ctx, volume, cluster,
					ontap.SnapMirrorUpdate(destinationOf(application, mirror.SideProdToDR, volume)))
			}
			for _, volume := range r.active() {
				if alreadyQuiesced(volume) {
					continue
				}
				r.waitState(ctx, volume, mirror.SideProdToDR, constants.StateMirrored)
			}
			return nil
		}).AddTaskWithOutRevert("snapmirror-quiesce-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			for _, volume := range r.active() {
				if alreadyQuiesced(volume) {
					continue
				}
				r.exec(ctx, volume, cluster,
					ontap.SnapMirrorQuiesce(destinationOf(application, mirror.SideProdToDR, volume)))
			}
			for _, volume := range r.active() {
				r.waitState(ctx, volume, mirror.SideProdToDR, constants.StateQuiesced)
			}
			return nil
		}).AddTaskWithOutRevert("snapmirror-break-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.snapMirrorStep(ctx, mirror.SideProdToDR, ontap.SnapMirrorBreak, "")
			return nil
		}).AddTaskWithOutRevert("unmount-offline-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.unmountOfflineStep(ctx, application.ProdCluster, application.ProdVserver)
			return nil
		}).AddTaskWithOutRevert("mount-and-share-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.mountStep(ctx, application.DRCluster, application.DRVserver)
			r.createSharesStep(ctx, application.DRCluster, application.DRVserver)
			return nil
		})
}

// Reverse replication after failover, capturing DR-side changes.
func (r *workflowRun) addRecoveryExtendedTasks(taskFlow *flow.TaskFlow) {
	application := r.application
	taskFlow.AddTaskWithOutRevert("online-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.onlineStep(ctx, application.ProdCluster, application.ProdVserver)
			return nil
		}).AddTaskWithOutRevert("create-reverse-link-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			cluster := application.ProdCluster
			for _, volume := range r.active() {
				policy, schedule := r.replicationPolicy(volume, mirror.SideProdToDR)
				if policy == "" || schedule == "" {
					r.fail(volume, fmt.Errorf(
						"cannot create reverse link for %s: policy/schedule unknown", volume))
					continue
				}
				r.exec(ctx, volume, cluster, ontap.SnapMirrorCreate(
					sourceOf(application, mirror.SideDRToProd, volume),
					destinationOf(application, mirror.SideDRToProd, volume),
					policy, schedule))
			}
			return nil
		}).AddTaskWithOutRevert("resync-dr-to-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.snapMirrorStep(ctx, mirror.SideDRToProd, ontap.SnapMirrorResync, "")
			return nil
		})
}

// Fail back to production while preserving the DR-side test data captured by
// the reverse mirror.
func (r *workflowRun) addRestorationExtendedTasks(taskFlow *flow.TaskFlow) {
	application := r.application
	taskFlow.AddTaskWithOutRevert("delete-shares-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.deleteSharesStep(ctx, application.DRCluster, application.DRVserver)
			return nil
		}).AddTaskWithOutRevert("snapmirror-update-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.snapMirrorStep(ctx, mirror.SideDRToProd, ontap.SnapMirrorUpdate, constants.StateMirrored)
			return nil
		}).AddTaskWithOutRevert("snapmirror-quiesce-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.snapMirrorStep(ctx, mirror.SideDRToProd, ontap.SnapMirrorQuiesce, constants.StateQuiesced)
			return nil
		}).AddTaskWithOutRevert("snapmirror-break-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.snapMirrorStep(ctx, mirror.SideDRToProd, ontap.SnapMirrorBreak, "")
			return nil
		}).AddTaskWithOutRevert("mount-and-ensure-shares-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.mountStep(ctx, application.ProdCluster, application.ProdVserver)
			r.ensureSharesStep(ctx, application.ProdCluster, application.ProdVserver)
			return nil
		}).AddTaskWithOutRevert("ensure-forward-link-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.ensureLinkStep(ctx, mirror.SideProdToDR)
			return nil
		}).AddTaskWithOutRevert("delete-reverse-link-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			cluster := application.ProdCluster
			for _, volume := range r.active() {
				r.exec(ctx, volume, cluster, ontap.SnapMirrorDelete(
					destinationOf(application, mirror.SideDRToProd, volume)))
			}
			return nil
		}).AddTaskWithOutRevert("unmount-offline-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.unmountOfflineStep(ctx, application.DRCluster, application.DRVserver)
			return nil
		})
}

// Fail back directly without capturing DR-side changes.
func (r *workflowRun) addRestorationFlipFlopTasks(taskFlow *flow.TaskFlow) {
	application := r.application
	taskFlow.AddTaskWithOutRevert("online-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.onlineStep(ctx, application.ProdCluster, application.ProdVserver)
			return nil
		}).AddTaskWithOutRevert("mount-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.mountStep(ctx, application.ProdCluster, application.ProdVserver)
			return nil
		}).AddTaskWithOutRevert("ensure-shares-prod",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.ensureSharesStep(ctx, application.ProdCluster, application.ProdVserver)
			return nil
		}).AddTaskWithOutRevert("unmount-offline-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.unmountOfflineStep(ctx, application.DRCluster, application.DRVserver)
			return nil
		})
}

// Final cleanup after either restoration path: re-establish the forward
// mirror and resume scheduled replication.
func (r *workflowRun) addRestorationPostTVTTasks(taskFlow *flow.TaskFlow) {
	application := r.application
	taskFlow.AddTaskWithOutRevert("online-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.onlineStep(ctx, application.DRCluster, application.DRVserver)
			return nil
		}).AddTaskWithOutRevert("ensure-forward-link-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.ensureLinkStep(ctx, mirror.SideProdToDR)
			return nil
		}).AddTaskWithOutRevert("delete-shares-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.deleteSharesStep(ctx, application.DRCluster, application.DRVserver)
			return nil
		}).AddTaskWithOutRevert("resync-prod-to-dr",
		func(ctx context.Context, _ map[string]interface{}) error {
			r.snapMirrorStep(ctx, mirror.SideProdToDR, ontap.SnapMirrorResync, "")
			return nil
		})
}
