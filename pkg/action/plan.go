package action

import (
	"fmt"

	"github.com/Heprex/automation/pkg/app"
	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/mirror"
	"github.com/Heprex/automation/pkg/ontap"
)

// planner renders a workflow preview: the same steps apply would run, as
// static command lists. Conditional commands carry a note instead of being
// silently resolved, because the preview must not touch any cluster.
type planner struct {
	application *app.Application
	act         constants.Action

	volumes []*mirror.VolumeStatus
	skipped []string
}

func planWorkflow(application *app.Application, status *mirror.ApplicationStatus,
	act constants.Action, volumes []*mirror.VolumeStatus) (*Plan, error) {
	p := &planner{application: application, act: act}
	for _, vs := range volumes {
		if _, err := eligibleLeg(act, vs, application.Name); err != nil {
			p.skipped = append(p.skipped, err.Error())
			continue
		}
		p.volumes = append(p.volumes, vs)
	}

	plan := &Plan{Action: act, App: application.Name}
	switch act {
	case constants.ActionRecovery:
		plan.Steps = p.recoverySteps()
	case constants.ActionRecoveryExtended:
		plan.Steps = p.recoveryExtendedSteps()
	case constants.ActionRestorationExtended:
		plan.Steps = p.restorationExtendedSteps()
	case constants.ActionRestorationFlipFlop:
		plan.Steps = p.restorationFlipFlopSteps()
	case constants.ActionRestorationPostTVT:
		plan.Steps = p.restorationPostTVTSteps()
	}

	if len(p.skipped) != 0 && len(plan.Steps) != 0 {
		plan.Steps[0].Notes = append(p.skipped, plan.Steps[0].Notes...)
	}
	return plan, nil
}

func (p *planner) snapMirrorStep(name string, side mirror.Side,
	build func(ontap.Path) string) *PlanStep {
	step := &PlanStep{Name: name}
	cluster := clusterOf(p.application, side)
	for _, vs := range p.volumes {
		step.Commands = append(step.Commands, Command{
			Cluster: cluster,
			Text:    build(destinationOf(p.application, side, vs.Volume)),
		})
	}
	return step
}

func (p *planner) volumeStep(name, cluster, vserver string,
	build func(vserver, volume string) []string) *PlanStep {
	step := &PlanStep{Name: name}
	for _, vs := range p.volumes {
		for _, text := range build(vserver, vs.Volume) {
			step.Commands = append(step.Commands, Command{Cluster: cluster, Text: text})
		}
	}
	return step
}

func (p *planner) shareStep(name, cluster, vserver string, create, checkFirst bool) *PlanStep {
	step := &PlanStep{Name: name}
	for _, vs := range p.volumes {
		spec := p.application.FindVolume(vs.Volume)
		if spec == nil {
			continue
		}
		shareList := shares(spec)
		if len(shareList) == 0 {
			step.Notes = append(step.Notes,
				fmt.Sprintf("volume %s has no share configured, skipping", vs.Volume))
			continue
		}
		for _, share := range shareList {
			switch {
			case checkFirst:
				step.Commands = append(step.Commands, Command{Cluster: cluster,
					Text: ontap.CIFSShareShow(vserver, share.Name)})
				step.Notes = append(step.Notes, fmt.Sprintf("if %s is absent: %s",
					share.Name, ontap.CIFSShareCreate(vserver, share.Name, share.Path)))
			case create:
				step.Commands = append(step.Commands, Command{Cluster: cluster,
					Text: ontap.CIFSShareCreate(vserver, share.Name, share.Path)})
			default:
				step.Commands = append(step.Commands, Command{Cluster: cluster,
					Text: ontap.CIFSShareDelete(vserver, share.Name)})
			}
		}
	}
	return step
}

func (p *planner) createLinkStep(name string, side mirror.Side, ensure bool) *PlanStep {
	step := &PlanStep{Name: name}
	cluster := clusterOf(p.application, side)
	for _, vs := range p.volumes {
		policy, schedule := observedPolicy(vs, side)
		if policy == "" || schedule == "" {
			step.Notes = append(step.Notes, fmt.Sprintf(
				"volume %s: policy/schedule unknown, link creation will fail", vs.Volume))
			continue
		}
		text := ontap.SnapMirrorCreate(
			sourceOf(p.application, side, vs.Volume),
			destinationOf(p.application, side, vs.Volume),
			policy, schedule)
		if ensure {
			step.Notes = append(step.Notes, fmt.Sprintf(
				"volume %s: link is created only if absent", vs.Volume))
		}
		step.Commands = append(step.Commands, Command{Cluster: cluster, Text: text})
	}
	return step
}

// observedPolicy mirrors workflowRun.replicationPolicy for previews.
func observedPolicy(vs *mirror.VolumeStatus, side mirror.Side) (policy, schedule string) {
	var primary, fallback *mirror.Relationship
	if side == mirror.SideProdToDR {
		primary, fallback = vs.ProdToDR, vs.DRToProd
	} else {
		primary, fallback = vs.DRToProd, vs.ProdToDR
	}

	for _, leg := range []*mirror.Relationship{primary, fallback} {
		if leg == nil {
			continue
		}
		if policy == "" && leg.Policy != "" && leg.Policy != "-" {
			policy = leg.Policy
		}
		if schedule == "" && leg.Schedule != "" && leg.Schedule != "-" {
			schedule = leg.Schedule
		}
	}
	return policy, schedule
}

func unmountOffline(vserver, volume string) []string {
	return []string{ontap.VolumeUnmount(vserver, volume), ontap.VolumeOffline(vserver, volume)}
}

func online(vserver, volume string) []string {
	return []string{ontap.VolumeOnline(vserver, volume)}
}

func mount(vserver, volume string) []string {
	return []string{ontap.VolumeMount(vserver, volume)}
}

func (p *planner) recoverySteps() []*PlanStep {
	application := p.application
	updateStep := &PlanStep{Name: "SnapMirror update @ DR"}
	quiesceStep := &PlanStep{Name: "SnapMirror quiesce @ DR"}
	cluster := clusterOf(application, mirror.SideProdToDR)
	for _, vs := range p.volumes {
		if vs.ProdToDR != nil && vs.ProdToDR.State == constants.StateQuiesced {
			updateStep.Notes = append(updateStep.Notes, fmt.Sprintf(
				"volume %s is already quiesced, update and quiesce are skipped", vs.Volume))
			continue
		}
		destination := destinationOf(application, mirror.SideProdToDR, vs.Volume)
		updateStep.Commands = append(updateStep.Commands,
			Command{Cluster: cluster, Text: ontap.SnapMirrorUpdate(destination)})
		quiesceStep.Commands = append(quiesceStep.Commands,
			Command{Cluster: cluster, Text: ontap.SnapMirrorQuiesce(destination)})
	}
	return []*PlanStep{
		updateStep,
		quiesceStep,
		p.snapMirrorStep("SnapMirror break @ DR", mirror.SideProdToDR, ontap.SnapMirrorBreak),
		p.volumeStep("Unmount and offline volumes @ PROD",
			application.ProdCluster, application.ProdVserver, unmountOffline),
		func() *PlanStep {
			step := p.volumeStep("Mount volumes and create shares @ DR",
				application.DRCluster, application.DRVserver, mount)
			shareStep := p.shareStep("", application.DRCluster, application.DRVserver, true, false)
			step.Commands = append(step.Commands, shareStep.Commands...)
			step.Notes = append(step.Notes, shareStep.Notes...)
			return step
		}(),
	}
}

func (p *planner) recoveryExtendedSteps() []*PlanStep {
	application := p.application
	return []*PlanStep{
		p.volumeStep("Bring PROD volumes online",
			application.ProdCluster, application.ProdVserver, online),
		p.createLinkStep("Create reverse replication link @ PROD", mirror.SideDRToProd, false),
		p.snapMirrorStep("SnapMirror resync DR to PROD", mirror.SideDRToProd, ontap.SnapMirrorResync),
	}
}

func (p *planner) restorationExtendedSteps() []*PlanStep {
	application := p.application
	return []*PlanStep{
		p.shareStep("Delete shares @ DR", application.DRCluster, application.DRVserver, false, false),
		p.snapMirrorStep("SnapMirror update @ PROD", mirror.SideDRToProd, ontap.SnapMirrorUpdate),
		p.snapMirrorStep("SnapMirror quiesce @ PROD", mirror.SideDRToProd, ontap.SnapMirrorQuiesce),
		p.snapMirrorStep("SnapMirror break @ PROD", mirror.SideDRToProd, ontap.SnapMirrorBreak),
		func() *PlanStep {
			step := p.volumeStep("Mount volumes and verify shares @ PROD",
				application.ProdCluster, application.ProdVserver, mount)
			shareStep := p.shareStep("", application.ProdCluster, application.ProdVserver, true, true)
			step.Commands = append(step.Commands, shareStep.Commands...)
			step.Notes = append(step.Notes, shareStep.Notes...)
			return step
		}(),
		p.createLinkStep("Ensure forward replication link @ DR", mirror.SideProdToDR, true),
		p.snapMirrorStep("Delete reverse link @ PROD", mirror.SideDRToProd, ontap.SnapMirrorDelete),
		p.volumeStep("Unmount and offline volumes @ DR",
			application.DRCluster, application.DRVserver, unmountOffline),
	}
}

func (p *planner) restorationFlipFlopSteps() []*PlanStep {
	application := p.application
	return []*PlanStep{
		p.volumeStep("Bring PROD volumes online",
			application.ProdCluster, application.ProdVserver, online),
		p.volumeStep("Mount PROD volumes",
			application.ProdCluster, application.ProdVserver, mount),
		p.shareStep("Verify shares @ PROD",
			application.ProdCluster, application.ProdVserver, true, true),
		p.volumeStep("Unmount and offline volumes @ DR",
			application.DRCluster, application.DRVserver, unmountOffline),
	}
}

func (p *planner) restorationPostTVTSteps() []*PlanStep {
	application := p.application
	return []*PlanStep{
		p.volumeStep("Bring DR volumes online",
			application.DRCluster, application.DRVserver, online),
		p.createLinkStep("Ensure forward replication link @ DR", mirror.SideProdToDR, true),
		p.shareStep("Delete shares @ DR", application.DRCluster, application.DRVserver, false, false),
		p.snapMirrorStep("SnapMirror resync PROD to DR", mirror.SideProdToDR, ontap.SnapMirrorResync),
	}
}
