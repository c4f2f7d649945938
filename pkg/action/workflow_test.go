package action_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Heprex/automation/pkg/action"
	"github.com/Heprex/automation/pkg/app"
	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/mirror"
	"github.com/Heprex/automation/pkg/ontap"
)

// relState is the simulated state of one relationship on the fake fabric.
type relState struct {
	state    string
	status   string
	policy   string
	schedule string
}

// fakeFabric simulates both clusters sharing one SnapMirror topology, so
// workflow state transitions are observable across steps.
type fakeFabric struct {
	mu     sync.Mutex
	rels   map[string]*relState
	shares map[string]bool
	fail   map[string]error
	calls  map[string][]string
}

func newFakeFabric() *fakeFabric {
	return &fakeFabric{
		rels:   make(map[string]*relState),
		shares: make(map[string]bool),
		fail:   make(map[string]error),
		calls:  make(map[string][]string),
	}
}

func (f *fakeFabric) pool() *fabricPool {
	return &fabricPool{fabric: f}
}

// commands lists the non-query commands a cluster received, in order.
func (f *fakeFabric) commands(cluster string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var commands []string
	for _, command := range f.calls[cluster] {
		if strings.HasPrefix(command, "snapmirror show") ||
			strings.HasPrefix(command, "cifs share show") {
			continue
		}
		commands = append(commands, command)
	}
	return commands
}

func argAfter(command, flag string) string {
	fields := strings.Fields(command)
	for i, field := range fields {
		if field == flag && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

func (f *fakeFabric) execute(cluster, command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[cluster] = append(f.calls[cluster], command)

	for prefix, err := range f.fail {
		if strings.HasPrefix(command, prefix) {
			return "", err
		}
	}

	destination := argAfter(command, "-destination-path")
	switch {
	case strings.HasPrefix(command, "snapmirror show"):
		rel, ok := f.rels[destination]
		if !ok {
			return ontap.NoEntriesMarker + "\n", nil
		}
		return fmt.Sprintf("src %s %s %s %s %s 0:05:00\n",
			destination, rel.schedule, rel.policy, rel.state, rel.status), nil
	case strings.HasPrefix(command, "snapmirror update"):
		// Instant transfer, relationship settles back to Idle.
	case strings.HasPrefix(command, "snapmirror quiesce"):
		f.rels[destination].status = "Quiesced"
	case strings.HasPrefix(command, "snapmirror break"):
		f.rels[destination].state = "Broken-off"
		f.rels[destination].status = "Idle"
	case strings.HasPrefix(command, "snapmirror resync"):
		f.rels[destination].state = "Snapmirrored"
		f.rels[destination].status = "Idle"
	case strings.HasPrefix(command, "snapmirror create"):
		f.rels[destination] = &relState{
			state:    "Uninitialized",
			status:   "Idle",
			policy:   argAfter(command, "-policy"),
			schedule: argAfter(command, "-schedule"),
		}
	case strings.HasPrefix(command, "snapmirror delete"):
		delete(f.rels, destination)
	case strings.HasPrefix(command, "cifs share show"):
		if f.shares[argAfter(command, "-share-name")] {
			return "share exists", nil
		}
		return ontap.NoEntriesMarker + "\n", nil
	case strings.HasPrefix(command, "cifs share create"):
		f.shares[argAfter(command, "-share-name")] = true
	case strings.HasPrefix(command, "cifs share delete"):
		delete(f.shares, argAfter(command, "-share-name"))
	}
	return "", nil
}

type fabricPool struct {
	fabric *fakeFabric
}

func (p *fabricPool) Get(_ context.Context, cluster string) (ontap.Executor, error) {
	return &fabricExecutor{fabric: p.fabric, cluster: cluster}, nil
}

type fabricExecutor struct {
	fabric  *fakeFabric
	cluster string
}

func (e *fabricExecutor) Execute(_ context.Context, command string) (string, error) {
	return e.fabric.execute(e.cluster, command)
}

func (e *fabricExecutor) Cluster() string { return e.cluster }
func (e *fabricExecutor) Close() error    { return nil }

func sharedApplication() *app.Application {
	application := testApplication("vol1")
	application.Volumes[0].ShareName = "app1_share"
	return application
}

func seedForward(fabric *fakeFabric, volume, state, status string) {
	fabric.rels["svm_dr:"+volume] = &relState{
		state: state, status: status,
		policy: "MirrorAllSnapshots", schedule: "8hours",
	}
}

func TestRecoveryWorkflowRunsStepsInOrder(t *testing.T) {
	// arrange
	application := sharedApplication()
	fabric := newFakeFabric()
	seedForward(fabric, "vol1", "Snapmirrored", "Idle")
	status := forwardStatus(application, constants.StateMirrored)
	machine := action.NewMachine(fabric.pool(), 2)

	// act
	batch, err := machine.Apply(context.Background(), application, status,
		constants.ActionRecovery, action.Options{})

	// assert
	assert.NoError(t, err)
	assert.True(t, batch.Results[0].OK())

	assert.Equal(t, []string{
		"snapmirror update -destination-path svm_dr:vol1",
		"snapmirror quiesce -destination-path svm_dr:vol1",
		"snapmirror break -destination-path svm_dr:vol1",
		"volume mount -vserver svm_dr -volume vol1 -junction-path /vol1",
		"cifs share create -vserver svm_dr -share-name app1_share -path /vol1",
	}, fabric.commands(drCluster))
	assert.Equal(t, []string{
		"volume unmount -vserver svm_prod -volume vol1",
		"volume offline -vserver svm_prod -volume vol1",
	}, fabric.commands(prodCluster))

	// the relationship ends up severed with DR writable
	assert.Equal(t, "Broken-off", fabric.rels["svm_dr:vol1"].state)
}

func TestRecoverySkipsUpdateForQuiescedRelationship(t *testing.T) {
	// arrange: the relationship is already quiesced, so there is nothing left
	// to transfer and no idle state to wait for
	application := sharedApplication()
	fabric := newFakeFabric()
	seedForward(fabric, "vol1", "Snapmirrored", "Quiesced")
	status := forwardStatus(application, constants.StateQuiesced)
	machine := action.NewMachine(fabric.pool(), 1)

	// act
	batch, err := machine.Apply(context.Background(), application, status,
		constants.ActionRecovery, action.Options{})

	// assert
	assert.NoError(t, err)
	assert.True(t, batch.Results[0].OK())
	assert.Equal(t, []string{
		"snapmirror break -destination-path svm_dr:vol1",
		"volume mount -vserver svm_dr -volume vol1 -junction-path /vol1",
		"cifs share create -vserver svm_dr -share-name app1_share -path /vol1",
	}, fabric.commands(drCluster))
	assert.Equal(t, "Broken-off", fabric.rels["svm_dr:vol1"].state)
}

func TestRecoveryRequiresForwardDirection(t *testing.T) {
	// arrange
	application := sharedApplication()
	status := &mirror.ApplicationStatus{
		App: application.Name,
		Volumes: []*mirror.VolumeStatus{{
			Volume:   "vol1",
			ProdToDR: forwardLeg(application, "vol1", constants.StateBrokenOff),
		}},
		Direction: constants.DirectionDRToProd,
	}
	machine := action.NewMachine(newFakeFabric().pool(), 1)

	// act
	_, err := machine.Apply(context.Background(), application, status,
		constants.ActionRecovery, action.Options{})

	// assert
	var preconditionErr *action.PreconditionError
	assert.ErrorAs(t, err, &preconditionErr)
}

func TestWorkflowDropsFailedVolumeFromLaterSteps(t *testing.T) {
	// arrange
	application := testApplication("vol1", "vol2")
	fabric := newFakeFabric()
	seedForward(fabric, "vol1", "Snapmirrored", "Idle")
	seedForward(fabric, "vol2", "Snapmirrored", "Idle")
	fabric.fail["snapmirror quiesce -destination-path svm_dr:vol1"] =
		errors.New("quiesce refused")
	status := forwardStatus(application, constants.StateMirrored)
	machine := action.NewMachine(fabric.pool(), 2)

	// act
	batch, err := machine.Apply(context.Background(), application, status,
		constants.ActionRecovery, action.Options{})

	// assert
	assert.NoError(t, err)
	var failed, succeeded *action.Result
	for _, result := range batch.Results {
		if result.Volume == "vol1" {
			failed = result
		} else {
			succeeded = result
		}
	}
	assert.Error(t, failed.Err)
	assert.True(t, succeeded.OK())
	assert.True(t, batch.Partial())

	// vol1 is never broken after its quiesce failed, vol2 completes
	assert.NotContains(t, fabric.commands(drCluster),
		"snapmirror break -destination-path svm_dr:vol1")
	assert.Contains(t, fabric.commands(drCluster),
		"snapmirror break -destination-path svm_dr:vol2")
	assert.Equal(t, "Snapmirrored", fabric.rels["svm_dr:vol1"].state)
	assert.Equal(t, "Broken-off", fabric.rels["svm_dr:vol2"].state)
}

func TestRecoveryExtendedCreatesReverseLinkWithObservedPolicy(t *testing.T) {
	// arrange
	application := testApplication("vol1")
	fabric := newFakeFabric()
	seedForward(fabric, "vol1", "Broken-off", "Idle")
	status := &mirror.ApplicationStatus{
		App: application.Name,
		Volumes: []*mirror.VolumeStatus{{
			Volume:   "vol1",
			ProdToDR: forwardLeg(application, "vol1", constants.StateBrokenOff),
		}},
		Direction: constants.DirectionDRToProd,
	}
	machine := action.NewMachine(fabric.pool(), 1)

	// act
	batch, err := machine.Apply(context.Background(), application, status,
		constants.ActionRecoveryExtended, action.Options{})

	// assert
	assert.NoError(t, err)
	assert.True(t, batch.Results[0].OK())
	assert.Equal(t, []string{
		"volume online -vserver svm_prod -volume vol1",
		"snapmirror create -source-path svm_dr:vol1 -destination-path svm_prod:vol1" +
			" -policy MirrorAllSnapshots -schedule 8hours",
		"snapmirror resync -destination-path svm_prod:vol1",
	}, fabric.commands(prodCluster))
	assert.Equal(t, "Snapmirrored", fabric.rels["svm_prod:vol1"].state)
}

func TestFlipFlopCreatesMissingShareOnly(t *testing.T) {
	// arrange
	application := sharedApplication()
	fabric := newFakeFabric()
	seedForward(fabric, "vol1", "Broken-off", "Idle")
	status := &mirror.ApplicationStatus{
		App: application.Name,
		Volumes: []*mirror.VolumeStatus{{
			Volume:   "vol1",
			ProdToDR: forwardLeg(application, "vol1", constants.StateBrokenOff),
		}},
		Direction: constants.DirectionDRToProd,
	}
	machine := action.NewMachine(fabric.pool(), 1)

	// act
	batch, err := machine.Apply(context.Background(), application, status,
		constants.ActionRestorationFlipFlop, action.Options{})

	// assert
	assert.NoError(t, err)
	assert.True(t, batch.Results[0].OK())
	assert.Equal(t, []string{
		"volume online -vserver svm_prod -volume vol1",
		"volume mount -vserver svm_prod -volume vol1 -junction-path /vol1",
		"cifs share create -vserver svm_prod -share-name app1_share -path /vol1",
	}, fabric.commands(prodCluster))
	assert.Equal(t, []string{
		"volume unmount -vserver svm_dr -volume vol1",
		"volume offline -vserver svm_dr -volume vol1",
	}, fabric.commands(drCluster))

	// act: running again finds the share and leaves it alone
	fabricAgain := fabric
	seedForward(fabricAgain, "vol1", "Broken-off", "Idle")
	batch, err = machine.Apply(context.Background(), application, status,
		constants.ActionRestorationFlipFlop, action.Options{})

	// assert
	assert.NoError(t, err)
	assert.True(t, batch.Results[0].OK())
	var creates int
	for _, command := range fabricAgain.commands(prodCluster) {
		if strings.HasPrefix(command, "cifs share create") {
			creates++
		}
	}
	assert.Equal(t, 1, creates)
}

func TestRestorationPostTVTRecreatesForwardLink(t *testing.T) {
	// arrange: forward link is gone, reverse leg still knows policy/schedule
	application := testApplication("vol1")
	fabric := newFakeFabric()
	status := &mirror.ApplicationStatus{
		App: application.Name,
		Volumes: []*mirror.VolumeStatus{{
			Volume:   "vol1",
			DRToProd: reverseLeg(application, "vol1", constants.StateBrokenOff),
		}},
		Direction: constants.DirectionProdToDR,
	}
	machine := action.NewMachine(fabric.pool(), 1)

	// act
	batch, err := machine.Apply(context.Background(), application, status,
		constants.ActionRestorationPostTVT, action.Options{})

	// assert
	assert.NoError(t, err)
	assert.True(t, batch.Results[0].OK())
	assert.Equal(t, []string{
		"volume online -vserver svm_dr -volume vol1",
		"snapmirror create -source-path svm_prod:vol1 -destination-path svm_dr:vol1" +
			" -policy MirrorAllSnapshots -schedule 8hours",
		"snapmirror resync -destination-path svm_dr:vol1",
	}, fabric.commands(drCluster))
	assert.Equal(t, "Snapmirrored", fabric.rels["svm_dr:vol1"].state)
}
