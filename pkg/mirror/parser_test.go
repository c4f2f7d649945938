package mirror_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/mirror"
	"github.com/Heprex/automation/pkg/ontap"
)

const showOutput = `
                                                                       Progress
Source            Destination Mirror  Relationship   Total             Last
Path              Path        State   Status         Progress  Healthy Updated
----------- ------------- ------- -------------- --------- ------- --------
svm_prod:vol_app1 svm_dr:vol_app1 8hours MirrorAllSnapshots Snapmirrored Idle 0:42:13
`

func TestParseSnapMirrorShowMirrored(t *testing.T) {
	// arrange
	destination := ontap.Path{Vserver: "svm_dr", Volume: "vol_app1"}

	// act
	parsed := mirror.ParseSnapMirrorShow(showOutput, destination)

	// assert
	assert.True(t, parsed.Found)
	assert.Equal(t, constants.StateMirrored, parsed.State)
	assert.Equal(t, "Idle", parsed.Status)
	assert.Equal(t, "0:42:13", parsed.LagTime)
	assert.Equal(t, "8hours", parsed.Schedule)
	assert.Equal(t, "MirrorAllSnapshots", parsed.Policy)
}

func TestParseSnapMirrorShowNoEntries(t *testing.T) {
	// arrange
	output := "There are no entries matching your query.\n"
	destination := ontap.Path{Vserver: "svm_dr", Volume: "vol_app1"}

	// act
	parsed := mirror.ParseSnapMirrorShow(output, destination)

	// assert
	assert.False(t, parsed.Found)
}

func TestParseSnapMirrorShowUnparsableRow(t *testing.T) {
	// arrange
	output := "svm_dr:vol_app1 oops\n"
	destination := ontap.Path{Vserver: "svm_dr", Volume: "vol_app1"}

	// act
	parsed := mirror.ParseSnapMirrorShow(output, destination)

	// assert
	assert.True(t, parsed.Found)
	assert.Equal(t, constants.StateUnknown, parsed.State)
}

func TestParseSnapMirrorShowStateMapping(t *testing.T) {
	// arrange
	destination := ontap.Path{Vserver: "svm_dr", Volume: "vol1"}
	cases := []struct {
		name   string
		state  string
		status string
		want   constants.State
	}{
		{"mirrored idle", "Snapmirrored", "Idle", constants.StateMirrored},
		{"quiesced", "Snapmirrored", "Quiesced", constants.StateQuiesced},
		{"quiescing", "Snapmirrored", "Quiescing", constants.StateQuiesced},
		{"transferring", "Snapmirrored", "Transferring", constants.StateTransferring},
		{"finalizing", "Snapmirrored", "Finalizing", constants.StateTransferring},
		{"resyncing", "Broken-off", "Resyncing", constants.StateResyncing},
		{"broken-off", "Broken-off", "Idle", constants.StateBrokenOff},
		{"uninitialized", "Uninitialized", "Idle", constants.StateUninitialized},
		{"unrecognized", "Wedged", "Odd", constants.StateUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// arrange
			output := "svm_prod:vol1 svm_dr:vol1 8hours MirrorAllSnapshots " +
				c.state + " " + c.status + " 0:01:00\n"

			// act
			parsed := mirror.ParseSnapMirrorShow(output, destination)

			// assert
			assert.True(t, parsed.Found)
			assert.Equal(t, c.want, parsed.State)
		})
	}
}

func TestParseSnapMirrorShowIgnoresOtherVolumes(t *testing.T) {
	// arrange
	output := "svm_prod:vol_other svm_dr:vol_other 8hours Mirror Snapmirrored Idle 0:01:00\n"
	destination := ontap.Path{Vserver: "svm_dr", Volume: "vol_app1"}

	// act
	parsed := mirror.ParseSnapMirrorShow(output, destination)

	// assert
	assert.True(t, parsed.Found)
	assert.Equal(t, constants.StateUnknown, parsed.State)
}
