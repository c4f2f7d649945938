package ontap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Heprex/automation/pkg/ontap"
)

func TestPathString(t *testing.T) {
	// arrange
	path := ontap.Path{Vserver: "svm_dr", Volume: "vol_app1"}

	// assert
	assert.Equal(t, "svm_dr:vol_app1", path.String())
}

func TestCommandBuilders(t *testing.T) {
	// arrange
	source := ontap.Path{Vserver: "svm_prod", Volume: "vol1"}
	destination := ontap.Path{Vserver: "svm_dr", Volume: "vol1"}

	cases := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "show",
			got:  ontap.SnapMirrorShow(destination),
			want: "snapmirror show -destination-path svm_dr:vol1 -fields schedule,policy,state,status,lag-time",
		},
		{
			name: "update",
			got:  ontap.SnapMirrorUpdate(destination),
			want: "snapmirror update -destination-path svm_dr:vol1",
		},
		{
			name: "quiesce",
			got:  ontap.SnapMirrorQuiesce(destination),
			want: "snapmirror quiesce -destination-path svm_dr:vol1",
		},
		{
			name: "break",
			got:  ontap.SnapMirrorBreak(destination),
			want: "snapmirror break -destination-path svm_dr:vol1",
		},
		{
			name: "resync",
			got:  ontap.SnapMirrorResync(destination),
			want: "snapmirror resync -destination-path svm_dr:vol1",
		},
		{
			name: "create",
			got:  ontap.SnapMirrorCreate(source, destination, "MirrorAllSnapshots", "8hours"),
			want: "snapmirror create -source-path svm_prod:vol1 -destination-path svm_dr:vol1" +
				" -policy MirrorAllSnapshots -schedule 8hours",
		},
		{
			name: "delete",
			got:  ontap.SnapMirrorDelete(destination),
			want: "snapmirror delete -destination-path svm_dr:vol1",
		},
		{
			name: "volume online",
			got:  ontap.VolumeOnline("svm_prod", "vol1"),
			want: "volume online -vserver svm_prod -volume vol1",
		},
		{
			name: "volume mount",
			got:  ontap.VolumeMount("svm_dr", "vol1"),
			want: "volume mount -vserver svm_dr -volume vol1 -junction-path /vol1",
		},
		{
			name: "share create",
			got:  ontap.CIFSShareCreate("svm_dr", "share1", "/vol1/q1"),
			want: "cifs share create -vserver svm_dr -share-name share1 -path /vol1/q1",
		},
		{
			name: "share delete",
			got:  ontap.CIFSShareDelete("svm_dr", "share1"),
			want: "cifs share delete -vserver svm_dr -share-name share1",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// assert
			assert.Equal(t, c.want, c.got)
		})
	}
}
