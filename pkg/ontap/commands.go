package ontap

import (
	"fmt"
)

// Path is a vserver-qualified volume path, rendered as "vserver:volume".
type Path struct {
	Vserver string
	Volume  string
}

// String renders the path in ONTAP CLI notation.
func (p Path) String() string {
	return fmt.Sprintf("%s:%s", p.Vserver, p.Volume)
}

// NoEntriesMarker is printed by ONTAP when a show command matches nothing.
const NoEntriesMarker = "There are no entries matching your query."

// SnapMirrorShow queries one relationship by destination path.
func SnapMirrorShow(destination Path) string {
	return fmt.Sprintf("snapmirror show -destination-path %s -fields schedule,policy,state,status,lag-time",
		destination)
}

// SnapMirrorUpdate triggers an incremental transfer.
func SnapMirrorUpdate(destination Path) string {
	return fmt.Sprintf("snapmirror update -destination-path %s", destination)
}

// SnapMirrorQuiesce pauses scheduled transfers.
func SnapMirrorQuiesce(destination Path) string {
	return fmt.Sprintf("snapmirror quiesce -destination-path %s", destination)
}

// SnapMirrorBreak severs the relationship, making the destination writable.
func SnapMirrorBreak(destination Path) string {
	return fmt.Sprintf("snapmirror break -destination-path %s", destination)
}

// SnapMirrorResync re-establishes a broken relationship.
func SnapMirrorResync(destination Path) string {
	return fmt.Sprintf("snapmirror resync -destination-path %s", destination)
}

// SnapMirrorCreate creates a relationship with the given policy and schedule.
func SnapMirrorCreate(source, destination Path, policy, schedule string) string {
	return fmt.Sprintf("snapmirror create -source-path %s -destination-path %s -policy %s -schedule %s",
		source, destination, policy, schedule)
}

// SnapMirrorDelete removes a relationship definition.
func SnapMirrorDelete(destination Path) string {
	return fmt.Sprintf("snapmirror delete -destination-path %s", destination)
}

// VolumeOnline brings a volume online.
func VolumeOnline(vserver, volume string) string {
	return fmt.Sprintf("volume online -vserver %s -volume %s", vserver, volume)
}

// VolumeOffline takes a volume offline.
func VolumeOffline(vserver, volume string) string {
	return fmt.Sprintf("volume offline -vserver %s -volume %s", vserver, volume)
}

// VolumeMount mounts a volume at /<volume>.
func VolumeMount(vserver, volume string) string {
	return fmt.Sprintf("volume mount -vserver %s -volume %s -junction-path /%s", vserver, volume, volume)
}

// VolumeUnmount unmounts a volume.
func VolumeUnmount(vserver, volume string) string {
	return fmt.Sprintf("volume unmount -vserver %s -volume %s", vserver, volume)
}

// CIFSShareCreate exposes path as a CIFS share.
func CIFSShareCreate(vserver, share, path string) string {
	return fmt.Sprintf("cifs share create -vserver %s -share-name %s -path %s", vserver, share, path)
}

// CIFSShareDelete removes a CIFS share.
func CIFSShareDelete(vserver, share string) string {
	return fmt.Sprintf("cifs share delete -vserver %s -share-name %s", vserver, share)
}

// CIFSShareShow queries a CIFS share.
func CIFSShareShow(vserver, share string) string {
	return fmt.Sprintf("cifs share show -vserver %s -share-name %s", vserver, share)
}
