// Package app defines the application inventory consumed by the DR
// orchestrator. Inventory records are read fresh per session and never
// mutated afterwards.
package app

import (
	"fmt"
)

// Qtree is a qtree below a replicated volume, optionally exposed as a share.
type Qtree struct {
	Name      string `json:"qtree_name"`
	ShareName string `json:"share_name,omitempty"`
}

// Volume is one replicated volume of an application. A volume carries either
// a direct share, a set of qtrees with their own shares, or nothing at all
// (replication-only, no front-end export).
type Volume struct {
	Name      string  `json:"volume_name"`
	ShareName string  `json:"share_name,omitempty"`
	Qtrees    []Qtree `json:"qtrees,omitempty"`
}

// Application is one protected application with its replication endpoints.
type Application struct {
	Name        string   `json:"app_name"`
	ProdCluster string   `json:"prod_cluster"`
	DRCluster   string   `json:"dr_cluster"`
	ProdVserver string   `json:"prod_vserver"`
	DRVserver   string   `json:"dr_vserver"`
	Details     string   `json:"details,omitempty"`
	Volumes     []Volume `json:"volume_names"`
}

// Validate checks the shape of an application record. Shape errors are fatal:
// the orchestrator refuses to issue any remote call for a malformed record.
func (a *Application) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("application with empty app_name")
	}
	if a.ProdCluster == "" || a.DRCluster == "" {
		return fmt.Errorf("application %s: prod_cluster and dr_cluster are required", a.Name)
	}
	if a.ProdVserver == "" || a.DRVserver == "" {
		return fmt.Errorf("application %s: prod_vserver and dr_vserver are required", a.Name)
	}
	if len(a.Volumes) == 0 {
		return fmt.Errorf("application %s: at least one volume is required", a.Name)
	}

	seen := make(map[string]struct{}, len(a.Volumes))
	for i, volume := range a.Volumes {
		if volume.Name == "" {
			return fmt.Errorf("application %s: volume #%d has no volume_name", a.Name, i+1)
		}
		if _, ok := seen[volume.Name]; ok {
			return fmt.Errorf("application %s: duplicate volume %s", a.Name, volume.Name)
		}
		seen[volume.Name] = struct{}{}

		if volume.ShareName != "" && len(volume.Qtrees) != 0 {
			return fmt.Errorf("application %s: volume %s has both share_name and qtrees",
				a.Name, volume.Name)
		}
		for j, qtree := range volume.Qtrees {
			if qtree.Name == "" {
				return fmt.Errorf("application %s: volume %s qtree #%d has no qtree_name",
					a.Name, volume.Name, j+1)
			}
		}
	}

	return nil
}

// FindVolume returns the named volume of the application, or nil.
func (a *Application) FindVolume(name string) *Volume {
	for i := range a.Volumes {
		if a.Volumes[i].Name == name {
			return &a.Volumes[i]
		}
	}
	return nil
}

// VolumeNames returns the names of all volumes in inventory order.
func (a *Application) VolumeNames() []string {
	names := make([]string, 0, len(a.Volumes))
	for _, volume := range a.Volumes {
		names = append(names, volume.Name)
	}
	return names
}

// Inventory is the ordered collection of configured applications.
type Inventory []*Application

// Find returns the application with the given name, or nil.
func (i Inventory) Find(name string) *Application {
	for _, application := range i {
		if application.Name == name {
			return application
		}
	}
	return nil
}
