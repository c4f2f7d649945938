package helper

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/Heprex/automation/pkg/action"
	"github.com/Heprex/automation/pkg/app"
	"github.com/Heprex/automation/pkg/audit"
	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/mirror"
	"github.com/Heprex/automation/utils"
	"github.com/Heprex/automation/utils/log"
)

// LogErrorf write error log and return the error
func LogErrorf(format string, err error) error {
	log.Errorf(format, err)
	return err
}

// PrintlnError used to print error to terminal
func PrintlnError(err error) error {
	fmt.Printf("%v\n", err)
	return nil
}

var statusHeader = []string{"App Name", "Volume Name", "State", "Status", "Lag Time",
	"Schedule", "Policy", "Recent Action", "User", "Timestamp"}

// historyLookup resolves the most recent audit record of an application.
type historyLookup func(appName string) *audit.Record

// PrintStatusTables renders the replication state of the given applications
// as one table per direction, mirroring how the clusters are organized.
func PrintStatusTables(statuses []*mirror.ApplicationStatus, history historyLookup) {
	printDirectionTable("CURRENT PROD TO DR REPLICATION", statuses, history,
		func(vs *mirror.VolumeStatus) *mirror.Relationship { return vs.ProdToDR })
	printDirectionTable("CURRENT DR TO PROD REPLICATION", statuses, history,
		func(vs *mirror.VolumeStatus) *mirror.Relationship { return vs.DRToProd })

	for _, status := range statuses {
		if status.Partial {
			fmt.Printf("Warning: some status queries for %s failed, view is incomplete\n",
				status.App)
		}
		if status.Direction == constants.DirectionInconsistent {
			fmt.Printf("Warning: replication direction of %s is inconsistent\n", status.App)
		}
	}
}

func printDirectionTable(title string, statuses []*mirror.ApplicationStatus,
	history historyLookup, leg func(*mirror.VolumeStatus) *mirror.Relationship) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(statusHeader)

	var rows int
	for _, status := range statuses {
		recentAction, recentUser, recentTime := "-", "-", "-"
		if record := history(status.App); record != nil {
			recentAction = string(record.Action)
			recentUser = record.Operator
			recentTime = record.Timestamp.Format(constants.AuditTimestampFormat)
		}

		for _, vs := range status.Volumes {
			relationship := leg(vs)
			if relationship == nil {
				continue
			}
			table.Append([]string{
				status.App,
				vs.Volume,
				string(relationship.State),
				relationship.Status,
				relationship.LagTime,
				relationship.Schedule,
				relationship.Policy,
				recentAction,
				recentUser,
				recentTime,
			})
			rows++
		}
	}

	if rows == 0 {
		fmt.Printf("\n===== NO ACTIVE %s FOUND =====\n", title[len("CURRENT "):])
		return
	}

	fmt.Printf("\n===== %s =====\n", title)
	table.Render()
}

// PrintAppDetails renders one application's inventory record.
func PrintAppDetails(application *app.Application) {
	fmt.Printf("App Details for %s:\n", application.Name)
	fmt.Printf("Prod Cluster      : %s\n", application.ProdCluster)
	fmt.Printf("DR Cluster        : %s\n", application.DRCluster)
	if application.Details != "" {
		fmt.Printf("Details           : %s\n", application.Details)
	}

	for _, volume := range application.Volumes {
		fmt.Printf("\nVolume Name       : %s\n", volume.Name)
		fmt.Printf("  Source Path     : %s:%s\n", application.ProdVserver, volume.Name)
		fmt.Printf("  Destination Path: %s:%s\n", application.DRVserver, volume.Name)
		for _, qtree := range volume.Qtrees {
			fmt.Printf("    Qtree         : %s\n", qtree.Name)
			fmt.Printf("    CIFS Share    : %s\n", qtree.ShareName)
		}
		if volume.ShareName != "" {
			fmt.Printf("  CIFS Share      : %s\n", volume.ShareName)
		}
	}
}

// PrintPlan renders every command an action would issue, step by step.
func PrintPlan(plan *action.Plan) {
	fmt.Printf("\nThe following steps will be performed for %s on %s:\n", plan.Action, plan.App)
	for i, step := range plan.Steps {
		fmt.Printf("\nStep %d: %s\n", i+1, step.Name)
		for _, command := range step.Commands {
			fmt.Printf("  %s: %s\n", utils.ShortClusterName(command.Cluster), command.Text)
		}
		for _, note := range step.Notes {
			fmt.Printf("  note: %s\n", note)
		}
	}
	fmt.Println()
}

// PrintBatchResult renders the per-volume outcome of an applied action.
func PrintBatchResult(batch *action.BatchResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Volume", "Outcome", "Commands", "Detail"})

	for _, result := range batch.Results {
		outcome := "ok"
		detail := ""
		switch {
		case result.Err != nil:
			outcome = "failed"
			detail = result.Err.Error()
		case result.Skipped != "":
			outcome = "skipped"
			detail = result.Skipped
		}
		table.Append([]string{result.Volume, outcome,
			fmt.Sprintf("%d", len(result.Commands)), detail})
	}

	fmt.Printf("\nResult of %s on %s:\n", batch.Action, batch.App)
	table.Render()

	if err := batch.Err(); err != nil {
		fmt.Printf("%v\n", err)
	}
}

// PrintHistory renders audit records, oldest first.
func PrintHistory(records []audit.Record) {
	if len(records) == 0 {
		fmt.Println("No recorded actions.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Timestamp", "Action", "App", "User", "Outcome"})
	for _, record := range records {
		table.Append([]string{
			record.Timestamp.Format(constants.AuditTimestampFormat),
			string(record.Action),
			record.App,
			record.Operator,
			record.Outcome,
		})
	}
	table.Render()
}
