package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Heprex/automation/cli/cmd/options"
	"github.com/Heprex/automation/cli/config"
	"github.com/Heprex/automation/cli/helper"
	"github.com/Heprex/automation/pkg/app"
	"github.com/Heprex/automation/pkg/audit"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get replication information of configured applications",
}

func registerGetCmd() {
	options.NewFlagsOptions(getCmd).WithParent(RootCmd)
}

var (
	getStatusExample = helper.Examples(`
		# Show replication status of every configured application
		nasdr get status

		# Show replication status of one application
		nasdr get status -a APP1`)
)

var getStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show live replication status per application and volume",
	Example: getStatusExample,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGetStatus()
	},
}

func registerGetStatusCmd() {
	options.NewFlagsOptions(getStatusCmd).
		WithApp(false).
		WithUsername().
		WithMaxWorkers().
		WithParent(getCmd)
}

func runGetStatus() error {
	inventory, err := loadInventory()
	if err != nil {
		return helper.LogErrorf("load inventory failed: %v", err)
	}

	applications := []*app.Application(inventory)
	if config.AppName != "" {
		application, err := findApplication(inventory)
		if err != nil {
			return helper.PrintlnError(err)
		}
		applications = []*app.Application{application}
	}

	pool, err := newPool()
	if err != nil {
		return err
	}
	defer pool.CloseAll()

	statuses := collectStatuses(sessionContext(), pool, applications)

	recorder := newRecorder()
	helper.PrintStatusTables(statuses, func(appName string) *audit.Record {
		record, err := recorder.Last(appName)
		if err != nil {
			return nil
		}
		return record
	})
	return nil
}
