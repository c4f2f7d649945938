package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Heprex/automation/cli/cmd/options"
	"github.com/Heprex/automation/cli/helper"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configured inventory records",
}

func registerShowCmd() {
	options.NewFlagsOptions(showCmd).WithParent(RootCmd)
}

var (
	showAppExample = helper.Examples(`
		# Show the inventory record of one application
		nasdr show app -a APP1`)
)

var showAppCmd = &cobra.Command{
	Use:     "app",
	Short:   "Show clusters, vservers, volumes and shares of an application",
	Example: showAppExample,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowApp()
	},
}

func registerShowAppCmd() {
	options.NewFlagsOptions(showAppCmd).
		WithApp(true).
		WithParent(showCmd)
}

func runShowApp() error {
	inventory, err := loadInventory()
	if err != nil {
		return helper.LogErrorf("load inventory failed: %v", err)
	}

	application, err := findApplication(inventory)
	if err != nil {
		return helper.PrintlnError(err)
	}

	helper.PrintAppDetails(application)
	return nil
}
