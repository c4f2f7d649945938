package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Heprex/automation/cli/cmd/options"
	"github.com/Heprex/automation/cli/config"
	"github.com/Heprex/automation/cli/helper"
)

var (
	historyExample = helper.Examples(`
		# Show every recorded action
		nasdr history

		# Show the recorded actions of one application
		nasdr history -a APP1`)
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show recorded DR actions from the shared audit log",
	Example: historyExample,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory()
	},
}

func registerHistoryCmd() {
	options.NewFlagsOptions(historyCmd).
		WithApp(false).
		WithParent(RootCmd)
}

func runHistory() error {
	records, err := newRecorder().List(config.AppName)
	if err != nil {
		return helper.PrintlnError(err)
	}

	helper.PrintHistory(records)
	return nil
}
