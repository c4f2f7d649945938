package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Heprex/automation/cli/cmd/options"
	"github.com/Heprex/automation/cli/config"
	"github.com/Heprex/automation/cli/helper"
	"github.com/Heprex/automation/pkg/action"
	"github.com/Heprex/automation/pkg/constants"
	"github.com/Heprex/automation/pkg/mirror"
	"github.com/Heprex/automation/utils/log"
)

var (
	execExample = helper.Examples(`
		# Preview and run a failover of APP1 to the DR site
		nasdr exec recovery -a APP1

		# Quiesce a single volume without the interactive confirmation
		nasdr exec quiesce -a APP1 --volume vol_app1_data --yes

		# Print the commands a resync would issue, without running them
		nasdr exec resync -a APP1 --dry-run

		# Fail back after test verification completed on the DR copy
		nasdr exec restoration-extended -a APP1 --post-tvt-verified`)
)

var execCmd = &cobra.Command{
	Use:       "exec ACTION",
	Short:     "Preview and apply a DR action on an application",
	Example:   execExample,
	Args:      cobra.ExactArgs(1),
	ValidArgs: actionNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExec(constants.Action(args[0]))
	},
}

func registerExecCmd() {
	options.NewFlagsOptions(execCmd).
		WithApp(true).
		WithVolumes().
		WithYes().
		WithDryRun().
		WithPostTVTVerified().
		WithAllowPartial().
		WithUsername().
		WithMaxWorkers().
		WithParent(RootCmd)
}

func actionNames() []string {
	names := make([]string, 0, len(constants.Actions))
	for _, act := range constants.Actions {
		names = append(names, string(act))
	}
	return names
}

func runExec(act constants.Action) error {
	if !act.Valid() {
		return fmt.Errorf("unknown action %q, supported actions: %s",
			act, strings.Join(actionNames(), ", "))
	}

	inventory, err := loadInventory()
	if err != nil {
		return helper.LogErrorf("load inventory failed: %v", err)
	}
	application, err := findApplication(inventory)
	if err != nil {
		return helper.PrintlnError(err)
	}

	pool, err := newPool()
	if err != nil {
		return err
	}
	defer pool.CloseAll()

	ctx := sessionContext()
	aggregator := mirror.NewAggregator(pool, config.MaxWorkers)
	status := aggregator.Collect(ctx, application, config.Volumes)

	machine := action.NewMachine(pool, config.MaxWorkers)
	opts := action.Options{
		Volumes:         config.Volumes,
		PostTVTVerified: config.PostTVTVerified,
		AllowPartial:    config.AllowPartial,
	}

	plan, err := machine.Plan(ctx, application, status, act, opts)
	if err != nil {
		return helper.PrintlnError(err)
	}
	helper.PrintPlan(plan)

	if config.DryRun {
		return nil
	}

	if !config.Yes {
		confirmed, err := helper.Confirm(
			fmt.Sprintf("Do you want to proceed with %s on %s", act, application.Name))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Printf("%s aborted.\n", act)
			return nil
		}
	}

	batch, err := machine.Apply(ctx, application, status, act, opts)
	if err != nil {
		return helper.PrintlnError(err)
	}
	helper.PrintBatchResult(batch)

	recordOutcome(act, application.Name, batch)
	return nil
}

// recordOutcome appends the audit line for an executed batch. A partial
// outcome is recorded only after the operator confirms proceeding with it.
// The remote actions are already done either way, so an audit failure is
// surfaced as a warning and never rolls anything back.
func recordOutcome(act constants.Action, appName string, batch *action.BatchResult) {
	var issued bool
	for _, result := range batch.Results {
		if len(result.Commands) != 0 {
			issued = true
			break
		}
	}
	if !issued {
		return
	}

	outcome := "success"
	if batch.Err() != nil {
		outcome = "failure"
		if batch.Partial() {
			outcome = "partial-failure"
		}
	}

	if batch.Partial() && !config.Yes {
		confirmed, err := helper.Confirm(fmt.Sprintf(
			"Some volumes of %s failed. Proceed with the partial outcome and record it", appName))
		if err != nil || !confirmed {
			fmt.Println("Partial outcome not recorded.")
			return
		}
	}

	if err := newRecorder().Record(act, appName, operator(), outcome); err != nil {
		log.Warningf("audit append failed: %v", err)
		fmt.Printf("Warning: %v\n", err)
	}
}
