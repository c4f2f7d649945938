package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Heprex/automation/cli/config"
	"github.com/Heprex/automation/cli/helper"
	"github.com/Heprex/automation/pkg/app"
	"github.com/Heprex/automation/pkg/audit"
	"github.com/Heprex/automation/pkg/mirror"
	"github.com/Heprex/automation/pkg/ontap"
	"github.com/Heprex/automation/utils/log"
)

// sessionContext returns the request context of one command invocation,
// carrying a session id that appears on every log line it produces.
func sessionContext() context.Context {
	return log.SetSessionID(context.Background(),
		strconv.FormatInt(time.Now().UnixNano(), 36))
}

// loadInventory reads the application inventory named on the command line.
func loadInventory() (app.Inventory, error) {
	return app.Load(config.InventoryFile)
}

// findApplication resolves the -a flag against the inventory.
func findApplication(inventory app.Inventory) (*app.Application, error) {
	application := inventory.Find(config.AppName)
	if application == nil {
		return nil, fmt.Errorf("application %s not found in %s",
			config.AppName, config.InventoryFile)
	}
	return application, nil
}

// operator is the identity written to the audit log and used as the default
// cluster login.
func operator() string {
	if config.Username != "" {
		return config.Username
	}
	return helper.CurrentUser()
}

// newPool prompts for the cluster password and builds the shared connection
// pool of this session. The caller owns CloseAll.
func newPool() (*ontap.Pool, error) {
	login := operator()
	password, err := helper.ReadPassword(fmt.Sprintf("Password for %s: ", login))
	if err != nil {
		return nil, err
	}

	return ontap.NewPool(ontap.Credentials{Username: login, Password: password}), nil
}

// collectStatuses aggregates replication state for the given applications.
func collectStatuses(ctx context.Context, pool *ontap.Pool,
	applications []*app.Application) []*mirror.ApplicationStatus {
	aggregator := mirror.NewAggregator(pool, config.MaxWorkers)

	statuses := make([]*mirror.ApplicationStatus, 0, len(applications))
	for _, application := range applications {
		statuses = append(statuses, aggregator.Collect(ctx, application, nil))
	}
	return statuses
}

// newRecorder builds the audit recorder for the shared history file.
func newRecorder() *audit.Recorder {
	return audit.NewRecorder(config.AuditFile)
}
