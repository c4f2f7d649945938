// cmd defines commands of nasdr.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Heprex/automation/cli/cmd/options"
	"github.com/Heprex/automation/cli/config"
	"github.com/Heprex/automation/utils/log"
)

// RootCmd is a root command of nasdr.
var RootCmd = &cobra.Command{
	SilenceUsage:      true,
	Use:               "nasdr",
	Short:             "A CLI tool for NAS disaster-recovery orchestration",
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return startLogging()
	},
}

// Execute runs the root command
func Execute() error {
	registerRootCmd()
	registerGetCmd()
	registerGetStatusCmd()
	registerShowCmd()
	registerShowAppCmd()
	registerExecCmd()
	registerHistoryCmd()

	return RootCmd.Execute()
}

func registerRootCmd() {
	options.NewFlagsOptions(RootCmd).
		WithLogDir().
		WithInventory().
		WithAuditFile()
}

// startLogging used to start logging.
// Since the cli tool does not need to specify a log configuration, the default values are used here.
func startLogging() error {
	if config.LogDir == "" {
		config.LogDir = config.DefaultLogDir
	}
	logRequest := &log.Config{
		LogName:       config.DefaultLogName,
		LogFileSize:   config.DefaultLogSize,
		LoggingModule: config.DefaultLogModule,
		LogLevel:      config.DefaultLogLevel,
		LogFileDir:    config.LogDir,
		MaxBackups:    config.DefaultLogMaxBackups,
	}
	return log.InitLogging(logRequest)
}
