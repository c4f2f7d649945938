package options

import (
	"github.com/spf13/cobra"

	"github.com/Heprex/automation/cli/config"
)

// FlagsOptions chains flag registrations onto one command.
type FlagsOptions struct {
	cmd *cobra.Command
}

// NewFlagsOptions Construct a FlagsOptions instance that requires a cmd as a parameter
func NewFlagsOptions(cmd *cobra.Command) *FlagsOptions {
	return &FlagsOptions{cmd: cmd}
}

// WithParent This function will add a parent command
func (b *FlagsOptions) WithParent(parentCmd *cobra.Command) {
	parentCmd.AddCommand(b.cmd)
}

// WithLogDir This function will add a log-dir flag
func (b *FlagsOptions) WithLogDir() *FlagsOptions {
	b.cmd.PersistentFlags().StringVar(&config.LogDir, "log-dir",
		config.DefaultLogDir, "directory of the log file")
	return b
}

// WithInventory This function will add an inventory file flag
func (b *FlagsOptions) WithInventory() *FlagsOptions {
	b.cmd.PersistentFlags().StringVarP(&config.InventoryFile, "inventory", "i",
		config.DefaultInventoryFile, "path to the application inventory yaml")
	return b
}

// WithAuditFile This function will add an audit-file flag
func (b *FlagsOptions) WithAuditFile() *FlagsOptions {
	b.cmd.PersistentFlags().StringVar(&config.AuditFile, "audit-file",
		config.DefaultAuditFile, "path to the shared action history file")
	return b
}

// WithApp This function will add an app flag
// If required is true, app flag must be set
func (b *FlagsOptions) WithApp(required bool) *FlagsOptions {
	b.cmd.PersistentFlags().StringVarP(&config.AppName, "app", "a", "", "application name")
	if required {
		// Because only 'no such flag' error will be returned, and we have ensured
		// that the incoming parameters are correct, so no err will be handled.
		_ = b.cmd.MarkPersistentFlagRequired("app")
	}
	return b
}

// WithVolumes This function will add a repeatable volume flag
func (b *FlagsOptions) WithVolumes() *FlagsOptions {
	b.cmd.PersistentFlags().StringArrayVar(&config.Volumes, "volume", nil,
		"limit the action to the named volume, repeatable")
	return b
}

// WithYes This function will add a yes flag skipping confirmation
func (b *FlagsOptions) WithYes() *FlagsOptions {
	b.cmd.PersistentFlags().BoolVarP(&config.Yes, "yes", "y", false,
		"do not ask for confirmation")
	return b
}

// WithDryRun This function will add a dry-run flag
func (b *FlagsOptions) WithDryRun() *FlagsOptions {
	b.cmd.PersistentFlags().BoolVar(&config.DryRun, "dry-run", false,
		"print the commands that would run without executing them")
	return b
}

// WithPostTVTVerified This function will add the post-tvt-verified flag
func (b *FlagsOptions) WithPostTVTVerified() *FlagsOptions {
	b.cmd.PersistentFlags().BoolVar(&config.PostTVTVerified, "post-tvt-verified", false,
		"assert that test verification completed on the DR copy")
	return b
}

// WithAllowPartial This function will add the allow-partial flag
func (b *FlagsOptions) WithAllowPartial() *FlagsOptions {
	b.cmd.PersistentFlags().BoolVar(&config.AllowPartial, "allow-partial", false,
		"proceed even when some status queries failed")
	return b
}

// WithUsername This function will add a username flag
func (b *FlagsOptions) WithUsername() *FlagsOptions {
	b.cmd.PersistentFlags().StringVarP(&config.Username, "username", "u", "",
		"cluster login name, defaults to the local account")
	return b
}

// WithMaxWorkers This function will add a max-workers flag
func (b *FlagsOptions) WithMaxWorkers() *FlagsOptions {
	b.cmd.PersistentFlags().IntVar(&config.MaxWorkers, "max-workers",
		config.DefaultMaxWorkers, "bound on concurrent status queries")
	return b
}
