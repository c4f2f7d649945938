// Package config defines the global configurations for nasdr
package config

const (
	// DefaultLogName default log file name
	DefaultLogName = "nasdr-log"

	// DefaultLogSize default log file size
	DefaultLogSize = "20M"

	// DefaultLogModule default log output module
	DefaultLogModule = "file"

	// DefaultLogLevel default log level
	DefaultLogLevel = "info"

	// DefaultLogMaxBackups default log file max backups
	DefaultLogMaxBackups = 9

	// DefaultLogDir default log dir
	DefaultLogDir = "/var/log/nasdr"

	// DefaultInventoryFile default application inventory file
	DefaultInventoryFile = "input.yaml"

	// DefaultAuditFile default shared audit log file
	DefaultAuditFile = "recent-actions.log"

	// DefaultMaxWorkers default bound on concurrent status queries
	DefaultMaxWorkers = 10
)

var (
	// LogDir the value of log-dir flag, set by options.WithLogDir().
	LogDir string

	// InventoryFile the value of inventory flag, set by options.WithInventory().
	InventoryFile string

	// AuditFile the value of audit-file flag, set by options.WithAuditFile().
	AuditFile string

	// AppName the value of app flag, set by options.WithApp().
	AppName string

	// Volumes the value of volume flags, set by options.WithVolumes().
	Volumes []string

	// Yes skips the interactive confirmation, set by options.WithYes().
	Yes bool

	// DryRun previews commands without executing, set by options.WithDryRun().
	DryRun bool

	// PostTVTVerified operator assertion for the extended restoration path,
	// set by options.WithPostTVTVerified().
	PostTVTVerified bool

	// AllowPartial permits acting on an incomplete status aggregate,
	// set by options.WithAllowPartial().
	AllowPartial bool

	// Username the cluster login, set by options.WithUsername(). Empty means
	// the local account name.
	Username string

	// MaxWorkers bound on concurrent status queries, set by options.WithMaxWorkers().
	MaxWorkers int
)
