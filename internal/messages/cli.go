package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "ua"
	// RootShort is the short description for the root command.
	RootShort          = "Manage Ubuntu Advantage FIPS entitlements on this machine"
	RootVersionFlag    = "Print version and exit"
	RootFlagAssumeYes  = "Do not prompt for confirmation before performing the operation"
	RootFlagConfig     = "Path to the client configuration file"
	RootRequiresRoot   = "this command must be run as root (try using sudo)"
	RootUnknownNameFmt = "cannot find service %q; available services: %s"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// EnableUse is the enable command usage.
	EnableUse   = "enable <service>"
	EnableShort = "Enable a FIPS service on this machine"

	EnableBlockedFmt      = "%s\n"
	EnableWarningFmt      = "Warning: %s\n"
	EnableStartingFmt     = "Enabling %s\n"
	EnableSucceededFmt    = "%s enabled\n"
	EnableRebootNoticeFmt = "A reboot is required to complete install: %s\n"

	// DisableUse is the disable command usage.
	DisableUse   = "disable <service>"
	DisableShort = "Disable a FIPS service on this machine"

	DisableStartingFmt  = "Disabling %s\n"
	DisableSucceededFmt = "%s disabled\n"

	// StatusUse is the status command usage.
	StatusUse   = "status"
	StatusShort = "Show the FIPS services and their status on this machine"

	StatusHeaderService     = "SERVICE"
	StatusHeaderStatus      = "STATUS"
	StatusHeaderDescription = "DESCRIPTION"
	StatusNoticeHeader      = "NOTICES"
	StatusNoticeRebootFmt   = "%s: %s (running kernel %s)"
	StatusPlatformFmt       = "Ubuntu %s (%s) %s, kernel %s"
	StatusFeaturesHeader    = "FEATURES"
	StatusFeatureFmt        = "%s: %s"
	StatusUnknownValue      = "unknown"
)
