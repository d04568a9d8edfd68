package messages

// Package manager and repository messages.
const (
	AptCommandFailedFmt       = "%s failed."
	AptCommandFailedDetailFmt = "%s\nFailed running command '%s' [exit(%d)]. Message: %s"
	AptCommandNotStartedFmt   = "%s\nFailed running command '%s': %v"
	AptInstalledQueryFmt      = "query installed packages: %w"
	AptUpdateFailed           = "APT update failed."
	AptPolicyFailed           = "Failed to run apt-cache policy."
	AptPackagesRequired       = "no packages given"

	RepoWriteSourceFmt = "write apt source %s: %w"
	RepoWritePinFmt    = "write apt preferences %s: %w"
	RepoCopyKeyFmt     = "install keyring %s: %w"
	RepoRemoveFileFmt  = "remove %s: %w"
	RepoAptURLRequired = "apt url is required"
	RepoSuitesRequired = "at least one suite is required"
	RepoNameRequired   = "repository name is required"
	RepoKeyRequired    = "repository keyring is required"
	RepoChangedFileFmt = "apt configuration changed: %s"
)
