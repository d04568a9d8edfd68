package messages

// System messages for host probes and internal operations.
const (
	SystemReadOSReleaseFmt  = "read %s: %w"
	SystemParseOSReleaseFmt = "parse %s: %w"
	SystemKernelVersionFmt  = "kernel version: %w"
	SystemUnameFmt          = "uname: %w"

	CloudIDCommandFailedFmt = "cloud-id failed: %w"
	CloudIMDSFailedFmt      = "ec2 instance metadata: %w"

	LockOpenFmt    = "open lock file %s: %w"
	LockAcquireFmt = "lock %s: %w"
	LockTimeoutFmt = "timed out after %s waiting for another ua operation to finish"

	PromptRequiresTerminal = "confirmation prompts require an interactive terminal; re-run with --assume-yes to proceed without prompting"
	PromptCancelled        = "prompt cancelled"

	LogOpenFileFmt = "open log file %s: %w"
)
