package messages

// Entitlement messages for the FIPS services.
const (
	FIPSTitle              = "FIPS"
	FIPSDescription        = "NIST-certified FIPS modules"
	FIPSUpdatesTitle       = "FIPS Updates"
	FIPSUpdatesDescription = "Uncertified security updates to FIPS modules"
	FIPSHelpDocURL         = "https://ubuntu.com/security/certifications#fips"

	EntitlementBlockedContainerFmt = "Cannot install %s on a container"
	EntitlementBlockedCloudFmt     = "Ubuntu Xenial does not provide %s optimized kernel for %s"
	EntitlementBlockedSiblingFmt   = "Cannot enable %s when %s is enabled"
	EntitlementEnableFailedFmt     = "Could not enable %s."
	EntitlementDisableFailedFmt    = "Could not disable %s."
	EntitlementUserDeclined        = "operation cancelled by user"
	EntitlementUnknownFmt          = "unknown entitlement %q"
	EntitlementNotEnabledFmt       = "%s is not currently enabled"

	EntitlementIncompatiblePromptFmt    = "%s cannot be enabled with %s.\nDisable %s and proceed to enable %s? (y/N)"
	EntitlementIncompatibleDisablingFmt = "Disabling incompatible service: %s"

	EntitlementStatusEnabled    = "enabled"
	EntitlementStatusDisabled   = "disabled"
	EntitlementStatusPending    = "reboot required"
	EntitlementRepoEnabledFmt   = "%s is active"
	EntitlementRepoNotConfigFmt = "%s is not configured"
	EntitlementRepoNotPinnedFmt = "%s apt repository is not visible to apt"
	EntitlementRebootRequired   = "Reboot to FIPS kernel required"

	PromptFIPSPreEnable = `This will install the FIPS packages. The Livepatch service will be unavailable.
Warning: This action can take some time and cannot be undone.
Are you sure? (y/N)`
	PromptFIPSUpdatesPreEnable = `This will install the FIPS packages including security updates.
Warning: This action can take some time and cannot be undone.
Are you sure? (y/N)`
	PromptFIPSPreDisable = `This will disable access to certified FIPS packages.
Are you sure? (y/N)`

	LivepatchTitle = "Livepatch"
)
