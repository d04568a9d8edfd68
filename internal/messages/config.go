package messages

// Config messages for configuration loading and validation.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt      = "missing config file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %v"
	ConfigValidationGuidance  = "(see /etc/ubuntu-advantage/uaclient.toml for the supported keys)"

	ConfigLogLevelInvalidFmt         = "%s: log_level must be one of debug, info, warn, error"
	ConfigDataDirRequiredFmt         = "%s: data_dir must not be empty"
	ConfigEntitlementAptURLFmt       = "%s: entitlements.%s.apt_url must be an http(s) URL"
	ConfigEntitlementPackageEmptyFmt = "%s: entitlements.%s.packages[%d] must not be empty"
	ConfigFeatureUnknownFmt          = "unknown feature flag %q"
	ConfigFeatureEnvInvalidFmt       = "ignoring %s=%q: not a boolean"
)
