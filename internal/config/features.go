package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

// Feature flag keys, addressed by their dotted config path.
const (
	FeatureAllowXenialFIPSOnCloud         = "features.allow_xenial_fips_on_cloud"
	FeatureDisableFIPSMetapackageOverride = "features.disable_fips_metapackage_override"
)

// featureEnvPrefix namespaces environment overrides for [features] keys,
// e.g. UA_FEATURES_ALLOW_XENIAL_FIPS_ON_CLOUD=true.
const featureEnvPrefix = "UA_FEATURES_"

// FeatureDef describes a single boolean feature switch.
type FeatureDef struct {
	Key         string
	Description string
	field       func(*FeaturesConfig) **bool
}

// EnvVar returns the environment variable that overrides the feature.
func (f FeatureDef) EnvVar() string {
	name := strings.TrimPrefix(f.Key, "features.")
	return featureEnvPrefix + strings.ToUpper(name)
}

// features is the canonical registry of supported feature switches.
var features = []FeatureDef{
	{
		Key:         FeatureAllowXenialFIPSOnCloud,
		Description: "Allow FIPS on Xenial Azure and GCP instances",
		field:       func(f *FeaturesConfig) **bool { return &f.AllowXenialFIPSOnCloud },
	},
	{
		Key:         FeatureDisableFIPSMetapackageOverride,
		Description: "Keep ubuntu-fips instead of the cloud-specific FIPS metapackage",
		field:       func(f *FeaturesConfig) **bool { return &f.DisableFIPSMetapackageOverride },
	},
}

// LookupFeature returns the definition for the given feature key.
// Returns false when the key is not in the registry.
func LookupFeature(key string) (FeatureDef, bool) {
	for _, f := range features {
		if f.Key == key {
			return f, true
		}
	}
	return FeatureDef{}, false
}

// Features returns a copy of all registered feature definitions in registry order.
func Features() []FeatureDef {
	out := make([]FeatureDef, len(features))
	copy(out, features)
	return out
}

// FeatureEnabled reports whether the boolean feature at path is set to true.
// Unknown paths and unset values are false.
func (c *Config) FeatureEnabled(path string) bool {
	if c == nil {
		return false
	}
	def, ok := LookupFeature(path)
	if !ok {
		return false
	}
	value := *def.field(&c.Features)
	return value != nil && *value
}

// SetFeature sets the feature at path. Returns an error for unknown paths.
func (c *Config) SetFeature(path string, enabled bool) error {
	def, ok := LookupFeature(path)
	if !ok {
		return fmt.Errorf(messages.ConfigFeatureUnknownFmt, path)
	}
	*def.field(&c.Features) = &enabled
	return nil
}

// ApplyFeatureOverrides applies UA_FEATURES_* values from environ on top of
// the file configuration. Values that do not parse as booleans are skipped
// and reported in the returned warnings.
func (c *Config) ApplyFeatureOverrides(environ []string) []string {
	env := filterFeatureEnv(environ)
	var warnings []string
	for _, def := range features {
		raw, ok := env[def.EnvVar()]
		if !ok {
			continue
		}
		enabled, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(messages.ConfigFeatureEnvInvalidFmt, def.EnvVar(), raw))
			continue
		}
		if err := c.SetFeature(def.Key, enabled); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	return warnings
}

// filterFeatureEnv restricts environ to the UA_FEATURES_ namespace.
func filterFeatureEnv(environ []string) map[string]string {
	filtered := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, featureEnvPrefix) {
			continue
		}
		filtered[key] = value
	}
	return filtered
}
