package config

import "path/filepath"

// Config is the client configuration read from uaclient.toml.
type Config struct {
	DataDir  string `toml:"data_dir"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	LockFile string `toml:"lock_file"`

	Features     FeaturesConfig               `toml:"features"`
	Entitlements map[string]EntitlementConfig `toml:"entitlements"`
}

// FeaturesConfig holds the boolean feature switches under [features].
// Nil means unset, which is treated as false.
type FeaturesConfig struct {
	AllowXenialFIPSOnCloud         *bool `toml:"allow_xenial_fips_on_cloud"`
	DisableFIPSMetapackageOverride *bool `toml:"disable_fips_metapackage_override"`
}

// EntitlementConfig stands in for the contract directives of a single service.
// Empty fields fall back to the service defaults.
type EntitlementConfig struct {
	AptURL   string   `toml:"apt_url"`
	Suites   []string `toml:"suites"`
	Packages []string `toml:"packages"`
	KeyDir   string   `toml:"key_dir"`
}

// Default values used when the config file omits a key.
const (
	DefaultDataDir  = "/var/lib/ubuntu-advantage"
	DefaultLogLevel = "info"
	DefaultLogFile  = "/var/log/ubuntu-advantage.log"

	// lockFileName is the client lock inside the data directory.
	lockFileName = "lock"
)

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills empty top-level keys with their defaults. The lock file
// defaults to a file inside the data directory.
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.LockFile == "" {
		c.LockFile = filepath.Join(c.DataDir, lockFileName)
	}
}

// Entitlement returns the configured directives for the named service.
// The zero value is returned when the service has no [entitlements.<name>] table.
func (c *Config) Entitlement(name string) EntitlementConfig {
	if c == nil || c.Entitlements == nil {
		return EntitlementConfig{}
	}
	ent := c.Entitlements[name]
	ent.Suites = append([]string(nil), ent.Suites...)
	ent.Packages = append([]string(nil), ent.Packages...)
	return ent
}
