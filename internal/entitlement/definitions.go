// Package entitlement decides whether the FIPS services may be enabled on this
// host and drives their activation and removal.
package entitlement

import (
	"sort"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

// Service names.
const (
	NameFIPS        = "fips"
	NameFIPSUpdates = "fips-updates"
	NameLivepatch   = "livepatch"
)

const (
	// MetapackagePlaceholder is the base package replaced by a cloud-specific metapackage.
	MetapackagePlaceholder = "ubuntu-fips"
	// FIPSKernelSuffix marks a running FIPS kernel.
	FIPSKernelSuffix = "-fips"

	fipsPinPriority = 1001
	fipsKeyFile     = "ubuntu-advantage-fips.gpg"
	defaultKeyDir   = "/usr/share/keyrings"
)

// Definition describes one entitlement. The controller consumes it as data.
type Definition struct {
	Name        string
	Title       string
	Description string
	HelpDocURL  string
	// Origin is the APT release origin the repository pin matches.
	Origin          string
	RepoPinPriority int
	RepoKeyFile     string
	// AptNoninteractive suppresses conffile and debconf prompts during installs.
	AptNoninteractive bool
	// IncompatibleServices must be disabled before this entitlement is enabled.
	IncompatibleServices []string
	// ExcludedBy lists entitlements whose enabled status blocks this one.
	ExcludedBy []string
	// ConditionalPackages pairs each root with its -hmac companion.
	ConditionalPackages []string
	// PackageHolds are unheld before enabling so the FIPS versions can be installed.
	PackageHolds     []string
	PreEnablePrompt  string
	PreDisablePrompt string

	DefaultAptURL   string
	DefaultSuites   []string
	DefaultPackages []string
	DefaultKeyDir   string
}

// fipsCommon returns the fields shared by the FIPS services.
func fipsCommon() Definition {
	return Definition{
		HelpDocURL:           messages.FIPSHelpDocURL,
		RepoPinPriority:      fipsPinPriority,
		RepoKeyFile:          fipsKeyFile,
		AptNoninteractive:    true,
		IncompatibleServices: []string{NameLivepatch},
		ConditionalPackages: []string{
			"openssh-client",
			"openssh-client-hmac",
			"openssh-server",
			"openssh-server-hmac",
			"strongswan",
			"strongswan-hmac",
		},
		PreDisablePrompt: messages.PromptFIPSPreDisable,
		DefaultPackages:  []string{MetapackagePlaceholder},
		DefaultKeyDir:    defaultKeyDir,
	}
}

// FIPS returns the definition of the certified FIPS service.
func FIPS() Definition {
	def := fipsCommon()
	def.Name = NameFIPS
	def.Title = messages.FIPSTitle
	def.Description = messages.FIPSDescription
	def.Origin = "UbuntuFIPS"
	def.ExcludedBy = []string{NameFIPSUpdates}
	def.PackageHolds = []string{
		"fips-initramfs",
		"libssl1.1",
		"libssl1.1-hmac",
		"libssl1.0.0",
		"libssl1.0.0-hmac",
		"linux-fips",
		"openssh-client",
		"openssh-client-hmac",
		"openssh-server",
		"openssh-server-hmac",
		"openssl",
		"strongswan",
		"strongswan-hmac",
	}
	def.PreEnablePrompt = messages.PromptFIPSPreEnable
	def.DefaultAptURL = "https://esm.ubuntu.com/fips"
	def.DefaultSuites = []string{"xenial", "bionic", "focal"}
	return def
}

// FIPSUpdates returns the definition of the FIPS Updates service.
func FIPSUpdates() Definition {
	def := fipsCommon()
	def.Name = NameFIPSUpdates
	def.Title = messages.FIPSUpdatesTitle
	def.Description = messages.FIPSUpdatesDescription
	def.Origin = "UbuntuFIPSUpdates"
	def.PreEnablePrompt = messages.PromptFIPSUpdatesPreEnable
	def.DefaultAptURL = "https://esm.ubuntu.com/fips-updates"
	def.DefaultSuites = []string{"xenial-updates", "bionic-updates", "focal-updates"}
	return def
}

var registry = map[string]func() Definition{
	NameFIPS:        FIPS,
	NameFIPSUpdates: FIPSUpdates,
}

// Lookup returns a fresh copy of the named definition.
func Lookup(name string) (Definition, bool) {
	build, ok := registry[name]
	if !ok {
		return Definition{}, false
	}
	return build(), true
}

// Names returns the known entitlement names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// serviceTitle returns the display title of a service name.
func serviceTitle(name string) string {
	if def, ok := Lookup(name); ok {
		return def.Title
	}
	if name == NameLivepatch {
		return messages.LivepatchTitle
	}
	return name
}
