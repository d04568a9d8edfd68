package entitlement

import (
	"strings"

	"github.com/canonical/ubuntu-advantage-client/internal/cloud"
	"github.com/canonical/ubuntu-advantage-client/internal/system"
)

// ResolvePackages computes the ordered package set to install for def.
//
// On bionic Azure and AWS hosts the placeholder metapackage is replaced with
// the cloud-specific one unless opts disables the override. Each conditional
// group (root, root-hmac) is appended when its root is installed.
func ResolvePackages(def Definition, base []string, installed map[string]struct{}, series string, provider cloud.Provider, opts Options) []string {
	packages := replaceCloudMetapackage(base, series, provider, opts)
	for _, group := range conditionalGroups(def.ConditionalPackages) {
		if _, ok := installed[group.root]; ok {
			packages = append(packages, group.members...)
		}
	}
	return dedupe(packages)
}

func replaceCloudMetapackage(base []string, series string, provider cloud.Provider, opts Options) []string {
	out := append([]string(nil), base...)
	if opts.DisableFIPSMetapackageOverride || series != system.SeriesBionic {
		return out
	}
	if provider != cloud.ProviderAzure && provider != cloud.ProviderAWS {
		return out
	}
	cloudMetapackage := "ubuntu-" + string(provider) + "-fips"
	for i, pkg := range out {
		if pkg == MetapackagePlaceholder {
			out[i] = cloudMetapackage
		}
	}
	return out
}

type packageGroup struct {
	root    string
	members []string
}

// conditionalGroups groups adjacent packages sharing a root once "-hmac" is removed.
func conditionalGroups(pkgs []string) []packageGroup {
	var groups []packageGroup
	for _, pkg := range pkgs {
		root := strings.ReplaceAll(pkg, "-hmac", "")
		if n := len(groups); n > 0 && groups[n-1].root == root {
			groups[n-1].members = append(groups[n-1].members, pkg)
			continue
		}
		groups = append(groups, packageGroup{root: root, members: []string{pkg}})
	}
	return groups
}

func dedupe(pkgs []string) []string {
	seen := make(map[string]struct{}, len(pkgs))
	out := pkgs[:0]
	for _, pkg := range pkgs {
		if _, ok := seen[pkg]; ok {
			continue
		}
		seen[pkg] = struct{}{}
		out = append(out, pkg)
	}
	return out
}

// metapackages returns the resolved packages that are not conditional companions.
func metapackages(def Definition, resolved []string) []string {
	conditional := make(map[string]struct{}, len(def.ConditionalPackages))
	for _, pkg := range def.ConditionalPackages {
		conditional[pkg] = struct{}{}
	}
	var out []string
	for _, pkg := range resolved {
		if _, ok := conditional[pkg]; !ok {
			out = append(out, pkg)
		}
	}
	return out
}
