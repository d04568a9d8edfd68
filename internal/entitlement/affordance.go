package entitlement

import (
	"context"
	"fmt"

	"github.com/canonical/ubuntu-advantage-client/internal/cloud"
	"github.com/canonical/ubuntu-advantage-client/internal/config"
	"github.com/canonical/ubuntu-advantage-client/internal/messages"
	"github.com/canonical/ubuntu-advantage-client/internal/system"
)

// Severity selects whether a true affordance blocks activation or only warns.
type Severity int

const (
	// SeverityBlock aborts activation.
	SeverityBlock Severity = iota
	// SeverityWarn records a warning and continues.
	SeverityWarn
)

// Affordance is a precondition gating activation. Predicate must only read host state.
type Affordance struct {
	Reason    string
	Predicate func() bool
	Severity  Severity
	// Explain, when set, renders Reason after Predicate has returned true.
	Explain func() string
}

func (a Affordance) reason() string {
	if a.Explain != nil {
		return a.Explain()
	}
	return a.Reason
}

// GateResult is the outcome of evaluating an affordance list.
type GateResult struct {
	Allowed  bool
	Reason   string
	Warnings []string
}

// Evaluate checks affordances in order, stopping at the first blocking one
// whose predicate holds.
func Evaluate(affordances []Affordance) GateResult {
	var warnings []string
	for _, a := range affordances {
		if a.Predicate == nil || !a.Predicate() {
			continue
		}
		if a.Severity == SeverityBlock {
			return GateResult{Allowed: false, Reason: a.reason(), Warnings: warnings}
		}
		warnings = append(warnings, a.reason())
	}
	return GateResult{Allowed: true, Warnings: warnings}
}

// Options are the feature switches that alter gating and package resolution.
type Options struct {
	AllowXenialFIPSOnCloud         bool
	DisableFIPSMetapackageOverride bool
}

// FlagReader reads boolean feature flags by dotted path.
type FlagReader interface {
	FeatureEnabled(path string) bool
}

// OptionsFromFlags reads Options from flags. A nil reader yields the zero Options.
func OptionsFromFlags(flags FlagReader) Options {
	if flags == nil {
		return Options{}
	}
	return Options{
		AllowXenialFIPSOnCloud:         flags.FeatureEnabled(config.FeatureAllowXenialFIPSOnCloud),
		DisableFIPSMetapackageOverride: flags.FeatureEnabled(config.FeatureDisableFIPSMetapackageOverride),
	}
}

// Platform answers questions about the host.
type Platform interface {
	IsContainer(ctx context.Context) bool
	Series() string
	Kernel(ctx context.Context) string
}

// CloudLookup identifies the cloud provider of the host.
type CloudLookup interface {
	Lookup(ctx context.Context) cloud.Provider
}

// Affordances builds the ordered gate for def. isOtherEnabled reports whether
// another entitlement is enabled; it is only called when its rule is reached.
func Affordances(ctx context.Context, def Definition, platform Platform, clouds CloudLookup, opts Options, isOtherEnabled func(name string) bool) []Affordance {
	var provider *cloud.Provider
	lookupCloud := func() cloud.Provider {
		if provider == nil {
			p := clouds.Lookup(ctx)
			provider = &p
		}
		return *provider
	}

	affordances := []Affordance{
		{
			Reason:    fmt.Sprintf(messages.EntitlementBlockedContainerFmt, def.Title),
			Predicate: func() bool { return platform.IsContainer(ctx) },
			Severity:  SeverityBlock,
		},
		{
			Predicate: func() bool {
				return blockedOnXenialCloud(platform.Series(), lookupCloud, opts)
			},
			Explain: func() string {
				return fmt.Sprintf(messages.EntitlementBlockedCloudFmt, cloud.Title(lookupCloud()), def.Title)
			},
			Severity: SeverityBlock,
		},
	}
	for _, other := range def.ExcludedBy {
		affordances = append(affordances, Affordance{
			Reason:    fmt.Sprintf(messages.EntitlementBlockedSiblingFmt, def.Title, serviceTitle(other)),
			Predicate: func() bool { return isOtherEnabled != nil && isOtherEnabled(other) },
			Severity:  SeverityBlock,
		})
	}
	return affordances
}

func blockedOnXenialCloud(series string, lookupCloud func() cloud.Provider, opts Options) bool {
	if opts.AllowXenialFIPSOnCloud || series != system.SeriesXenial {
		return false
	}
	switch lookupCloud() {
	case cloud.ProviderAzure, cloud.ProviderGCE:
		return true
	}
	return false
}
