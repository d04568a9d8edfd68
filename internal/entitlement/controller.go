package entitlement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/canonical/ubuntu-advantage-client/internal/config"
	"github.com/canonical/ubuntu-advantage-client/internal/messages"
	"github.com/canonical/ubuntu-advantage-client/internal/repo"
)

// State is a step of an enable or disable call.
type State string

// Controller states, in the order an enable call visits them.
const (
	StateStart            State = "start"
	StateAffordanceCheck  State = "affordance_check"
	StateBlocked          State = "blocked"
	StatePreActionPrompt  State = "pre_action_prompt"
	StateApplyRepoConfig  State = "apply_repo_config"
	StatePackageMutation  State = "package_mutation"
	StateStatusReport     State = "status_report"
	StateEnabledReported  State = "enabled_reported"
	StateDisabledReported State = "disabled_reported"
	StateFailed           State = "failed"
)

// PackageManager reads and mutates the host package database.
type PackageManager interface {
	InstalledPackages(ctx context.Context) (map[string]struct{}, error)
	ShowHolds(ctx context.Context) ([]string, error)
	Unhold(ctx context.Context, pkgs []string) error
	Install(ctx context.Context, pkgs []string, failureMsg string) error
	Remove(ctx context.Context, pkgs []string, failureMsg string) error
}

// Repository configures the APT repository backing an entitlement.
type Repository interface {
	Setup(ctx context.Context, spec repo.Spec) error
	Teardown(ctx context.Context, spec repo.Spec, keepKey bool) error
	Configured(spec repo.Spec) bool
	Enabled(ctx context.Context, spec repo.Spec) (bool, error)
}

// Confirmer asks the user to confirm an action.
type Confirmer interface {
	Confirm(text string, assumeYes bool) (bool, error)
}

// ServiceProbe inspects and disables services outside this package, such as Livepatch.
type ServiceProbe interface {
	Enabled(ctx context.Context, name string) bool
	Disable(ctx context.Context, name string) error
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Platform Platform
	Cloud    CloudLookup
	Packages PackageManager
	Repo     Repository
	Prompt   Confirmer
	Services ServiceProbe
	// Directives returns configured overrides for a service.
	Directives func(name string) config.EntitlementConfig
	Options    Options
	AssumeYes  bool
}

// Outcome is the result of an enable or disable call.
type Outcome struct {
	Status   ApplicationStatus
	Message  string
	Warnings []string
	// Trace records the states visited.
	Trace []State
}

// RebootRequired reports whether the outcome carries the reboot-required signal.
func (o Outcome) RebootRequired() bool {
	return TriState(o.Status, o.Message) == StatusPending
}

// Controller runs enable, disable and status for the FIPS services.
type Controller struct {
	deps Deps
}

// NewController returns a Controller using deps.
func NewController(deps Deps) *Controller {
	if deps.Directives == nil {
		deps.Directives = func(string) config.EntitlementConfig { return config.EntitlementConfig{} }
	}
	return &Controller{deps: deps}
}

// Enable gates, confirms and activates the named entitlement.
func (c *Controller) Enable(ctx context.Context, name string) (Outcome, error) {
	def, ok := Lookup(name)
	if !ok {
		return Outcome{}, &UnknownError{Name: name}
	}
	out := Outcome{}
	c.transition(&out, def, StateStart)

	c.transition(&out, def, StateAffordanceCheck)
	gate := Evaluate(c.Affordances(ctx, def))
	out.Warnings = gate.Warnings
	if !gate.Allowed {
		c.transition(&out, def, StateBlocked)
		return out, &BlockedError{Name: def.Name, Reason: gate.Reason}
	}

	c.transition(&out, def, StatePreActionPrompt)
	if err := c.handleIncompatibleServices(ctx, def); err != nil {
		c.transition(&out, def, StateFailed)
		return out, err
	}
	if err := c.confirm(def.PreEnablePrompt); err != nil {
		c.transition(&out, def, StateFailed)
		return out, err
	}

	c.transition(&out, def, StateApplyRepoConfig)
	if err := c.unholdPackages(ctx, def); err != nil {
		c.transition(&out, def, StateFailed)
		return out, err
	}
	if err := c.deps.Repo.Setup(ctx, c.RepoSpec(def)); err != nil {
		c.transition(&out, def, StateFailed)
		return out, err
	}

	c.transition(&out, def, StatePackageMutation)
	packages := c.Packages(ctx, def)
	log.Info().Str("entitlement", def.Name).Strs("packages", packages).Msg("installing packages")
	if err := c.deps.Packages.Install(ctx, packages, fmt.Sprintf(messages.EntitlementEnableFailedFmt, def.Title)); err != nil {
		c.transition(&out, def, StateFailed)
		return out, err
	}

	c.transition(&out, def, StateStatusReport)
	out.Status, out.Message = c.applicationStatus(ctx, def)
	c.transition(&out, def, StateEnabledReported)
	return out, nil
}

// Disable confirms, removes the metapackages and tears down the repository of
// the named entitlement.
func (c *Controller) Disable(ctx context.Context, name string) (Outcome, error) {
	def, ok := Lookup(name)
	if !ok {
		return Outcome{}, &UnknownError{Name: name}
	}
	out := Outcome{}
	c.transition(&out, def, StateStart)

	if status, _ := c.applicationStatus(ctx, def); status != StatusEnabled {
		c.transition(&out, def, StateBlocked)
		return out, &NotEnabledError{Title: def.Title}
	}

	c.transition(&out, def, StatePreActionPrompt)
	if err := c.confirm(def.PreDisablePrompt); err != nil {
		c.transition(&out, def, StateFailed)
		return out, err
	}

	c.transition(&out, def, StatePackageMutation)
	if err := c.RemovePackages(ctx, def); err != nil {
		c.transition(&out, def, StateFailed)
		return out, err
	}

	c.transition(&out, def, StateApplyRepoConfig)
	spec := c.RepoSpec(def)
	if err := c.deps.Repo.Teardown(ctx, spec, c.keyShared(def)); err != nil {
		c.transition(&out, def, StateFailed)
		return out, err
	}

	c.transition(&out, def, StateStatusReport)
	out.Status = StatusDisabled
	out.Message = fmt.Sprintf(messages.EntitlementRepoNotConfigFmt, def.Title)
	c.transition(&out, def, StateDisabledReported)
	return out, nil
}

// RemovePackages removes the installed metapackages introduced by def.
// Conditional companions are left in place; no command runs when nothing matches.
func (c *Controller) RemovePackages(ctx context.Context, def Definition) error {
	installed, err := c.deps.Packages.InstalledPackages(ctx)
	if err != nil {
		return err
	}
	resolved := ResolvePackages(def, c.basePackages(def), installed, c.deps.Platform.Series(), c.deps.Cloud.Lookup(ctx), c.deps.Options)

	var remove []string
	for _, pkg := range metapackages(def, resolved) {
		if _, ok := installed[pkg]; ok {
			remove = append(remove, pkg)
		}
	}
	if len(remove) == 0 {
		log.Debug().Str("entitlement", def.Name).Msg("no packages to remove")
		return nil
	}
	log.Info().Str("entitlement", def.Name).Strs("packages", remove).Msg("removing packages")
	return c.deps.Packages.Remove(ctx, remove, fmt.Sprintf(messages.EntitlementDisableFailedFmt, def.Title))
}

// Packages resolves the package set to install for def. A failed installed
// package probe is treated as an empty set.
func (c *Controller) Packages(ctx context.Context, def Definition) []string {
	installed, err := c.deps.Packages.InstalledPackages(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("installed package probe failed, skipping conditional packages")
		installed = nil
	}
	return ResolvePackages(def, c.basePackages(def), installed, c.deps.Platform.Series(), c.deps.Cloud.Lookup(ctx), c.deps.Options)
}

// ApplicationStatus reports the status and message of the named entitlement.
func (c *Controller) ApplicationStatus(ctx context.Context, name string) (ApplicationStatus, string, error) {
	def, ok := Lookup(name)
	if !ok {
		return StatusDisabled, "", &UnknownError{Name: name}
	}
	status, msg := c.applicationStatus(ctx, def)
	return status, msg, nil
}

// Affordances returns the gate for def wired to this controller's host lookups.
func (c *Controller) Affordances(ctx context.Context, def Definition) []Affordance {
	isOtherEnabled := func(name string) bool {
		other, ok := Lookup(name)
		if !ok {
			return false
		}
		status, _ := c.applicationStatus(ctx, other)
		return status == StatusEnabled
	}
	return Affordances(ctx, def, c.deps.Platform, c.deps.Cloud, c.deps.Options, isOtherEnabled)
}

// RepoSpec returns the repository configuration of def with directives applied.
func (c *Controller) RepoSpec(def Definition) repo.Spec {
	directives := c.deps.Directives(def.Name)
	spec := repo.Spec{
		Name:        def.Name,
		Origin:      def.Origin,
		AptURL:      def.DefaultAptURL,
		Suites:      def.DefaultSuites,
		Series:      c.deps.Platform.Series(),
		PinPriority: def.RepoPinPriority,
		KeyFile:     def.RepoKeyFile,
		KeyDir:      def.DefaultKeyDir,
	}
	if directives.AptURL != "" {
		spec.AptURL = directives.AptURL
	}
	if len(directives.Suites) > 0 {
		spec.Suites = directives.Suites
	}
	if directives.KeyDir != "" {
		spec.KeyDir = directives.KeyDir
	}
	return spec
}

func (c *Controller) applicationStatus(ctx context.Context, def Definition) (ApplicationStatus, string) {
	spec := c.RepoSpec(def)
	if !c.deps.Repo.Configured(spec) {
		return StatusDisabled, fmt.Sprintf(messages.EntitlementRepoNotConfigFmt, def.Title)
	}
	enabled, err := c.deps.Repo.Enabled(ctx, spec)
	if err != nil {
		log.Debug().Err(err).Str("entitlement", def.Name).Msg("apt policy probe failed")
	}
	if !enabled {
		return StatusDisabled, fmt.Sprintf(messages.EntitlementRepoNotPinnedFmt, def.Title)
	}
	return Classify(StatusEnabled, fmt.Sprintf(messages.EntitlementRepoEnabledFmt, def.Title), c.deps.Platform.Kernel(ctx))
}

func (c *Controller) basePackages(def Definition) []string {
	if pkgs := c.deps.Directives(def.Name).Packages; len(pkgs) > 0 {
		return pkgs
	}
	return append([]string(nil), def.DefaultPackages...)
}

func (c *Controller) handleIncompatibleServices(ctx context.Context, def Definition) error {
	if c.deps.Services == nil {
		return nil
	}
	for _, svc := range def.IncompatibleServices {
		if !c.deps.Services.Enabled(ctx, svc) {
			continue
		}
		title := serviceTitle(svc)
		prompt := fmt.Sprintf(messages.EntitlementIncompatiblePromptFmt, def.Title, title, title, def.Title)
		if err := c.confirm(prompt); err != nil {
			return err
		}
		log.Info().Msgf(messages.EntitlementIncompatibleDisablingFmt, title)
		if err := c.deps.Services.Disable(ctx, svc); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) unholdPackages(ctx context.Context, def Definition) error {
	if len(def.PackageHolds) == 0 {
		return nil
	}
	holds, err := c.deps.Packages.ShowHolds(ctx)
	if err != nil {
		return err
	}
	managed := make(map[string]struct{}, len(def.PackageHolds))
	for _, pkg := range def.PackageHolds {
		managed[pkg] = struct{}{}
	}
	var unholds []string
	for _, hold := range holds {
		if _, ok := managed[hold]; ok {
			unholds = append(unholds, hold)
		}
	}
	if len(unholds) == 0 {
		return nil
	}
	return c.deps.Packages.Unhold(ctx, unholds)
}

func (c *Controller) confirm(text string) error {
	if text == "" {
		return nil
	}
	if c.deps.Prompt == nil {
		if c.deps.AssumeYes {
			return nil
		}
		return ErrUserDeclined
	}
	ok, err := c.deps.Prompt.Confirm(text, c.deps.AssumeYes)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserDeclined
	}
	return nil
}

// keyShared reports whether another configured entitlement uses the keyring of def.
func (c *Controller) keyShared(def Definition) bool {
	for _, name := range Names() {
		if name == def.Name {
			continue
		}
		other, _ := Lookup(name)
		if other.RepoKeyFile == def.RepoKeyFile && c.deps.Repo.Configured(c.RepoSpec(other)) {
			return true
		}
	}
	return false
}

func (c *Controller) transition(out *Outcome, def Definition, state State) {
	out.Trace = append(out.Trace, state)
	log.Debug().Str("entitlement", def.Name).Str("state", string(state)).Msg("entitlement state")
}
