package entitlement

import (
	"context"
	"errors"

	"github.com/canonical/ubuntu-advantage-client/internal/cloud"
	"github.com/canonical/ubuntu-advantage-client/internal/config"
	"github.com/canonical/ubuntu-advantage-client/internal/repo"
)

type fakePlatform struct {
	container bool
	series    string
	kernel    string

	containerCalls int
	seriesCalls    int
}

func (p *fakePlatform) IsContainer(context.Context) bool {
	p.containerCalls++
	return p.container
}

func (p *fakePlatform) Series() string {
	p.seriesCalls++
	return p.series
}

func (p *fakePlatform) Kernel(context.Context) string {
	return p.kernel
}

type fakeCloud struct {
	provider cloud.Provider
	calls    int
}

func (c *fakeCloud) Lookup(context.Context) cloud.Provider {
	c.calls++
	return c.provider
}

type fakePackages struct {
	installed    map[string]struct{}
	installedErr error
	holds        []string
	holdsErr     error
	installErr   error
	removeErr    error

	unholds  [][]string
	installs [][]string
	removes  [][]string
	messages []string
}

func (p *fakePackages) InstalledPackages(context.Context) (map[string]struct{}, error) {
	if p.installedErr != nil {
		return nil, p.installedErr
	}
	out := make(map[string]struct{}, len(p.installed))
	for k := range p.installed {
		out[k] = struct{}{}
	}
	return out, nil
}

func (p *fakePackages) ShowHolds(context.Context) ([]string, error) {
	return append([]string(nil), p.holds...), p.holdsErr
}

func (p *fakePackages) Unhold(_ context.Context, pkgs []string) error {
	p.unholds = append(p.unholds, pkgs)
	released := make(map[string]struct{}, len(pkgs))
	for _, pkg := range pkgs {
		released[pkg] = struct{}{}
	}
	var remaining []string
	for _, hold := range p.holds {
		if _, ok := released[hold]; !ok {
			remaining = append(remaining, hold)
		}
	}
	p.holds = remaining
	return nil
}

func (p *fakePackages) Install(_ context.Context, pkgs []string, failureMsg string) error {
	p.installs = append(p.installs, pkgs)
	p.messages = append(p.messages, failureMsg)
	if p.installErr != nil {
		return p.installErr
	}
	if p.installed == nil {
		p.installed = map[string]struct{}{}
	}
	for _, pkg := range pkgs {
		p.installed[pkg] = struct{}{}
	}
	return nil
}

func (p *fakePackages) Remove(_ context.Context, pkgs []string, failureMsg string) error {
	p.removes = append(p.removes, pkgs)
	p.messages = append(p.messages, failureMsg)
	if p.removeErr != nil {
		return p.removeErr
	}
	for _, pkg := range pkgs {
		delete(p.installed, pkg)
	}
	return nil
}

type teardownCall struct {
	name    string
	keepKey bool
}

type fakeRepo struct {
	configured map[string]bool
	hidden     map[string]bool
	setupErr   error

	setups    []repo.Spec
	teardowns []teardownCall
}

func newFakeRepo(configured ...string) *fakeRepo {
	r := &fakeRepo{configured: map[string]bool{}, hidden: map[string]bool{}}
	for _, name := range configured {
		r.configured[name] = true
	}
	return r
}

func (r *fakeRepo) Setup(_ context.Context, spec repo.Spec) error {
	r.setups = append(r.setups, spec)
	if r.setupErr != nil {
		return r.setupErr
	}
	r.configured[spec.Name] = true
	return nil
}

func (r *fakeRepo) Teardown(_ context.Context, spec repo.Spec, keepKey bool) error {
	r.teardowns = append(r.teardowns, teardownCall{name: spec.Name, keepKey: keepKey})
	delete(r.configured, spec.Name)
	return nil
}

func (r *fakeRepo) Configured(spec repo.Spec) bool {
	return r.configured[spec.Name]
}

func (r *fakeRepo) Enabled(_ context.Context, spec repo.Spec) (bool, error) {
	return r.configured[spec.Name] && !r.hidden[spec.Name], nil
}

type fakePrompt struct {
	answer  bool
	err     error
	prompts []string
}

func (p *fakePrompt) Confirm(text string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	p.prompts = append(p.prompts, text)
	return p.answer, p.err
}

type fakeServices struct {
	enabled  map[string]bool
	disabled []string
}

func (s *fakeServices) Enabled(_ context.Context, name string) bool {
	return s.enabled[name]
}

func (s *fakeServices) Disable(_ context.Context, name string) error {
	s.disabled = append(s.disabled, name)
	s.enabled[name] = false
	return nil
}

var errCommandFailed = errors.New("apt-get install failed")

type harness struct {
	platform *fakePlatform
	cloud    *fakeCloud
	packages *fakePackages
	repo     *fakeRepo
	prompt   *fakePrompt
	services *fakeServices
	deps     Deps
}

func newHarness() *harness {
	h := &harness{
		platform: &fakePlatform{series: "focal", kernel: "5.4.0-1021-fips"},
		cloud:    &fakeCloud{},
		packages: &fakePackages{installed: map[string]struct{}{}},
		repo:     newFakeRepo(),
		prompt:   &fakePrompt{answer: true},
		services: &fakeServices{enabled: map[string]bool{}},
	}
	h.deps = Deps{
		Platform: h.platform,
		Cloud:    h.cloud,
		Packages: h.packages,
		Repo:     h.repo,
		Prompt:   h.prompt,
		Services: h.services,
	}
	return h
}

func (h *harness) controller() *Controller {
	return NewController(h.deps)
}

type flags map[string]bool

func (f flags) FeatureEnabled(path string) bool {
	return f[path]
}

func directives(m map[string]config.EntitlementConfig) func(string) config.EntitlementConfig {
	return func(name string) config.EntitlementConfig {
		return m[name]
	}
}
