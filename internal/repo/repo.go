// Package repo manages the APT source, keyring and pin files of a repository entitlement.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/rs/zerolog/log"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

// APT configuration locations, relative to the filesystem root.
const (
	SourcesDir     = "etc/apt/sources.list.d"
	PreferencesDir = "etc/apt/preferences.d"
	TrustedKeysDir = "etc/apt/trusted.gpg.d"
)

// Spec describes a repository to configure.
type Spec struct {
	// Name is the entitlement name; files are named ubuntu-<Name>.
	Name   string
	Origin string
	AptURL string
	// Suites lists candidate suites; only those for Series are written.
	Suites      []string
	Series      string
	PinPriority int
	KeyFile     string
	KeyDir      string
}

// PackageIndex refreshes and inspects the APT package index.
type PackageIndex interface {
	Update(ctx context.Context) error
	PolicyContains(ctx context.Context, url string) (bool, error)
}

var (
	readFileFunc  = os.ReadFile
	writeFileFunc = os.WriteFile
	mkdirAllFunc  = os.MkdirAll
	removeFunc    = os.Remove
)

// Repo configures APT repositories below root.
type Repo struct {
	root  string
	index PackageIndex
}

// New returns a Repo rooted at root ("/" on a live system).
func New(root string, index PackageIndex) *Repo {
	if root == "" {
		root = "/"
	}
	return &Repo{root: root, index: index}
}

// SourcePath returns the sources.list.d file for the named repository.
func (r *Repo) SourcePath(name string) string {
	return filepath.Join(r.root, SourcesDir, "ubuntu-"+name+".list")
}

// PinPath returns the preferences.d file for the named repository.
func (r *Repo) PinPath(name string) string {
	return filepath.Join(r.root, PreferencesDir, "ubuntu-"+name)
}

// KeyPath returns the installed location of keyFile.
func (r *Repo) KeyPath(keyFile string) string {
	return filepath.Join(r.root, TrustedKeysDir, keyFile)
}

// Setup installs the keyring, writes the source list and pin, then refreshes the index.
func (r *Repo) Setup(ctx context.Context, spec Spec) error {
	if err := spec.validate(); err != nil {
		return err
	}
	if err := r.installKey(spec); err != nil {
		return err
	}
	sourcePath := r.SourcePath(spec.Name)
	if err := writeIfChanged(sourcePath, RenderSource(spec)); err != nil {
		return fmt.Errorf(messages.RepoWriteSourceFmt, sourcePath, err)
	}
	if spec.PinPriority != 0 && spec.Origin != "" {
		pinPath := r.PinPath(spec.Name)
		if err := writeIfChanged(pinPath, RenderPin(spec)); err != nil {
			return fmt.Errorf(messages.RepoWritePinFmt, pinPath, err)
		}
	}
	return r.index.Update(ctx)
}

// Teardown removes the source list and pin, and the keyring unless keepKey is set.
func (r *Repo) Teardown(ctx context.Context, spec Spec, keepKey bool) error {
	if spec.Name == "" {
		return errors.New(messages.RepoNameRequired)
	}
	paths := []string{r.SourcePath(spec.Name), r.PinPath(spec.Name)}
	if !keepKey && spec.KeyFile != "" {
		paths = append(paths, r.KeyPath(spec.KeyFile))
	}
	for _, path := range paths {
		if err := removeFunc(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf(messages.RepoRemoveFileFmt, path, err)
		}
	}
	return r.index.Update(ctx)
}

// Configured reports whether the source list for spec exists.
func (r *Repo) Configured(spec Spec) bool {
	_, err := os.Stat(r.SourcePath(spec.Name))
	return err == nil
}

// Enabled reports whether the source list exists and APT policy references the repository.
func (r *Repo) Enabled(ctx context.Context, spec Spec) (bool, error) {
	if !r.Configured(spec) {
		return false, nil
	}
	return r.index.PolicyContains(ctx, spec.AptURL)
}

// RenderSource renders the deb lines for the suites matching spec.Series.
func RenderSource(spec Spec) string {
	url := strings.TrimRight(spec.AptURL, "/")
	var b strings.Builder
	for _, suite := range spec.Suites {
		if spec.Series != "" && !strings.HasPrefix(suite, spec.Series) {
			continue
		}
		fmt.Fprintf(&b, "deb %s/ubuntu %s main\n", url, suite)
		fmt.Fprintf(&b, "# deb-src %s/ubuntu %s main\n", url, suite)
	}
	return b.String()
}

// RenderPin renders the APT preferences entry pinning spec.Origin.
func RenderPin(spec Spec) string {
	return fmt.Sprintf("Package: *\nPin: release o=%s\nPin-Priority: %d\n", spec.Origin, spec.PinPriority)
}

func (r *Repo) installKey(spec Spec) error {
	src := filepath.Join(r.root, spec.KeyDir, spec.KeyFile)
	dst := r.KeyPath(spec.KeyFile)
	data, err := readFileFunc(src)
	if err != nil {
		return fmt.Errorf(messages.RepoCopyKeyFmt, src, err)
	}
	if err := writeIfChanged(dst, string(data)); err != nil {
		return fmt.Errorf(messages.RepoCopyKeyFmt, dst, err)
	}
	return nil
}

func (s Spec) validate() error {
	switch {
	case s.Name == "":
		return errors.New(messages.RepoNameRequired)
	case s.AptURL == "":
		return errors.New(messages.RepoAptURLRequired)
	case len(s.Suites) == 0:
		return errors.New(messages.RepoSuitesRequired)
	case s.KeyFile == "":
		return errors.New(messages.RepoKeyRequired)
	}
	return nil
}

// writeIfChanged writes content to path when it differs from the current
// contents, logging a unified diff of the change.
func writeIfChanged(path string, content string) error {
	old, err := readFileFunc(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err == nil && string(old) == content {
		return nil
	}
	if err := mkdirAllFunc(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := writeFileFunc(path, []byte(content), 0o644); err != nil {
		return err
	}
	if !strings.HasSuffix(path, ".gpg") {
		diff := strings.TrimSpace(udiff.Unified(path, path, string(old), content))
		log.Debug().Str("path", path).Str("diff", diff).Msgf(messages.RepoChangedFileFmt, path)
	}
	return nil
}
