// Package system answers read-only questions about the host: whether it is a
// container, which Ubuntu series it runs and which kernel is booted.
package system

import (
	"context"
	"fmt"
	"os"

	gohost "github.com/shirou/gopsutil/v4/host"
	"golang.org/x/sys/unix"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

// System abstracts the host probes needed by the Evaluator.
// This interface is intentionally package-local so tests can fake every probe
// without touching the real host.
type System interface {
	Getenv(key string) string
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	KernelVersion(ctx context.Context) (string, error)
	Uname() (string, error)
	KernelArch() (string, error)
	Virtualization(ctx context.Context) (system string, role string, err error)
}

// RealSystem implements System using the OS, gopsutil and uname(2).
type RealSystem struct{}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// KernelVersion returns the running kernel release, e.g. "5.4.0-1021-fips".
func (RealSystem) KernelVersion(ctx context.Context) (string, error) {
	return gohost.KernelVersionWithContext(ctx)
}

// Uname returns the kernel release reported by uname(2).
func (RealSystem) Uname() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", fmt.Errorf(messages.SystemUnameFmt, err)
	}
	return unix.ByteSliceToString(uts.Release[:]), nil
}

// KernelArch returns the machine hardware name, e.g. "x86_64".
func (RealSystem) KernelArch() (string, error) {
	return gohost.KernelArch()
}

// Virtualization returns the virtualization system and role detected by gopsutil.
func (RealSystem) Virtualization(ctx context.Context) (string, string, error) {
	return gohost.VirtualizationWithContext(ctx)
}

// Evaluator evaluates host predicates. It holds no state between calls.
type Evaluator struct {
	sys System
}

// NewEvaluator returns an Evaluator backed by sys. A nil sys uses RealSystem.
func NewEvaluator(sys System) *Evaluator {
	if sys == nil {
		sys = RealSystem{}
	}
	return &Evaluator{sys: sys}
}
