package entitlement

import (
	"strings"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

// ApplicationStatus is the activation state of an entitlement on this host.
type ApplicationStatus int

const (
	StatusDisabled ApplicationStatus = iota
	StatusEnabled
	// StatusPending is only produced by TriState.
	StatusPending
)

func (s ApplicationStatus) String() string {
	switch s {
	case StatusEnabled:
		return messages.EntitlementStatusEnabled
	case StatusPending:
		return messages.EntitlementStatusPending
	default:
		return messages.EntitlementStatusDisabled
	}
}

// Classify refines a repository-level status with the running kernel.
// An enabled service on a non-FIPS kernel stays StatusEnabled and carries the
// reboot-required message.
func Classify(status ApplicationStatus, msg string, kernel string) (ApplicationStatus, string) {
	if status != StatusEnabled {
		return status, msg
	}
	if strings.HasSuffix(kernel, FIPSKernelSuffix) {
		return status, msg
	}
	return StatusEnabled, messages.EntitlementRebootRequired
}

// TriState maps the reboot-required signal of Classify to StatusPending.
func TriState(status ApplicationStatus, msg string) ApplicationStatus {
	if status == StatusEnabled && msg == messages.EntitlementRebootRequired {
		return StatusPending
	}
	return status
}
