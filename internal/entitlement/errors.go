package entitlement

import (
	"errors"
	"fmt"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

var (
	// ErrBlocked matches every *BlockedError.
	ErrBlocked = errors.New("entitlement blocked")
	// ErrUserDeclined is returned when a confirmation prompt is declined.
	ErrUserDeclined = errors.New(messages.EntitlementUserDeclined)
	// ErrNotEnabled is returned when disabling a service that is not enabled.
	ErrNotEnabled = errors.New("entitlement not enabled")
)

// BlockedError reports an affordance that prevented activation.
type BlockedError struct {
	Name   string
	Reason string
}

func (e *BlockedError) Error() string {
	return e.Reason
}

// Is reports whether target is ErrBlocked.
func (e *BlockedError) Is(target error) bool {
	return target == ErrBlocked
}

// UnknownError reports a service name that has no definition.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf(messages.EntitlementUnknownFmt, e.Name)
}

// NotEnabledError reports a disable request for a service that is not enabled.
type NotEnabledError struct {
	Title string
}

func (e *NotEnabledError) Error() string {
	return fmt.Sprintf(messages.EntitlementNotEnabledFmt, e.Title)
}

// Is reports whether target is ErrNotEnabled.
func (e *NotEnabledError) Is(target error) bool {
	return target == ErrNotEnabled
}
