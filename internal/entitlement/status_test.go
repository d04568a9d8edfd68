package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		status     ApplicationStatus
		kernel     string
		wantStatus ApplicationStatus
		wantMsg    string
	}{
		{name: "enabled generic kernel", status: StatusEnabled, kernel: "5.4.0-generic", wantStatus: StatusEnabled, wantMsg: messages.EntitlementRebootRequired},
		{name: "enabled fips kernel", status: StatusEnabled, kernel: "5.4.0-fips", wantStatus: StatusEnabled, wantMsg: "FIPS is active"},
		{name: "enabled unknown kernel", status: StatusEnabled, kernel: "", wantStatus: StatusEnabled, wantMsg: messages.EntitlementRebootRequired},
		{name: "disabled generic kernel", status: StatusDisabled, kernel: "5.4.0-generic", wantStatus: StatusDisabled, wantMsg: "FIPS is active"},
		{name: "disabled fips kernel", status: StatusDisabled, kernel: "4.15.0-1011-fips", wantStatus: StatusDisabled, wantMsg: "FIPS is active"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := Classify(tc.status, "FIPS is active", tc.kernel)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}

func TestTriState(t *testing.T) {
	status, msg := Classify(StatusEnabled, "FIPS is active", "5.4.0-generic")
	assert.Equal(t, StatusPending, TriState(status, msg))

	status, msg = Classify(StatusEnabled, "FIPS is active", "5.4.0-fips")
	assert.Equal(t, StatusEnabled, TriState(status, msg))

	assert.Equal(t, StatusDisabled, TriState(StatusDisabled, messages.EntitlementRebootRequired))
}

func TestApplicationStatusString(t *testing.T) {
	assert.Equal(t, "enabled", StatusEnabled.String())
	assert.Equal(t, "disabled", StatusDisabled.String())
	assert.Equal(t, "reboot required", StatusPending.String())
}
