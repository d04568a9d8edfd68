package system

import (
	"context"
	"errors"
	"testing"
)

func TestIsContainer(t *testing.T) {
	tests := []struct {
		name     string
		sys      *fakeSystem
		expected bool
	}{
		{name: "bare metal", sys: &fakeSystem{}, expected: false},
		{
			name:     "forced",
			sys:      &fakeSystem{env: map[string]string{EnvForceContainer: "yes"}},
			expected: true,
		},
		{
			name:     "systemd container file",
			sys:      &fakeSystem{files: map[string]string{"/run/systemd/container": "lxc"}},
			expected: true,
		},
		{
			name:     "dockerenv",
			sys:      &fakeSystem{files: map[string]string{"/.dockerenv": ""}},
			expected: true,
		},
		{
			name:     "container env",
			sys:      &fakeSystem{env: map[string]string{"container": "podman"}},
			expected: true,
		},
		{
			name:     "container env host",
			sys:      &fakeSystem{env: map[string]string{"container": "host"}},
			expected: false,
		},
		{
			name:     "pid 1 environ",
			sys:      &fakeSystem{files: map[string]string{"/proc/1/environ": "PATH=/bin\x00container=lxc\x00"}},
			expected: true,
		},
		{
			name:     "pid 1 environ host",
			sys:      &fakeSystem{files: map[string]string{"/proc/1/environ": "container=host\x00"}},
			expected: false,
		},
		{
			name:     "cgroup marker",
			sys:      &fakeSystem{files: map[string]string{"/proc/1/cgroup": "0::/kubepods/besteffort/pod1"}},
			expected: true,
		},
		{
			name: "virtualization guest",
			sys: &fakeSystem{VirtualizationFunc: func(context.Context) (string, string, error) {
				return "lxc", "guest", nil
			}},
			expected: true,
		},
		{
			name: "kvm guest is not a container",
			sys: &fakeSystem{VirtualizationFunc: func(context.Context) (string, string, error) {
				return "kvm", "guest", nil
			}},
			expected: false,
		},
		{
			name: "docker host role",
			sys: &fakeSystem{VirtualizationFunc: func(context.Context) (string, string, error) {
				return "docker", "host", nil
			}},
			expected: false,
		},
		{
			name: "virtualization probe failure",
			sys: &fakeSystem{VirtualizationFunc: func(context.Context) (string, string, error) {
				return "", "", errors.New("boom")
			}},
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewEvaluator(tc.sys).IsContainer(context.Background())
			if got != tc.expected {
				t.Errorf("IsContainer() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestIsTruthy(t *testing.T) {
	for _, value := range []string{"1", "true", "TRUE", " yes ", "y", "on"} {
		if !isTruthy(value) {
			t.Errorf("isTruthy(%q) = false, want true", value)
		}
	}
	for _, value := range []string{"", "0", "false", "no", "off", "2"} {
		if isTruthy(value) {
			t.Errorf("isTruthy(%q) = true, want false", value)
		}
	}
}
