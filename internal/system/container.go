package system

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// EnvForceContainer forces container detection when automatic detection falls short.
const EnvForceContainer = "UA_FORCE_CONTAINER"

// containerFiles are written by container runtimes and systemd inside a container.
var containerFiles = []string{
	"/run/container_type",
	"/run/systemd/container",
	"/.dockerenv",
	"/run/.containerenv",
}

var cgroupMarkers = []string{
	"docker",
	"lxc",
	"containerd",
	"kubepods",
	"podman",
	"crio",
	"libpod",
}

// virtualizationContainers are gopsutil virtualization systems that are containers
// when reported with the guest role.
var virtualizationContainers = map[string]struct{}{
	"docker":         {},
	"lxc":            {},
	"podman":         {},
	"openvz":         {},
	"linux-vserver":  {},
	"rkt":            {},
	"systemd-nspawn": {},
}

// IsContainer reports whether the host is a container.
func (e *Evaluator) IsContainer(ctx context.Context) bool {
	if isTruthy(e.sys.Getenv(EnvForceContainer)) {
		return true
	}

	for _, path := range containerFiles {
		if _, err := e.sys.Stat(path); err == nil {
			return true
		}
	}

	if val := strings.ToLower(strings.TrimSpace(e.sys.Getenv("container"))); val != "" && val != "host" {
		return true
	}

	if data, err := e.sys.ReadFile("/proc/1/environ"); err == nil {
		for _, kv := range strings.Split(string(data), "\x00") {
			key, value, ok := strings.Cut(kv, "=")
			if ok && key == "container" && value != "" && value != "host" {
				return true
			}
		}
	}

	if data, err := e.sys.ReadFile("/proc/1/cgroup"); err == nil {
		if hasAnyMarker(strings.ToLower(string(data)), cgroupMarkers) {
			return true
		}
	}

	virt, role, err := e.sys.Virtualization(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("virtualization probe failed")
		return false
	}
	if role == "guest" {
		if _, ok := virtualizationContainers[virt]; ok {
			return true
		}
	}
	return false
}

func hasAnyMarker(content string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}
