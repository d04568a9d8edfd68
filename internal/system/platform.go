package system

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

// OSReleasePath is the os-release file consulted for the series codename.
const OSReleasePath = "/etc/os-release"

// SeriesUnknown is reported when the series cannot be determined.
const SeriesUnknown = "unknown"

// Ubuntu series codenames with FIPS-specific behaviour.
const (
	SeriesXenial = "xenial"
	SeriesBionic = "bionic"
)

// PlatformInfo describes the running OS release and kernel.
type PlatformInfo struct {
	Series  string
	Release string
	Kernel  string
	Arch    string
}

// PlatformInfo returns the series, release, running kernel and architecture.
// Lookups that fail degrade to SeriesUnknown or empty strings.
func (e *Evaluator) PlatformInfo(ctx context.Context) PlatformInfo {
	info := PlatformInfo{Series: SeriesUnknown, Kernel: e.Kernel(ctx)}
	if release, err := e.osRelease(); err != nil {
		log.Debug().Err(err).Msg("os-release lookup failed")
	} else {
		if series := osReleaseSeries(release); series != "" {
			info.Series = series
		}
		info.Release = release["VERSION_ID"]
	}
	if arch, err := e.sys.KernelArch(); err != nil {
		log.Debug().Err(err).Msg("kernel arch lookup failed")
	} else {
		info.Arch = arch
	}
	return info
}

// Series returns the lower-case release codename, or SeriesUnknown.
func (e *Evaluator) Series() string {
	release, err := e.osRelease()
	if err != nil {
		log.Debug().Err(err).Msg("os-release lookup failed")
		return SeriesUnknown
	}
	if series := osReleaseSeries(release); series != "" {
		return series
	}
	return SeriesUnknown
}

// Kernel returns the running kernel release, or "" when it cannot be read.
func (e *Evaluator) Kernel(ctx context.Context) string {
	kernel, err := e.sys.KernelVersion(ctx)
	if err == nil && strings.TrimSpace(kernel) != "" {
		return strings.TrimSpace(kernel)
	}
	if err != nil {
		log.Debug().Err(fmt.Errorf(messages.SystemKernelVersionFmt, err)).Msg("falling back to uname")
	}
	kernel, err = e.sys.Uname()
	if err != nil {
		log.Debug().Err(err).Msg("kernel lookup failed")
		return ""
	}
	return strings.TrimSpace(kernel)
}

func (e *Evaluator) osRelease() (map[string]string, error) {
	data, err := e.sys.ReadFile(OSReleasePath)
	if err != nil {
		return nil, fmt.Errorf(messages.SystemReadOSReleaseFmt, OSReleasePath, err)
	}
	values, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf(messages.SystemParseOSReleaseFmt, OSReleasePath, err)
	}
	return values, nil
}

// osReleaseSeries extracts the codename, preferring VERSION_CODENAME.
// Older releases only carry it in VERSION, e.g. "16.04.7 LTS (Xenial Xerus)".
func osReleaseSeries(release map[string]string) string {
	for _, key := range []string{"VERSION_CODENAME", "UBUNTU_CODENAME"} {
		if value := strings.ToLower(strings.TrimSpace(release[key])); value != "" {
			return value
		}
	}
	version := release["VERSION"]
	open := strings.Index(version, "(")
	if open < 0 {
		return ""
	}
	fields := strings.Fields(strings.Trim(version[open:], "()"))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(fields[0], ","))
}
