package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf(messages.ConfigDataDirRequiredFmt, path)
	}
	if _, ok := validLogLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf(messages.ConfigLogLevelInvalidFmt, path)
	}

	names := make([]string, 0, len(c.Entitlements))
	for name := range c.Entitlements {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ent := c.Entitlements[name]
		if ent.AptURL != "" && !isHTTPURL(ent.AptURL) {
			return fmt.Errorf(messages.ConfigEntitlementAptURLFmt, path, name)
		}
		for i, pkg := range ent.Packages {
			if strings.TrimSpace(pkg) == "" {
				return fmt.Errorf(messages.ConfigEntitlementPackageEmptyFmt, path, name, i)
			}
		}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
