package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = " " },
			wantErr: "data_dir",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "log_level",
		},
		{
			name:    "upper case log level",
			mutate:  func(c *Config) { c.LogLevel = "DEBUG" },
			wantErr: "",
		},
		{
			name: "apt url without scheme",
			mutate: func(c *Config) {
				c.Entitlements = map[string]EntitlementConfig{"fips": {AptURL: "esm.ubuntu.com/fips"}}
			},
			wantErr: "entitlements.fips.apt_url",
		},
		{
			name: "empty package",
			mutate: func(c *Config) {
				c.Entitlements = map[string]EntitlementConfig{"fips-updates": {Packages: []string{"ubuntu-fips", ""}}}
			},
			wantErr: "entitlements.fips-updates.packages[1]",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate("uaclient.toml")
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}
