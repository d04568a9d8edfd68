package config

import "path/filepath"

// Paths holds resolved paths for the client configuration and state.
type Paths struct {
	Root       string
	ConfigDir  string
	ConfigPath string
}

// DefaultPaths returns the config paths below root ("/" on a real host).
func DefaultPaths(root string) Paths {
	configDir := filepath.Join(root, "etc", "ubuntu-advantage")
	return Paths{
		Root:       root,
		ConfigDir:  configDir,
		ConfigPath: filepath.Join(configDir, "uaclient.toml"),
	}
}
