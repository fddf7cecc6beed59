package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	configDirName  = "kcore"
	configFileName = "config.json"
)

// fileConfig is the persisted subset of a session's settings, following the
// donor source package's habit of stashing state under an XDG base directory
// instead of a dotfile in $HOME (source.go's getDefaultCacheLocation does the
// same for its git cache, under xdg.DataHome rather than xdg.ConfigHome).
type fileConfig struct {
	DefaultPolicy string `json:"defaultPolicy"`
	DefaultNProc  int    `json:"defaultNProc"`
}

func configPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(configDirName, configFileName))
}

// loadConfig returns the persisted config, or a zero-value one if none has
// been saved yet. An unreadable or corrupt config file is silently treated
// the same way: the CLI falls back to flag defaults rather than refusing to
// start.
func loadConfig() fileConfig {
	path, err := configPath()
	if err != nil {
		return fileConfig{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}
	}
	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}
	}
	return cfg
}

func saveConfig(cfg fileConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
