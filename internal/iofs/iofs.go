// Package iofs prepares gnaoi directories and the default configuration
// file.
package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/gnaoi/pkg/config"
)

// ConfigYAML is the default configuration file.
//
//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates config, cache and logs directories under homeDir.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}
	return nil
}

// EnsureConfigFile writes the default config.yaml unless it already
// exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}
	return nil
}

// ReadFile reads a local file.
func ReadFile(path string) ([]byte, error) {
	res, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}

// Open opens a local file for reading.
func Open(path string) (*os.File, error) {
	res, err := os.Open(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}
