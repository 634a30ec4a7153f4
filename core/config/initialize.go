package config

import (
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir unless one already
// exists, then loads whatever is there.
func Initialize(fsys afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	exists, err := afero.Exists(fsys, configPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0644); err != nil {
			return nil, err
		}
		logger.Printf("wrote default configuration to %s", configPath)
	}

	return Load(fsys, dir)
}
