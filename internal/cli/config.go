package cli

import (
	"errors"
	"io/fs"
	"os"

	"survey-service/internal/config"
	"survey-service/internal/log"
)

// loadConfig reads the config file and sets the log level. A missing file
// at the default location falls back to defaults plus environment.
func loadConfig(path string) (config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if debug {
		log.SetLevel(log.DebugLevel)
	} else if err := log.SetLevelName(cfg.Log.Level); err != nil {
		return cfg, err
	}
	return cfg, nil
}
