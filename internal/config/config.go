// Package config carries the runtime settings shared by every
// command: the logger, interactivity, and where persisted state lives.
package config

import (
	"github.com/aicred/aicred/internal/logging"
	"github.com/aicred/aicred/internal/store"
)

// Config holds the runtime configuration assembled from global flags.
type Config struct {
	Logger         *logging.Logger
	NonInteractive bool
	Debug          bool
	NoColor        bool

	// StoreDir overrides the default config location when set.
	StoreDir string
}

// Store resolves the persistence layer for this run.
func (c *Config) Store() (*store.Store, error) {
	dir := c.StoreDir
	if dir == "" {
		var err error
		dir, err = store.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return store.New(dir), nil
}
