package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/formgrid/internal/timerhost"
)

const defaultBridgeNamespace = "/"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FormsPath  string // hcl file or directory
	ScriptPath string // yaml scenario

	AdminPort       int
	BridgeURL       string
	BridgeNamespace string

	LogFormat string
	LogLevel  string

	// Clock drives debounce timers. Nil means real time.
	Clock timerhost.Clock
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.FormsPath == "" {
		return nil, errors.New("FormsPath is a required configuration field and cannot be empty")
	}
	if cfg.AdminPort < 0 || cfg.AdminPort > 65535 {
		return nil, fmt.Errorf("AdminPort must be between 0 and 65535, got %d", cfg.AdminPort)
	}
	if cfg.BridgeURL != "" && cfg.BridgeNamespace == "" {
		cfg.BridgeNamespace = defaultBridgeNamespace
	}
	return &cfg, nil
}
