package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	StackPath string // hcl files
	StatePath string // snapshot of the last apply

	LogFormat   string
	LogLevel    string
	WorkerCount int

	// GraphOnly prints the dependency graph in DOT format and exits
	// without applying anything.
	GraphOnly bool

	// DryRun resolves and prints the apply order without provider calls.
	DryRun bool
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.StackPath == "" {
		return nil, errors.New("StackPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &cfg, nil
}
