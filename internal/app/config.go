package app

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Supported values for Config.Output, Config.Emit and Config.IDs.
var (
	OutputFormats = []string{"yaml", "json", "hcl"}
	EmitModes     = []string{"canonical", "graph", "summary"}
	IDGenerators  = []string{"uuid", "sequential"}
)

// PublishConfig configures the optional socket.io publisher. Publishing is
// disabled when URL is empty.
type PublishConfig struct {
	URL                string
	Namespace          string
	Event              string
	AckEvent           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SpecPath string // a spec file or a directory of them

	Output string
	Emit   string
	IDs    string

	// MaxInstances overrides the builder's instance limit when positive.
	MaxInstances int

	LogFormat string
	LogLevel  string

	Publish PublishConfig
}

// NewConfig applies defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SpecPath == "" {
		return nil, errors.New("SpecPath is a required configuration field and cannot be empty")
	}
	if cfg.Output == "" {
		cfg.Output = "yaml"
	}
	if cfg.Emit == "" {
		cfg.Emit = "canonical"
	}
	if cfg.IDs == "" {
		cfg.IDs = "uuid"
	}
	if !slices.Contains(OutputFormats, cfg.Output) {
		return nil, fmt.Errorf("invalid output format %q: must be one of %v", cfg.Output, OutputFormats)
	}
	if !slices.Contains(EmitModes, cfg.Emit) {
		return nil, fmt.Errorf("invalid emit mode %q: must be one of %v", cfg.Emit, EmitModes)
	}
	if !slices.Contains(IDGenerators, cfg.IDs) {
		return nil, fmt.Errorf("invalid id generator %q: must be one of %v", cfg.IDs, IDGenerators)
	}
	if cfg.MaxInstances < 0 {
		return nil, fmt.Errorf("max instances must be non-negative, got %d", cfg.MaxInstances)
	}
	if cfg.Publish.Timeout < 0 {
		return nil, fmt.Errorf("publish timeout must be non-negative, got %s", cfg.Publish.Timeout)
	}

	return &cfg, nil
}
