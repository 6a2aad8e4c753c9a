package app

import (
	"errors"
	"fmt"

	"github.com/vk/blastradius/internal/reach"
)

// Valid export formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatHTML = "html"
	FormatAll  = "all"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigDir string // directory of .tf files

	Export bool   // write export files instead of serving
	Format string // json, dot, html, or all
	OutDir string // destination directory for export files

	Host     string
	Port     int
	MaxDepth int  // default depth for blast-radius queries; reach.Unbounded disables
	Watch    bool // rebuild on filesystem changes (serve mode only)

	Excludes       []string // glob patterns for file base names to skip
	CategoriesPath string   // optional TOML category rules

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigDir == "" {
		return nil, errors.New("ConfigDir is a required configuration field and cannot be empty")
	}

	switch cfg.Format {
	case FormatJSON, FormatDOT, FormatHTML, FormatAll:
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'json', 'dot', 'html', or 'all'", cfg.Format)
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 0 and 65535", cfg.Port)
	}

	if cfg.MaxDepth < reach.Unbounded {
		return nil, fmt.Errorf("invalid max depth %d: must be %d (unbounded) or a non-negative hop count", cfg.MaxDepth, reach.Unbounded)
	}

	if cfg.Export && cfg.OutDir == "" {
		return nil, errors.New("OutDir is required in export mode")
	}

	return &cfg, nil
}
