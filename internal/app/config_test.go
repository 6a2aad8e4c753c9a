package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/blastradius/internal/reach"
)

func validConfig() Config {
	return Config{
		ConfigDir: "./config",
		Format:    FormatJSON,
		OutDir:    "out",
		Host:      "127.0.0.1",
		Port:      8080,
		MaxDepth:  reach.Unbounded,
	}
}

func TestNewConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg, err := NewConfig(validConfig())
		require.NoError(t, err)
		assert.Equal(t, "./config", cfg.ConfigDir)
	})

	t.Run("missing config dir", func(t *testing.T) {
		cfg := validConfig()
		cfg.ConfigDir = ""
		_, err := NewConfig(cfg)
		assert.ErrorContains(t, err, "ConfigDir")
	})

	t.Run("bad format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Format = "svg"
		_, err := NewConfig(cfg)
		assert.ErrorContains(t, err, "invalid format")
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = 70000
		_, err := NewConfig(cfg)
		assert.ErrorContains(t, err, "invalid port")
	})

	t.Run("bad max depth", func(t *testing.T) {
		cfg := validConfig()
		cfg.MaxDepth = -2
		_, err := NewConfig(cfg)
		assert.ErrorContains(t, err, "invalid max depth")
	})

	t.Run("export without out dir", func(t *testing.T) {
		cfg := validConfig()
		cfg.Export = true
		cfg.OutDir = ""
		_, err := NewConfig(cfg)
		assert.ErrorContains(t, err, "OutDir")
	})
}
