package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != DefaultIntegrator {
		t.Errorf("expected integrator %s, got %s", DefaultIntegrator, cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spacecore.yaml")
	data := []byte(`
dt: 0.5
integrator: rk4
ship:
  name: Cobra
  half_extents: [1, 2, 3]
hyperspace:
  dest: "1,0,0,2"
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Dt)
	assert.Equal(t, "rk4", cfg.Integrator)
	assert.Equal(t, "Cobra", cfg.Ship.Name)
	assert.Equal(t, [3]float64{1, 2, 3}, cfg.Ship.HalfExtents)
	assert.Equal(t, DefaultConfig().Ship.Mass, cfg.Ship.Mass)

	dest, ok := cfg.JumpDest()
	require.True(t, ok)
	assert.Equal(t, 1, dest.SectorX)
	assert.Equal(t, 2, dest.BodyIdx)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SPACECORE_SEED", "42")
	t.Setenv("SPACECORE_LOG_LEVEL", "debug")
	t.Setenv("SPACECORE_SHIP_FUEL", "7.5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 7.5, cfg.Ship.Fuel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	want := GetPreset("hyperjump")
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"unknown integrator", func(c *Config) { c.Integrator = "magic" }},
		{"bad start", func(c *Config) { c.Start = "earth" }},
		{"bad jump", func(c *Config) { c.Hyperspace.Dest = "1,2" }},
		{"zero jump time", func(c *Config) { c.Hyperspace.Duration = 0 }},
		{"massless ship", func(c *Config) { c.Ship.Mass = 0 }},
		{"negative pirates", func(c *Config) { c.Pirates = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("earth-orbit")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Ship.Altitude != 3e6 || !cfg.Ship.Orbit {
		t.Errorf("unexpected ship config %+v", cfg.Ship)
	}
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	assert.Equal(t, []string{"earth-orbit", "hyperjump", "lunar-drop", "pirates"}, presets)
}
