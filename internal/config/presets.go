package config

import "sort"

// Presets patch the defaults for a few ready-made scenarios.
var Presets = map[string]func(*Config){
	"earth-orbit": func(c *Config) {
		c.Start = "0,0,0,2"
		c.Duration = 5400
		c.Dt = 1
		c.Ship.Altitude = 3e6
		c.Ship.Orbit = true
	},
	"lunar-drop": func(c *Config) {
		c.Start = "0,0,0,3"
		c.Duration = 900
		c.Dt = 0.5
		c.Ship.Altitude = 1e5
	},
	"hyperjump": func(c *Config) {
		c.Start = "0,0,0,2"
		c.Duration = 30
		c.Hyperspace.Dest = "1,0,0,2"
		c.Hyperspace.At = 5
		c.Hyperspace.Duration = 3
	},
	"pirates": func(c *Config) {
		c.Start = "0,0,0,2"
		c.Duration = 120
		c.Hyperspace.Dest = "0,0,1,1"
		c.Hyperspace.At = 1
		c.Pirates = 3
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	patch, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	patch(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
