package config

// Presets tune the engine for broad device classes. They mirror the
// capability-derived defaults but let operators pin behavior explicitly.
var presets = map[string]func(*Config){
	"desktop": func(c *Config) {
		c.Quality.Initial = "high"
		c.Textures.BudgetMB = 512
	},
	"laptop": func(c *Config) {
		c.Quality.Initial = "medium"
		c.Textures.BudgetMB = 256
	},
	"mobile": func(c *Config) {
		c.Quality.Initial = "low"
		c.Quality.FPSTarget = 30
		c.Textures.BudgetMB = 64
	},
}

// GetPreset returns a config for the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	apply, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
