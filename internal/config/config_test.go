package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Quality.FPSTarget != DefaultFPSTarget {
		t.Errorf("expected fps target %v, got %v", DefaultFPSTarget, cfg.Quality.FPSTarget)
	}
	if !cfg.Quality.AutoAdjust {
		t.Error("auto adjust should default on")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadTuning(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fps target", func(c *Config) { c.Quality.FPSTarget = 0 }},
		{"zero window", func(c *Config) { c.Quality.WindowSize = 0 }},
		{"inverted thresholds", func(c *Config) { c.Quality.CriticalMultiplier = 0.9 }},
		{"upgrade below unity", func(c *Config) { c.Quality.UpgradeMultiplier = 0.9 }},
		{"zero time scale", func(c *Config) { c.TimeScale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")

	cfg := DefaultConfig()
	cfg.Quality.Initial = "medium"
	cfg.Quality.FPSTarget = 30
	cfg.Textures.BudgetMB = 128
	cfg.Textures.Fallbacks = map[string]string{"normal": "fallbacks/normal.png"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Quality.Initial != "medium" || loaded.Quality.FPSTarget != 30 {
		t.Errorf("quality section lost: %+v", loaded.Quality)
	}
	if loaded.Textures.BudgetMB != 128 {
		t.Errorf("expected budget 128, got %d", loaded.Textures.BudgetMB)
	}
	if loaded.Textures.Fallbacks["normal"] != "fallbacks/normal.png" {
		t.Error("fallback map lost")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("mobile")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Quality.Initial != "low" || cfg.Quality.FPSTarget != 30 {
		t.Errorf("unexpected mobile preset %+v", cfg.Quality)
	}

	if GetPreset("toaster") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 3 {
		t.Errorf("expected 3 presets, got %d", len(names))
	}
}
