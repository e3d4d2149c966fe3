package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFPSTarget       = 60.0
	DefaultWindowSize      = 45
	DefaultCooldownSec     = 5.0
	DefaultEvalIntervalSec = 3.0
	DefaultCriticalMult    = 0.5
	DefaultWarningMult     = 0.75
	DefaultUpgradeMult     = 1.5
	DefaultRestoreSec      = 10.0
	DefaultMaxRetries      = 2
	DefaultFetchTimeoutSec = 15.0
	DefaultTimeScale       = 2_000_000.0
)

type Config struct {
	Quality   QualityConfig `yaml:"quality"`
	Textures  TextureConfig `yaml:"textures"`
	Context   ContextConfig `yaml:"context"`
	TimeScale float64       `yaml:"time_scale"`
	ScenePath string        `yaml:"scene_path"`
}

type QualityConfig struct {
	Initial            string  `yaml:"initial"`
	AutoAdjust         bool    `yaml:"auto_adjust"`
	FPSTarget          float64 `yaml:"fps_target"`
	WindowSize         int     `yaml:"window_size"`
	CooldownSec        float64 `yaml:"cooldown_sec"`
	EvalIntervalSec    float64 `yaml:"eval_interval_sec"`
	CriticalMultiplier float64 `yaml:"critical_multiplier"`
	WarningMultiplier  float64 `yaml:"warning_multiplier"`
	UpgradeMultiplier  float64 `yaml:"upgrade_multiplier"`
}

type TextureConfig struct {
	BaseURL         string            `yaml:"base_url"`
	AssetDir        string            `yaml:"asset_dir"`
	BudgetMB        uint64            `yaml:"budget_mb"`
	MaxRetries      int               `yaml:"max_retries"`
	FetchTimeoutSec float64           `yaml:"fetch_timeout_sec"`
	LowResSuffix    string            `yaml:"low_res_suffix"`
	Fallbacks       map[string]string `yaml:"fallbacks"`
	DefaultFallback string            `yaml:"default_fallback"`
}

type ContextConfig struct {
	RestoreTimeoutSec float64 `yaml:"restore_timeout_sec"`
}

func DefaultConfig() *Config {
	return &Config{
		Quality: QualityConfig{
			AutoAdjust:         true,
			FPSTarget:          DefaultFPSTarget,
			WindowSize:         DefaultWindowSize,
			CooldownSec:        DefaultCooldownSec,
			EvalIntervalSec:    DefaultEvalIntervalSec,
			CriticalMultiplier: DefaultCriticalMult,
			WarningMultiplier:  DefaultWarningMult,
			UpgradeMultiplier:  DefaultUpgradeMult,
		},
		Textures: TextureConfig{
			MaxRetries:      DefaultMaxRetries,
			FetchTimeoutSec: DefaultFetchTimeoutSec,
		},
		Context: ContextConfig{
			RestoreTimeoutSec: DefaultRestoreSec,
		},
		TimeScale: DefaultTimeScale,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	q := c.Quality
	if q.FPSTarget <= 0 {
		return fmt.Errorf("config: fps_target must be positive, got %f", q.FPSTarget)
	}
	if q.WindowSize <= 0 {
		return fmt.Errorf("config: window_size must be positive, got %d", q.WindowSize)
	}
	if q.CriticalMultiplier >= q.WarningMultiplier {
		return fmt.Errorf("config: critical_multiplier must be below warning_multiplier")
	}
	if q.UpgradeMultiplier <= 1 {
		return fmt.Errorf("config: upgrade_multiplier must exceed 1, got %f", q.UpgradeMultiplier)
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("config: time_scale must be positive, got %f", c.TimeScale)
	}
	return nil
}

func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Quality.CooldownSec * float64(time.Second))
}

func (c *Config) EvalInterval() time.Duration {
	return time.Duration(c.Quality.EvalIntervalSec * float64(time.Second))
}

func (c *Config) RestoreTimeout() time.Duration {
	return time.Duration(c.Context.RestoreTimeoutSec * float64(time.Second))
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Textures.FetchTimeoutSec * float64(time.Second))
}
