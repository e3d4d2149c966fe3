package device

import "testing"

func TestTextureBudgetClamps(t *testing.T) {
	tests := []struct {
		name     string
		memBytes uint64
		want     uint64
	}{
		{"tiny device floors", 128 << 20, 64 << 20},
		{"mid device quarters", 1 << 30, 256 << 20},
		{"huge device caps", 64 << 30, 512 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Capabilities{DeviceMemoryBytes: tt.memBytes}
			if got := c.TextureBudget(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestInitialQualityHint(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want string
	}{
		{"software renderer", Capabilities{Renderer: "Google SwiftShader", DeviceMemoryBytes: 16 << 30, MaxTextureSize: 16384}, "low"},
		{"small memory", Capabilities{Renderer: "NVIDIA", DeviceMemoryBytes: 1 << 30, MaxTextureSize: 8192}, "low"},
		{"small textures", Capabilities{Renderer: "NVIDIA", DeviceMemoryBytes: 16 << 30, MaxTextureSize: 2048}, "low"},
		{"mid device", Capabilities{Renderer: "NVIDIA", DeviceMemoryBytes: 3 << 30, MaxTextureSize: 8192}, "medium"},
		{"large device", Capabilities{Renderer: "NVIDIA", DeviceMemoryBytes: 6 << 30, MaxTextureSize: 8192}, "high"},
		{"workstation", Capabilities{Renderer: "NVIDIA", DeviceMemoryBytes: 32 << 30, MaxTextureSize: 16384}, "ultra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.caps.InitialQualityHint(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
