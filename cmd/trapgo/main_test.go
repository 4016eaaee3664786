package main

import (
	"testing"

	"github.com/cjeanneret/TrapGo/internal/config"
)

// ---------- validateCLIOverrides ----------

func TestValidateCLIOverrides_Defaults(t *testing.T) {
	if err := validateCLIOverrides(-1, 0); err != nil {
		t.Errorf("flag defaults should be valid (use config values), got: %v", err)
	}
}

func TestValidateCLIOverrides_ValidBoundary(t *testing.T) {
	cases := []struct {
		name             string
		level, threshold int
	}{
		{"level_off", 0, 0},
		{"level_trace", 4, 0},
		{"threshold_min", -1, 1},
		{"threshold_max", -1, 32767},
		{"both_set", 2, 5000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateCLIOverrides(tc.level, tc.threshold); err != nil {
				t.Errorf("expected valid, got: %v", err)
			}
		})
	}
}

func TestValidateCLIOverrides_OutOfRange(t *testing.T) {
	cases := []struct {
		name             string
		level, threshold int
	}{
		{"level_too_large", 5, 0},
		{"level_below_sentinel", -2, 0},
		{"threshold_too_large", -1, 32768},
		{"threshold_negative", -1, -5000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateCLIOverrides(tc.level, tc.threshold); err == nil {
				t.Error("expected error for out-of-range value, got nil")
			}
		})
	}
}

// ---------- applyOverrides ----------

func newTestConfig() *config.Config {
	return &config.Config{
		Capture: config.CaptureConfig{
			PhotoIntervalMs: 10000,
			SoundThreshold:  5000,
			RecordTimeS:     10,
			CooldownMs:      1000,
			VolumeGain:      3,
		},
		Audio:   config.AudioConfig{Source: "alsa", Device: "default", SampleRate: 16000, SampleBits: 16},
		Camera:  config.CameraConfig{Type: "v4l2", Device: "/dev/video0", WidthPx: 1280, HeightPx: 720},
		Storage: config.StorageConfig{Root: "/mnt/sd"},
		Defaults: config.DefaultsConfig{
			PollIntervalMs: 20,
			MaxClipMB:      64,
			DebugLevel:     1,
			MockGPIO:       true,
		},
	}
}

func TestApplyOverrides_NonDefault(t *testing.T) {
	cfg := newTestConfig()
	applyOverrides(cfg, 3, 12000)
	if cfg.Defaults.DebugLevel != 3 {
		t.Errorf("DebugLevel = %d, want 3", cfg.Defaults.DebugLevel)
	}
	if cfg.Capture.SoundThreshold != 12000 {
		t.Errorf("SoundThreshold = %d, want 12000", cfg.Capture.SoundThreshold)
	}
}

func TestApplyOverrides_DefaultsLeaveConfigAlone(t *testing.T) {
	cfg := newTestConfig()
	applyOverrides(cfg, -1, 0)
	if cfg.Defaults.DebugLevel != 1 {
		t.Errorf("DebugLevel changed: %d, want 1", cfg.Defaults.DebugLevel)
	}
	if cfg.Capture.SoundThreshold != 5000 {
		t.Errorf("SoundThreshold changed: %d, want 5000", cfg.Capture.SoundThreshold)
	}
}

// The level sentinel is -1, not 0: an explicit -debug_level=0 must
// silence a config that asked for logging.
func TestApplyOverrides_LevelZeroSilences(t *testing.T) {
	cfg := newTestConfig()
	applyOverrides(cfg, 0, 0)
	if cfg.Defaults.DebugLevel != 0 {
		t.Errorf("DebugLevel = %d, want 0", cfg.Defaults.DebugLevel)
	}
	if cfg.Capture.SoundThreshold != 5000 {
		t.Errorf("SoundThreshold changed: %d, want 5000", cfg.Capture.SoundThreshold)
	}
}

func TestApplyOverrides_ThresholdOnly(t *testing.T) {
	cfg := newTestConfig()
	applyOverrides(cfg, -1, 9000)
	if cfg.Defaults.DebugLevel != 1 {
		t.Errorf("DebugLevel should be unchanged: %d, want 1", cfg.Defaults.DebugLevel)
	}
	if cfg.Capture.SoundThreshold != 9000 {
		t.Errorf("SoundThreshold = %d, want 9000", cfg.Capture.SoundThreshold)
	}
}

// ---------- source selection ----------

func TestNewCameraFromConfig_UnknownType(t *testing.T) {
	cfg := newTestConfig()
	cfg.Camera.Type = "unknown"
	if _, err := newCameraFromConfig(cfg); err == nil {
		t.Error("expected error for unknown camera type, got nil")
	}
}

func TestNewMicFromConfig_UnknownSource(t *testing.T) {
	cfg := newTestConfig()
	cfg.Audio.Source = "unknown"
	if _, err := newMicFromConfig(cfg); err == nil {
		t.Error("expected error for unknown audio source, got nil")
	}
}
