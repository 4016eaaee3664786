package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxConfigFileBytes caps the size of a config file accepted by Load.
const MaxConfigFileBytes = 1 << 20 // 1 MiB

// CaptureConfig holds the trigger and timing parameters of the trap loop.
type CaptureConfig struct {
	PhotoIntervalMs int `yaml:"photo_interval_ms"` // time between periodic photos (ms)
	SoundThreshold  int `yaml:"sound_threshold"`   // absolute sample amplitude that starts a recording. 0 = default.
	RecordTimeS     int `yaml:"record_time_s"`     // length of each audio clip (seconds)
	CooldownMs      int `yaml:"cooldown_ms"`       // pause after a clip before listening again (ms)
	VolumeGain      int `yaml:"volume_gain"`       // left shift applied to each sample, in bits. 0 = default.
}

// AudioConfig describes the microphone source.
// Source selects a concrete implementation (e.g., "alsa", "wavfile").
type AudioConfig struct {
	Source     string `yaml:"source"`      // e.g., "alsa" or "wavfile"
	Device     string `yaml:"device"`      // ALSA device name, or a WAV path for "wavfile"
	SampleRate int    `yaml:"sample_rate"` // capture rate in Hz
	SampleBits int    `yaml:"sample_bits"` // bits per sample (only 16 is supported)
}

// CameraConfig describes the photo source.
// Type selects a concrete implementation (e.g., "v4l2", "stilldir").
type CameraConfig struct {
	Type     string `yaml:"type"`      // e.g., "v4l2" or "stilldir"
	Device   string `yaml:"device"`    // e.g., /dev/video0, or a directory of stills for "stilldir"
	WidthPx  int    `yaml:"width_px"`  // requested frame width
	HeightPx int    `yaml:"height_px"` // requested frame height
}

// StorageConfig describes where captures are written.
type StorageConfig struct {
	Root      string `yaml:"root"`        // mount point of the removable card
	MinFreeMB int    `yaml:"min_free_mb"` // refuse new captures below this free space. 0 = no floor.
}

// LEDConfig describes the status LED wiring.
type LEDConfig struct {
	StatusPin int `yaml:"status_pin"` // BCM pin of the status LED. 0 = not used.
}

// DefaultsConfig contains generic parameters (pacing, limits, etc.).
type DefaultsConfig struct {
	PollIntervalMs int  `yaml:"poll_interval_ms"` // idle loop pacing between microphone polls (ms)
	MaxClipMB      int  `yaml:"max_clip_mb"`      // upper bound on a single clip buffer (MiB)
	DebugLevel     int  `yaml:"debug_level"`      // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO       bool `yaml:"mock_gpio"`        // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	Capture  CaptureConfig  `yaml:"capture"`
	Audio    AudioConfig    `yaml:"audio"`
	Camera   CameraConfig   `yaml:"camera"`
	Storage  StorageConfig  `yaml:"storage"`
	LED      LEDConfig      `yaml:"led"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ValidateConfigPath checks that path names a .yaml file inside a configs/
// directory, rejecting traversal outside of it.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if filepath.Ext(path) != ".yaml" {
		return fmt.Errorf("config file must have a .yaml extension, got %q", path)
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config file must live in a configs/ directory, got %q", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxConfigFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation
	if cfg.Camera.Type == "" {
		return nil, fmt.Errorf("camera.type is required")
	}
	if cfg.Storage.Root == "" {
		return nil, fmt.Errorf("storage.root is required")
	}
	if cfg.Storage.MinFreeMB < 0 {
		return nil, fmt.Errorf("storage.min_free_mb must be >= 0, got %d", cfg.Storage.MinFreeMB)
	}
	if cfg.LED.StatusPin < 0 {
		return nil, fmt.Errorf("led.status_pin must be >= 0, got %d", cfg.LED.StatusPin)
	}
	if cfg.Capture.SoundThreshold < 0 || cfg.Capture.SoundThreshold > 32767 {
		return nil, fmt.Errorf("sound_threshold must be between 0 and 32767, got %d", cfg.Capture.SoundThreshold)
	}
	if cfg.Capture.SoundThreshold == 0 {
		cfg.Capture.SoundThreshold = 5000 // reasonable default for a quiet field site
	}
	if cfg.Capture.VolumeGain < 0 || cfg.Capture.VolumeGain > 15 {
		return nil, fmt.Errorf("volume_gain must be between 0 and 15, got %d", cfg.Capture.VolumeGain)
	}
	if cfg.Capture.VolumeGain == 0 {
		cfg.Capture.VolumeGain = 3 // default boost for small electret capsules
	}
	if cfg.Capture.RecordTimeS > 3600 {
		return nil, fmt.Errorf("record_time_s must be <= 3600, got %d", cfg.Capture.RecordTimeS)
	}
	if cfg.Capture.RecordTimeS <= 0 {
		cfg.Capture.RecordTimeS = 10 // default clip length
	}
	if cfg.Capture.PhotoIntervalMs < 0 {
		return nil, fmt.Errorf("photo_interval_ms must be >= 0, got %d", cfg.Capture.PhotoIntervalMs)
	}
	if cfg.Capture.PhotoIntervalMs == 0 {
		cfg.Capture.PhotoIntervalMs = 10000 // one photo every 10s
	}
	if cfg.Capture.CooldownMs < 0 {
		return nil, fmt.Errorf("cooldown_ms must be >= 0, got %d", cfg.Capture.CooldownMs)
	}
	if cfg.Capture.CooldownMs == 0 {
		cfg.Capture.CooldownMs = 1000 // settle time after a clip
	}

	// Default values for the audio source
	if cfg.Audio.Source == "" {
		cfg.Audio.Source = "alsa"
	}
	if cfg.Audio.Device == "" {
		if cfg.Audio.Source == "wavfile" {
			return nil, fmt.Errorf("audio.device is required for the wavfile source")
		}
		cfg.Audio.Device = "default"
	}
	if cfg.Audio.SampleRate < 0 || cfg.Audio.SampleRate > 192000 {
		return nil, fmt.Errorf("sample_rate must be between 0 and 192000, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.SampleRate == 0 {
		cfg.Audio.SampleRate = 16000 // plenty for wildlife vocalizations
	}
	if cfg.Audio.SampleBits == 0 {
		cfg.Audio.SampleBits = 16
	}
	if cfg.Audio.SampleBits != 16 {
		return nil, fmt.Errorf("sample_bits must be 16, got %d", cfg.Audio.SampleBits)
	}

	// Default values for the camera
	if cfg.Camera.WidthPx <= 0 {
		cfg.Camera.WidthPx = 1280
	}
	if cfg.Camera.HeightPx <= 0 {
		cfg.Camera.HeightPx = 720
	}

	// Default values for loop pacing and limits
	if cfg.Defaults.PollIntervalMs <= 0 {
		cfg.Defaults.PollIntervalMs = 20 // idle poll pacing
	}
	if cfg.Defaults.MaxClipMB <= 0 {
		cfg.Defaults.MaxClipMB = 64 // refuse clip buffers above this
	}

	return &cfg, nil
}

// PhotoInterval returns the duration between two periodic photos.
func (c *Config) PhotoInterval() time.Duration {
	return time.Duration(c.Capture.PhotoIntervalMs) * time.Millisecond
}

// RecordTime returns the duration of one audio clip.
func (c *Config) RecordTime() time.Duration {
	return time.Duration(c.Capture.RecordTimeS) * time.Second
}

// Cooldown returns the pause after a clip before listening resumes.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Capture.CooldownMs) * time.Millisecond
}

// PollInterval returns the pacing between two idle microphone polls.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Defaults.PollIntervalMs) * time.Millisecond
}

// BytesPerSecond returns the raw PCM data rate of the capture stream.
// Capture is mono, so this is sample_rate * sample_bits / 8.
func (c *Config) BytesPerSecond() int {
	return c.Audio.SampleRate * c.Audio.SampleBits / 8
}

// ClipBytes returns the PCM payload size of one full-length clip.
func (c *Config) ClipBytes() int {
	return c.BytesPerSecond() * c.Capture.RecordTimeS
}

// MaxClipBytes returns the upper bound on a single clip buffer.
func (c *Config) MaxClipBytes() int {
	return c.Defaults.MaxClipMB << 20
}

// MinFreeBytes returns the free-space floor for the storage card.
func (c *Config) MinFreeBytes() int64 {
	return int64(c.Storage.MinFreeMB) << 20
}
