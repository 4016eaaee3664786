package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cjeanneret/TrapGo/internal/config"
	"github.com/cjeanneret/TrapGo/internal/debug"
	"github.com/cjeanneret/TrapGo/internal/hw/camera"
	"github.com/cjeanneret/TrapGo/internal/hw/gpio"
	"github.com/cjeanneret/TrapGo/internal/hw/led"
	"github.com/cjeanneret/TrapGo/internal/hw/mic"
	"github.com/cjeanneret/TrapGo/internal/logic/acquire"
	"github.com/cjeanneret/TrapGo/internal/storage"
)

func main() {
	// CLI flags
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	debugLevel := flag.Int("debug_level", -1, "override debug level (0-4); -1 uses the config value")
	soundThreshold := flag.Int("sound_threshold", 0, "override trigger threshold (1-32767); 0 uses the config value")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("config path rejected: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate CLI overrides (only non-default values are applied; defaults mean "use config")
	if err := validateCLIOverrides(*debugLevel, *soundThreshold); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyOverrides(cfg, *debugLevel, *soundThreshold)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	// Initialize storage first: without a writable card nothing else matters
	debug.Step(1, "Initializing storage")
	store, err := storage.NewDirStore(cfg.Storage.Root, cfg.MinFreeBytes())
	if err != nil {
		log.Fatalf("init storage failed: %v", err)
	}
	debug.Value("Storage root", cfg.Storage.Root)
	debug.Value("Free space floor (MB)", cfg.Storage.MinFreeMB)

	// Initialize camera
	debug.Step(2, "Initializing camera")
	debug.PrintStruct("Camera config", cfg.Camera)
	cam, err := newCameraFromConfig(cfg)
	if err != nil {
		log.Fatalf("init camera failed: %v", err)
	}
	defer func() {
		if err := cam.Close(); err != nil {
			log.Printf("closing camera failed: %v", err)
		}
	}()
	debug.Value("Camera type", cfg.Camera.Type)
	debug.Value("Camera device", cfg.Camera.Device)

	// Initialize microphone
	debug.Step(3, "Initializing microphone")
	debug.PrintStruct("Audio config", cfg.Audio)
	mike, err := newMicFromConfig(cfg)
	if err != nil {
		log.Fatalf("init microphone failed: %v", err)
	}
	defer func() {
		if err := mike.Close(); err != nil {
			log.Printf("closing microphone failed: %v", err)
		}
	}()
	debug.Value("Audio source", cfg.Audio.Source)
	debug.Value("Sample rate", cfg.Audio.SampleRate)
	debug.Value("Sound threshold", cfg.Capture.SoundThreshold)
	debug.Value("Clip size (bytes)", cfg.ClipBytes())

	// Initialize status LED (optional; StatusPin 0 runs without one)
	var lamp *led.StatusLED
	if cfg.LED.StatusPin > 0 {
		debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
		debug.Step(4, "Initializing status LED")
		gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
		if err != nil {
			log.Fatalf("init GPIO failed: %v", err)
		}
		defer func() {
			if err := gpioDriver.Close(); err != nil {
				log.Printf("closing GPIO driver failed: %v", err)
			}
		}()
		lamp = led.NewStatusLED(gpioDriver, led.Config{Pin: cfg.LED.StatusPin})
	}

	loop := acquire.NewLoop(cam, mike, store, lamp, acquire.Params{
		PhotoInterval: cfg.PhotoInterval(),
		Threshold:     cfg.Capture.SoundThreshold,
		RecordTime:    cfg.RecordTime(),
		Cooldown:      cfg.Cooldown(),
		Gain:          cfg.Capture.VolumeGain,
		SampleRate:    cfg.Audio.SampleRate,
		SampleBits:    cfg.Audio.SampleBits,
		PollInterval:  cfg.PollInterval(),
		MaxClipBytes:  cfg.MaxClipBytes(),
	})

	debug.Section("Arming Trap")
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(ctx) })
	g.Go(func() error { return lamp.Heartbeat(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lamp.Fault()
		log.Fatalf("trap loop failed: %v", err)
	}
	debug.Section("Shutdown Complete")
}

// validateCLIOverrides checks that non-default CLI overrides are within
// valid ranges. Default values are ignored (they mean "use config").
func validateCLIOverrides(debugLevel, threshold int) error {
	if debugLevel != -1 {
		if debugLevel < 0 || debugLevel > 4 {
			return fmt.Errorf("debug_level must be between 0 and 4, got %d", debugLevel)
		}
	}
	if threshold != 0 {
		if threshold < 1 || threshold > 32767 {
			return fmt.Errorf("sound_threshold must be between 1 and 32767, got %d", threshold)
		}
	}
	return nil
}

// applyOverrides mutates cfg with overrides. Only non-default values are applied.
func applyOverrides(cfg *config.Config, debugLevel, threshold int) {
	if debugLevel >= 0 {
		cfg.Defaults.DebugLevel = debugLevel
	}
	if threshold > 0 {
		cfg.Capture.SoundThreshold = threshold
	}
}

// newCameraFromConfig selects a camera implementation based on configuration.
func newCameraFromConfig(cfg *config.Config) (camera.Source, error) {
	switch cfg.Camera.Type {
	case "v4l2":
		return camera.NewV4L2(cfg.Camera.Device, cfg.Camera.WidthPx, cfg.Camera.HeightPx)
	case "stilldir":
		return camera.NewStillDir(cfg.Camera.Device)
	default:
		return nil, fmt.Errorf("unsupported camera type: %s", cfg.Camera.Type)
	}
}

// newMicFromConfig selects a microphone implementation based on configuration.
func newMicFromConfig(cfg *config.Config) (mic.Source, error) {
	switch cfg.Audio.Source {
	case "alsa":
		return mic.NewALSA(cfg.Audio.Device, cfg.Audio.SampleRate)
	case "wavfile":
		return mic.NewWavFile(cfg.Audio.Device)
	default:
		return nil, fmt.Errorf("unsupported audio source: %s", cfg.Audio.Source)
	}
}
