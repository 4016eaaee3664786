package led

import (
	"context"
	"sync"
	"time"

	"github.com/cjeanneret/TrapGo/internal/debug"
	"github.com/cjeanneret/TrapGo/internal/hw/gpio"
)

// Indicator is the capture-facing side of the status LED.
// A nil *StatusLED satisfies it with no-ops, so callers never have to
// check whether an LED is actually wired.
type Indicator interface {
	CaptureFlash()
}

// Config holds the wiring and timing of the status LED.
type Config struct {
	Pin         int           // BCM pin driving the LED (through a resistor)
	FlashTime   time.Duration // pulse length of a capture flash. 0 = 100ms.
	BlinkPeriod time.Duration // heartbeat period while armed. 0 = 2s.
}

// StatusLED drives a single LED that shows what the trap is doing:
// a short blink every few seconds while armed, a flash per capture,
// and solid on when the device hit an unrecoverable fault.
type StatusLED struct {
	gpio gpio.Driver
	cfg  Config

	mu      sync.Mutex
	faulted bool
}

// NewStatusLED configures the pin as output and turns the LED off.
func NewStatusLED(g gpio.Driver, cfg Config) *StatusLED {
	_ = g.SetupPin(cfg.Pin)
	_ = g.WritePin(cfg.Pin, gpio.Low)

	if cfg.FlashTime <= 0 {
		cfg.FlashTime = 100 * time.Millisecond
	}
	if cfg.BlinkPeriod <= 0 {
		cfg.BlinkPeriod = 2 * time.Second
	}

	return &StatusLED{gpio: g, cfg: cfg}
}

// CaptureFlash pulses the LED once to acknowledge a capture.
// It is a no-op on a nil LED or after a fault was latched.
func (l *StatusLED) CaptureFlash() {
	if l == nil || l.isFaulted() {
		return
	}
	_ = l.gpio.WritePin(l.cfg.Pin, gpio.High)
	time.Sleep(l.cfg.FlashTime)
	_ = l.gpio.WritePin(l.cfg.Pin, gpio.Low)
}

// Fault latches the LED solid on. The heartbeat and capture flashes
// stop so the steady light is unambiguous in the field.
func (l *StatusLED) Fault() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.faulted = true
	l.mu.Unlock()
	_ = l.gpio.WritePin(l.cfg.Pin, gpio.High)
	debug.Info("Status LED latched solid (fault)")
}

// Heartbeat blinks the LED every BlinkPeriod until ctx is canceled.
// It blocks, so run it in its own goroutine. The LED is switched off
// on exit unless a fault was latched.
func (l *StatusLED) Heartbeat(ctx context.Context) error {
	if l == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(l.cfg.BlinkPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if !l.isFaulted() {
				_ = l.gpio.WritePin(l.cfg.Pin, gpio.Low)
			}
			return ctx.Err()
		case <-ticker.C:
			if l.isFaulted() {
				continue
			}
			_ = l.gpio.WritePin(l.cfg.Pin, gpio.High)
			time.Sleep(l.cfg.FlashTime)
			_ = l.gpio.WritePin(l.cfg.Pin, gpio.Low)
		}
	}
}

func (l *StatusLED) isFaulted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.faulted
}
