package chip8

import "log/slog"

// Buzzer follows the sound timer: Play is called on every tick the timer is
// non-zero and Stop on every other tick. Nothing in this module synthesizes audio.
type Buzzer interface {
	// Boot initializes the component
	Boot() error
	Play()
	Stop()
}

// DummyBuzzer remembers whether it is sounding and counts the beeps
type DummyBuzzer struct {
	IsPlaying bool
	// Beeps is the number of times the buzzer went from silent to sounding
	Beeps int
}

func NewDummyBuzzer() *DummyBuzzer {
	return &DummyBuzzer{}
}

// Boot implements Buzzer.
func (b *DummyBuzzer) Boot() error {
	return nil
}

// Play implements Buzzer.
func (b *DummyBuzzer) Play() {
	if !b.IsPlaying {
		b.Beeps++
		slog.Debug("Beep", slog.Int("count", b.Beeps))
	}
	b.IsPlaying = true
}

// Stop implements Buzzer.
func (b *DummyBuzzer) Stop() {
	b.IsPlaying = false
}
