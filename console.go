package chip8

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

var ErrConsoleIsNotBooted = errors.New("the console has not been booted properly")

// ExecutionDelay is the pause after every cycle, which gives roughly 500 instructions per second
const ExecutionDelay = 2 * time.Millisecond

// Console drives a Cpu and connects it to its peripherals.
// All the machine state is owned by the goroutine calling Tick or Run;
// the other methods are safe to call from anywhere.
type Console struct {
	Cpu *Cpu

	Display  Display
	Keyboard Keyboard
	Buzzer   Buzzer

	cycles uint
	frames uint

	isBooted       bool
	isPaused       atomic.Bool
	resetRequested atomic.Bool
	pendingProgram atomic.Pointer[[]byte]
}

func NewConsole(cpu *Cpu, display Display, keyboard Keyboard, buzzer Buzzer) *Console {
	return &Console{
		Cpu: cpu,

		Display:  display,
		Keyboard: keyboard,
		Buzzer:   buzzer,
	}
}

func (c *Console) IsRunning() bool {
	return !c.isPaused.Load()
}

// Pause stops the execution of instructions; input is still polled
func (c *Console) Pause() {
	c.isPaused.Store(true)
}

func (c *Console) Resume() {
	c.isPaused.Store(false)
}

// RequestReset resets the machine at the beginning of the next tick
func (c *Console) RequestReset() {
	c.resetRequested.Store(true)
}

// RequestLoad replaces the program at the beginning of the next tick
func (c *Console) RequestLoad(program []byte) {
	c.pendingProgram.Store(&program)
}

// Cycles is the number of instructions executed
func (c *Console) Cycles() uint {
	return c.cycles
}

// Frames is the number of times the display was rendered
func (c *Console) Frames() uint {
	return c.frames
}

// Boot initializes all the components
// If the console was already booted, this method is a noop
func (c *Console) Boot() error {
	if c.isBooted {
		return nil
	}

	if err := c.Display.Boot(); err != nil {
		return err
	}

	if err := c.Keyboard.Boot(); err != nil {
		return err
	}

	if err := c.Buzzer.Boot(); err != nil {
		return err
	}

	c.isBooted = true

	return nil
}

// Run ticks until the keyboard asks to quit, the context is done or a
// peripheral fails. Quitting is not an error.
func (c *Console) Run(ctx context.Context) error {
	if !c.isBooted {
		return ErrConsoleIsNotBooted
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		done, err := c.Tick()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		time.Sleep(ExecutionDelay)
	}
}

// Tick runs a single cycle: poll input, execute one instruction, present
// the frame buffer if it changed and decrement the timers.
// Returns true when the keyboard asked to quit.
func (c *Console) Tick() (bool, error) {
	if program := c.pendingProgram.Swap(nil); program != nil {
		n := c.Cpu.LoadProgram(*program)
		c.resetRequested.Store(false)
		c.Buzzer.Stop()
		slog.Info("Program loaded", slog.Int("size", len(*program)), slog.Int("loaded", n))
	}

	if c.resetRequested.Swap(false) {
		c.Cpu.Reset()
		c.Buzzer.Stop()
		slog.Info("Console reset")
	}

	if err := c.Keyboard.Poll(&c.Cpu.Keys); err != nil {
		if errors.Is(err, ErrQuit) {
			slog.Info("Quit requested")
			return true, nil
		}
		slog.Error("Keyboard failed", slog.Any("error", err))
		return true, nil
	}

	if c.isPaused.Load() {
		return false, nil
	}

	if err := c.Cpu.Step(); err != nil {
		var unknown ErrOpCodeUnknown
		if !errors.As(err, &unknown) {
			return false, err
		}
		slog.Warn("Unimplemented opcode",
			slog.String("opcode", fmt.Sprintf("%04X", unknown.OpCode)),
			slog.String("pc", fmt.Sprintf("%03X", unknown.Pc)))
	}
	c.cycles++

	if err := c.present(); err != nil {
		return false, err
	}

	c.Cpu.TickTimers()
	if c.Cpu.IsSoundTimerActive() {
		c.Buzzer.Play()
	} else {
		c.Buzzer.Stop()
	}

	return false, nil
}

func (c *Console) present() error {
	fb := c.Cpu.Screen
	if !fb.IsDirty() {
		return nil
	}

	if err := c.Display.Render(fb.Snapshot(), fb.Settings); err != nil {
		return err
	}
	fb.MarkPresented()
	c.frames++

	return nil
}
