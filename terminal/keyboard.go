package terminal

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/guslan/chip8"
	"github.com/pkg/term"
)

// HoldTime is how long a key counts as held after the terminal sent it.
// Terminals do not report key releases.
const HoldTime = 150 * time.Millisecond

const (
	ctrlC = 0x03
	esc   = 0x1B
)

// Keyboard reads the controlling terminal in raw mode.
// Escape or Ctrl+C quits.
type Keyboard struct {
	Device string

	lookup map[rune]byte

	mu        sync.Mutex
	pressedAt [chip8.KeyCount]time.Time
	quit      bool
	readErr   error

	tty  *term.Term
	done chan struct{}

	now func() time.Time
}

func NewKeyboard(layout chip8.KeyboardLayout) *Keyboard {
	return &Keyboard{
		Device: "/dev/tty",
		lookup: chip8.LookupMap(layout),
		done:   make(chan struct{}),
		now:    time.Now,
	}
}

// Boot implements chip8.Keyboard.
func (kb *Keyboard) Boot() error {
	tty, err := term.Open(kb.Device, term.RawMode, term.ReadTimeout(100*time.Millisecond))
	if err != nil {
		return err
	}
	kb.tty = tty

	go kb.read()

	return nil
}

func (kb *Keyboard) read() {
	defer close(kb.done)

	buf := make([]byte, 16)
	for !kb.isQuitting() {
		n, err := kb.tty.Read(buf)
		// with a read timeout an idle terminal reads as io.EOF
		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			kb.mu.Lock()
			if !kb.quit {
				kb.readErr = err
			}
			kb.mu.Unlock()
			return
		}

		kb.feed(buf[:n])
	}
}

func (kb *Keyboard) isQuitting() bool {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	return kb.quit
}

// feed handles the bytes of a single read
func (kb *Keyboard) feed(input []byte) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if len(input) == 0 {
		return
	}

	// a lone ESC is the escape key, longer reads are escape sequences
	if len(input) == 1 && input[0] == esc {
		kb.quit = true
		return
	}
	if input[0] == esc {
		return
	}

	now := kb.now()
	for _, b := range input {
		if b == ctrlC {
			kb.quit = true
			return
		}
		if k, ok := kb.lookup[toLower(rune(b))]; ok {
			kb.pressedAt[k] = now
		}
	}
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}

// Poll implements chip8.Keyboard.
func (kb *Keyboard) Poll(keys *chip8.KeyboardState) error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if kb.quit {
		return chip8.ErrQuit
	}
	if kb.readErr != nil {
		return kb.readErr
	}

	now := kb.now()
	for k, at := range kb.pressedAt {
		keys[k] = !at.IsZero() && now.Sub(at) < HoldTime
	}

	return nil
}

// Close restores the terminal
func (kb *Keyboard) Close() error {
	if kb.tty == nil {
		return nil
	}

	kb.mu.Lock()
	kb.quit = true
	kb.mu.Unlock()

	select {
	case <-kb.done:
	case <-time.After(time.Second):
		slog.Warn("Terminal reader did not stop")
	}

	restoreErr := kb.tty.Restore()
	closeErr := kb.tty.Close()
	kb.tty = nil

	return errors.Join(restoreErr, closeErr)
}
