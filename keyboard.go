package chip8

import (
	"errors"
	"sync"
)

// ErrQuit is returned by a Keyboard when the user asked to leave
var ErrQuit = errors.New("quit requested")

const KeyCount = 16

// KeyboardState holds whether each of the 16 hex keys is held
type KeyboardState [KeyCount]bool

func (ks KeyboardState) IsPressed(k byte) bool {
	if k >= KeyCount {
		return false
	}
	return ks[k]
}

// FirstPressed returns the lowest held key
func (ks KeyboardState) FirstPressed() (byte, bool) {
	for k, pressed := range ks {
		if pressed {
			return byte(k), true
		}
	}

	return 0, false
}

// Mask packs the state in 16 bits, key 0 being the most significant one
func (ks KeyboardState) Mask() uint16 {
	var m uint16
	for k, pressed := range ks {
		if pressed {
			m |= 0x8000 >> k
		}
	}

	return m
}

func KeyboardStateFromMask(m uint16) KeyboardState {
	ks := KeyboardState{}
	for k := range ks {
		ks[k] = m&(0x8000>>k) > 0
	}

	return ks
}

// Keyboard is the input backend of the console
type Keyboard interface {
	// Boot initializes the component
	Boot() error
	// Poll updates keys with the current state of the keypad.
	// Any error, ErrQuit included, stops the console.
	Poll(keys *KeyboardState) error
}

// InMemoryKeyboard is a keyboard fed by someone else, usually a UI loop
// running in another goroutine
type InMemoryKeyboard struct {
	mu    sync.Mutex
	state KeyboardState
	quit  bool
}

func NewInMemoryKeyboard() *InMemoryKeyboard {
	return &InMemoryKeyboard{}
}

// Boot implements Keyboard.
func (kb *InMemoryKeyboard) Boot() error {
	return nil
}

// Poll implements Keyboard.
func (kb *InMemoryKeyboard) Poll(keys *KeyboardState) error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if kb.quit {
		return ErrQuit
	}
	*keys = kb.state

	return nil
}

func (kb *InMemoryKeyboard) Get() KeyboardState {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	return kb.state
}

func (kb *InMemoryKeyboard) Set(state KeyboardState) {
	kb.mu.Lock()
	kb.state = state
	kb.mu.Unlock()
}

func (kb *InMemoryKeyboard) Press(k byte) {
	kb.setKey(k, true)
}

func (kb *InMemoryKeyboard) Release(k byte) {
	kb.setKey(k, false)
}

func (kb *InMemoryKeyboard) setKey(k byte, pressed bool) {
	if k >= KeyCount {
		return
	}

	kb.mu.Lock()
	kb.state[k] = pressed
	kb.mu.Unlock()
}

// Quit makes the next Poll stop the console
func (kb *InMemoryKeyboard) Quit() {
	kb.mu.Lock()
	kb.quit = true
	kb.mu.Unlock()
}

func (kb *InMemoryKeyboard) IsQuitting() bool {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	return kb.quit
}

// KeyboardLayout maps every console key (the index) to a host key
type KeyboardLayout [KeyCount]rune

//	1 2 3 C        1 2 3 4
//	4 5 6 D   <-   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
var DefaultKeyboardLayout = KeyboardLayout{
	0x0: 'x',
	0x1: '1', 0x2: '2', 0x3: '3', 0xC: '4',
	0x4: 'q', 0x5: 'w', 0x6: 'e', 0xD: 'r',
	0x7: 'a', 0x8: 's', 0x9: 'd', 0xE: 'f',
	0xA: 'z', 0xB: 'c', 0xF: 'v',
}

// LookupMap inverts the layout: host key to console key
func LookupMap(layout KeyboardLayout) map[rune]byte {
	m := make(map[rune]byte, KeyCount)
	for k, r := range layout {
		m[r] = byte(k)
	}

	return m
}
