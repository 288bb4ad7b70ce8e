package chip8

// Screen is a row-major snapshot of the frame buffer, one byte per pixel (0 or 1)
type Screen []byte

// ScreenSettings for the console
// Common display sizes are 64x32 and 128x64.
// Other uncommon sizes are 64x48 and 64x64.
type ScreenSettings struct {
	Width, Height int
}

var SmallScreen = ScreenSettings{
	Width:  64,
	Height: 32,
}

func (s ScreenSettings) Pixels() int {
	return s.Width * s.Height
}

// Pack returns the screen with 8 pixels per byte, most significant bit first
func (screen Screen) Pack() []byte {
	packed := make([]byte, (len(screen)+7)/8)
	for i, p := range screen {
		if p != 0 {
			packed[i/8] |= 0x80 >> (i % 8)
		}
	}

	return packed
}

// At returns the pixel at (x, y) of a screen with the given settings
func (screen Screen) At(settings ScreenSettings, x, y int) byte {
	return screen[y*settings.Width+x]
}

// FrameBuffer is the monochrome display memory of the machine.
// It only changes through Clear and Draw.
type FrameBuffer struct {
	Settings ScreenSettings

	pixels  []byte
	isDirty bool
}

func NewFrameBuffer(settings ScreenSettings) *FrameBuffer {
	return &FrameBuffer{
		Settings: settings,
		pixels:   make([]byte, settings.Pixels()),
		isDirty:  false,
	}
}

// Clear turns every pixel off
func (fb *FrameBuffer) Clear() {
	clear(fb.pixels)
	fb.isDirty = true
}

// Draw XORs the sprite onto the buffer with its top-left corner at (x, y).
// Each sprite byte is a row, most significant bit on the left. Coordinates
// wrap around both edges.
// Returns whether a lit pixel was turned off.
func (fb *FrameBuffer) Draw(x, y int, sprite []byte) bool {
	collision := false
	w, h := fb.Settings.Width, fb.Settings.Height

	for j, row := range sprite {
		yj := (y + j) % h
		for i := 0; i < 8; i++ {
			if row&(0x80>>i) == 0 {
				continue
			}

			t := yj*w + (x+i)%w
			if fb.pixels[t] == 1 {
				collision = true
			}
			fb.pixels[t] ^= 1
		}
	}

	fb.isDirty = true

	return collision
}

func (fb *FrameBuffer) Pixel(x, y int) byte {
	return fb.pixels[y*fb.Settings.Width+x]
}

// IsDirty reports whether the buffer changed since it was last presented
func (fb *FrameBuffer) IsDirty() bool {
	return fb.isDirty
}

func (fb *FrameBuffer) MarkPresented() {
	fb.isDirty = false
}

// Snapshot copies the current pixels
func (fb *FrameBuffer) Snapshot() Screen {
	s := make(Screen, len(fb.pixels))
	copy(s, fb.pixels)

	return s
}
