package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/guslan/chip8"
	"github.com/mattn/go-colorable"
	"golang.org/x/term"
)

const ESC = 0x1B

// Display draws the screen on an ANSI terminal, two characters per pixel
type Display struct {
	terminal        io.Writer
	fd              int
	OnChar, OffChar string
}

func NewDisplay(config chip8.TerminalConfig) *Display {
	d := NewDisplayWithOutput(colorable.NewColorableStdout(), int(os.Stdout.Fd()))
	d.OnChar = config.OnChar
	d.OffChar = config.OffChar

	return d
}

// NewDisplayWithOutput writes to out. fd is the descriptor checked for the
// terminal size, use -1 to skip the check.
func NewDisplayWithOutput(out io.Writer, fd int) *Display {
	return &Display{
		terminal: out,
		fd:       fd,
		OnChar:   "##",
		OffChar:  "  ",
	}
}

// Boot implements chip8.Display.
func (disp *Display) Boot() error {
	if disp.fd >= 0 && term.IsTerminal(disp.fd) {
		w, h, err := term.GetSize(disp.fd)
		if err != nil {
			return err
		}
		needW := chip8.SmallScreen.Width*len(disp.OnChar) + 1
		needH := chip8.SmallScreen.Height
		if w < needW || h < needH {
			return fmt.Errorf("the terminal is %dx%d, at least %dx%d is needed", w, h, needW, needH)
		}
	}

	_, err := disp.terminal.Write([]byte{
		// Move cursor do start
		ESC, '[', '1', 'H',
		// clear the terminal
		ESC, '[', '0', 'J',
	})

	return err
}

// Render implements chip8.Display.
func (disp *Display) Render(screen chip8.Screen, settings chip8.ScreenSettings) error {
	buff := make([]byte, 0, settings.Pixels()*len(disp.OnChar)+settings.Height*2+8)
	buff = append(buff, ESC, '[', '1', 'H')
	for y := 0; y < settings.Height; y++ {
		for x := 0; x < settings.Width; x++ {
			if screen.At(settings, x, y) > 0 {
				buff = append(buff, disp.OnChar...)
			} else {
				buff = append(buff, disp.OffChar...)
			}
		}
		buff = append(buff, '|', '\r', '\n')
	}

	_, err := disp.terminal.Write(buff)
	return err
}
