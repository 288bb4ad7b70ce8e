// Package ebitengui runs the console in a window managed by ebiten.
package ebitengui

import (
	"context"
	"image/color"
	"log/slog"
	"sync"

	"github.com/guslan/chip8"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// logicalScale is the size of a console pixel in layout units
const logicalScale = 8

var pausedFace = text.NewGoXFace(basicfont.Face7x13)

var keys = map[rune]ebiten.Key{
	'0': ebiten.Key0, '1': ebiten.Key1, '2': ebiten.Key2, '3': ebiten.Key3, '4': ebiten.Key4,
	'5': ebiten.Key5, '6': ebiten.Key6, '7': ebiten.Key7, '8': ebiten.Key8, '9': ebiten.Key9,
	'a': ebiten.KeyA, 'b': ebiten.KeyB, 'c': ebiten.KeyC, 'd': ebiten.KeyD, 'e': ebiten.KeyE,
	'f': ebiten.KeyF, 'g': ebiten.KeyG, 'h': ebiten.KeyH, 'i': ebiten.KeyI, 'j': ebiten.KeyJ,
	'k': ebiten.KeyK, 'l': ebiten.KeyL, 'm': ebiten.KeyM, 'n': ebiten.KeyN, 'o': ebiten.KeyO,
	'p': ebiten.KeyP, 'q': ebiten.KeyQ, 'r': ebiten.KeyR, 's': ebiten.KeyS, 't': ebiten.KeyT,
	'u': ebiten.KeyU, 'v': ebiten.KeyV, 'w': ebiten.KeyW, 'x': ebiten.KeyX, 'y': ebiten.KeyY,
	'z': ebiten.KeyZ,
}

// Game is an ebiten.Game that shows the console screen and feeds its keyboard.
// Escape quits, F1 pauses and resumes.
type Game struct {
	*chip8.InMemoryKeyboard
	*chip8.DummyBuzzer

	Console *chip8.Console

	settings   chip8.ScreenSettings
	lookup     map[ebiten.Key]byte
	scale      int
	pixelColor color.RGBA
	bgColor    color.RGBA

	screenMu sync.Mutex
	screen   chip8.Screen

	image  *ebiten.Image
	pixels []byte
}

// NewGame builds the frontend around a program. The config must be valid.
func NewGame(config chip8.Config, program []byte) *Game {
	layout, _ := config.KeyboardLayout()
	pixel, _ := chip8.ParseColor(config.Window.PixelColor)
	bg, _ := chip8.ParseColor(config.Window.BackgroundColor)

	g := &Game{
		InMemoryKeyboard: chip8.NewInMemoryKeyboard(),
		DummyBuzzer:      chip8.NewDummyBuzzer(),
		settings:         chip8.SmallScreen,
		lookup:           map[ebiten.Key]byte{},
		scale:            config.Window.Scale,
		pixelColor:       pixel,
		bgColor:          bg,
	}

	for r, k := range chip8.LookupMap(layout) {
		if key, ok := keys[r]; ok {
			g.lookup[key] = k
		} else {
			slog.Warn("Key has no ebiten equivalent", slog.String("key", string(r)))
		}
	}

	mem := chip8.NewMemory()
	mem.LoadProgram(program)
	g.Console = chip8.NewConsole(chip8.NewCpu(mem, g.settings), g, g, g.DummyBuzzer)

	return g
}

// Boot implements chip8.Display.
func (g *Game) Boot() error {
	return nil
}

// Render implements chip8.Display.
func (g *Game) Render(screen chip8.Screen, settings chip8.ScreenSettings) error {
	g.screenMu.Lock()
	g.screen = screen
	g.screenMu.Unlock()

	return nil
}

// Run starts the console loop and blocks in the ebiten loop until the window
// is closed or the console stops.
func (g *Game) Run(ctx context.Context) error {
	if err := g.Console.Boot(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Console.Run(ctx)
		cancel()
	}()

	ebiten.SetWindowSize(g.settings.Width*g.scale, g.settings.Height*g.scale)
	ebiten.SetWindowTitle("chip8")
	ebiten.SetWindowResizable(true)

	go func() {
		<-ctx.Done()
		// the console is gone, make the next Update end the ebiten loop
		g.InMemoryKeyboard.Quit()
	}()

	if err := ebiten.RunGame(g); err != nil {
		g.InMemoryKeyboard.Quit()
		<-errCh
		return err
	}

	g.InMemoryKeyboard.Quit()
	return <-errCh
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		slog.Info("Escape pressed")
		return ebiten.Termination
	}
	if g.InMemoryKeyboard.IsQuitting() {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		if g.Console.IsRunning() {
			g.Console.Pause()
		} else {
			g.Console.Resume()
		}
	}

	state := chip8.KeyboardState{}
	for key, k := range g.lookup {
		state[k] = ebiten.IsKeyPressed(key)
	}
	g.InMemoryKeyboard.Set(state)

	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.image == nil {
		g.image = ebiten.NewImage(g.settings.Width, g.settings.Height)
		g.pixels = make([]byte, g.settings.Pixels()*4)
	}

	g.screenMu.Lock()
	last := g.screen
	g.screenMu.Unlock()

	for i := 0; i < g.settings.Pixels(); i++ {
		c := g.bgColor
		if i < len(last) && last[i] > 0 {
			c = g.pixelColor
		}
		g.pixels[i*4+0] = c.R
		g.pixels[i*4+1] = c.G
		g.pixels[i*4+2] = c.B
		g.pixels[i*4+3] = c.A
	}
	g.image.WritePixels(g.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(logicalScale, logicalScale)
	screen.DrawImage(g.image, op)

	if !g.Console.IsRunning() {
		textOp := &text.DrawOptions{}
		textOp.GeoM.Translate(8, 4)
		textOp.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, "PAUSED", pausedFace, textOp)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.settings.Width * logicalScale, g.settings.Height * logicalScale
}
