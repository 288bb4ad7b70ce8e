package gui

import (
	"github.com/guslan/chip8"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Boot implements chip8.Display.
func (app *ConsoleApp) Boot() error {
	return nil
}

// Render implements chip8.Display.
// It runs on the console goroutine, drawing happens on the window one.
func (app *ConsoleApp) Render(screen chip8.Screen, settings chip8.ScreenSettings) error {
	app.screenMu.Lock()
	app.screen = screen
	app.screenMu.Unlock()

	return nil
}

// Play implements chip8.Buzzer.
func (app *ConsoleApp) Play() {
}

// Stop implements chip8.Buzzer.
func (app *ConsoleApp) Stop() {
}

func (app *ConsoleApp) lastScreen() chip8.Screen {
	app.screenMu.Lock()
	defer app.screenMu.Unlock()

	return app.screen
}

func (app *ConsoleApp) drawScreen() {
	screen := app.lastScreen()
	settings := app.settings
	size := int32(app.scale)

	for y := 0; y < settings.Height; y++ {
		for x := 0; x < settings.Width; x++ {
			c := app.bgColor
			if len(screen) > 0 && screen.At(settings, x, y) > 0 {
				c = app.pixelColor
			}

			rl.DrawRectangle(
				size*int32(x),
				ScreenTop+size*int32(y),
				size,
				size,
				c)
		}
	}
}
