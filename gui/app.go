// Package gui runs the console in a raylib window with a small toolbar.
// Programs are loaded from the command line or by dropping a file on the window.
package gui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/chip8"
)

// ScanCode is a raylib key code
type ScanCode = int32

const (
	PauseKey ScanCode = rl.KeyF1
	ResetKey ScanCode = rl.KeyF5
)

type ConsoleApp struct {
	*chip8.InMemoryKeyboard

	Console *chip8.Console

	settings chip8.ScreenSettings
	// last rendered screen
	screen   chip8.Screen
	screenMu sync.Mutex

	keys map[ScanCode]byte

	scale               int
	pixelColor, bgColor rl.Color
	winW, winH          int

	toolbar   []toolbarButton
	statusBar statusBar

	programPath string
}

// NewConsoleApp builds the window frontend. The config must be valid.
// The console starts paused until a program is loaded.
func NewConsoleApp(config chip8.Config) *ConsoleApp {
	layout, _ := config.KeyboardLayout()
	pixel, _ := chip8.ParseColor(config.Window.PixelColor)
	bg, _ := chip8.ParseColor(config.Window.BackgroundColor)

	app := &ConsoleApp{
		InMemoryKeyboard: chip8.NewInMemoryKeyboard(),
		settings:         chip8.SmallScreen,
		keys:             keyCodes(layout),
		scale:            config.Window.Scale,
		pixelColor:       rl.NewColor(pixel.R, pixel.G, pixel.B, pixel.A),
		bgColor:          rl.NewColor(bg.R, bg.G, bg.B, bg.A),
	}
	app.winW = app.settings.Width * app.scale
	app.winH = ScreenTop + app.settings.Height*app.scale + StatusBarHeight
	app.toolbar = app.toolbarButtons()

	app.Console = chip8.NewConsole(chip8.NewCpu(chip8.NewMemory(), app.settings), app, app, app)
	app.Console.Pause()

	return app
}

func keyCodes(layout chip8.KeyboardLayout) map[ScanCode]byte {
	codes := make(map[ScanCode]byte, chip8.KeyCount)
	for r, k := range chip8.LookupMap(layout) {
		switch {
		case r >= 'a' && r <= 'z':
			codes[rl.KeyA+ScanCode(r-'a')] = k
		case r >= '0' && r <= '9':
			codes[rl.KeyZero+ScanCode(r-'0')] = k
		default:
			slog.Warn("Key has no raylib equivalent", slog.String("key", string(r)))
		}
	}

	return codes
}

// Run starts the console loop and the UI loop. It returns when the window is
// closed or the console stops. It must be called from the main goroutine.
func (app *ConsoleApp) Run(ctx context.Context) error {
	if err := app.Console.Boot(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Console.Run(ctx)
	}()

	slog.Info("Opening window", slog.Int("width", app.winW), slog.Int("height", app.winH))
	rl.InitWindow(int32(app.winW), int32(app.winH), "chip8")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		select {
		case err := <-errCh:
			return err
		default:
		}

		app.handleDroppedFiles()
		app.handleShortcuts()
		app.pollKeys()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		app.drawScreen()
		app.drawToolbar()
		app.statusBar.draw(app.winW, app.winH)
		rl.EndDrawing()
	}

	app.InMemoryKeyboard.Quit()

	return <-errCh
}

// Load reads the program at path and starts running it
func (app *ConsoleApp) Load(path string) {
	program, err := chip8.ReadProgram(path)
	if err != nil {
		slog.Error("Error loading program", slog.String("path", path), slog.Any("error", err))
		app.statusBar.show(err.Error(), levelError)
		return
	}

	app.Console.RequestLoad(program)
	app.Console.Resume()

	app.programPath = path
	slog.Info("Program loaded", slog.String("path", path))
	app.statusBar.show(fmt.Sprintf("Running %s", path), levelInfo)
}

func (app *ConsoleApp) handleDroppedFiles() {
	if !rl.IsFileDropped() {
		return
	}

	files := rl.LoadDroppedFiles()
	defer rl.UnloadDroppedFiles()

	if len(files) > 1 {
		app.statusBar.show("Only the first dropped file is loaded", levelWarning)
	}
	app.Load(files[0])
}

func (app *ConsoleApp) handleShortcuts() {
	if rl.IsKeyPressed(PauseKey) {
		app.togglePause()
	}
	if rl.IsKeyPressed(ResetKey) {
		app.reset()
	}
}

func (app *ConsoleApp) pollKeys() {
	state := chip8.KeyboardState{}
	for code, k := range app.keys {
		state[k] = rl.IsKeyDown(code)
	}
	app.InMemoryKeyboard.Set(state)
}

func (app *ConsoleApp) start() {
	if app.programPath == "" {
		app.statusBar.show("Drop a program on the window first", levelError)
		return
	}
	app.Console.Resume()
	app.statusBar.show("Running", levelSuccess)
}

func (app *ConsoleApp) stop() {
	app.Console.Pause()
	app.statusBar.show("Paused", levelInfo)
}

func (app *ConsoleApp) togglePause() {
	if app.Console.IsRunning() {
		app.stop()
	} else {
		app.start()
	}
}

func (app *ConsoleApp) reset() {
	app.Console.RequestReset()
	app.statusBar.show("Back to the beginning", levelInfo)
}
