package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/guslan/chip8"
	"github.com/guslan/chip8/terminal"
	"github.com/mattn/go-isatty"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML configuration file.")
	debug := flag.Bool("debug", false, "Log debug information to stderr (defaults = false).")
	noTerm := flag.Bool("noterm", false, "Turn off the terminal display of the emulator (defaults = false).")

	flag.Parse()

	// stdout belongs to the display
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	if err := run(flag.Arg(0), *configPath, *noTerm); err != nil {
		log.Fatalln(err)
	}
}

func run(romPath, configPath string, noTerm bool) error {
	config, err := chip8.LoadConfig(configPath)
	if err != nil {
		return err
	}
	layout, _ := config.KeyboardLayout()

	program, err := chip8.ReadProgram(romPath)
	if err != nil {
		return err
	}

	mem := chip8.NewMemory()
	mem.LoadProgram(program)

	var d chip8.Display
	if noTerm || !isatty.IsTerminal(os.Stdout.Fd()) {
		slog.Info("Running without display")
		d = chip8.NewDummyDisplay()
	} else {
		d = terminal.NewDisplay(config.Terminal)
	}

	kb := terminal.NewKeyboard(layout)
	defer kb.Close()

	console := chip8.NewConsole(chip8.NewCpu(mem, chip8.SmallScreen), d, kb, chip8.NewDummyBuzzer())
	if err := console.Boot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return console.Run(ctx)
}
