package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/guslan/chip8"
	"github.com/guslan/chip8/ebitengui"
	"github.com/guslan/chip8/gui"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML configuration file.")
	debug := flag.Bool("debug", false, "Show debug information for the console (defaults = false).")
	backend := flag.String("backend", "raylib", "Window backend, raylib or ebiten (defaults = raylib).")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	config, err := chip8.LoadConfig(*configPath)
	if err != nil {
		log.Fatalln(err)
	}

	switch *backend {
	case "raylib":
		app := gui.NewConsoleApp(config)
		if flag.NArg() > 0 {
			app.Load(flag.Arg(0))
		}
		err = app.Run(context.Background())

	case "ebiten":
		if flag.NArg() < 1 {
			log.Fatalln("must provide the path to a rom as an argument")
		}
		var program []byte
		program, err = chip8.ReadProgram(flag.Arg(0))
		if err != nil {
			log.Fatalln(err)
		}
		err = ebitengui.NewGame(config, program).Run(context.Background())

	default:
		log.Fatalf("unknown backend %q\n", *backend)
	}

	if err != nil {
		log.Fatalln(err)
	}
}
