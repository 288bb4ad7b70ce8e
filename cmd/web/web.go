package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/guslan/chip8"
	"github.com/guslan/chip8/web"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML configuration file.")
	port := flag.Int("port", 0, "The port of the server (defaults to the configured one, 9999)")
	debug := flag.Bool("debug", false, "Log debug information (defaults = false).")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	config, err := chip8.LoadConfig(*configPath, func(config *chip8.Config) {
		if *port != 0 {
			config.Web.Port = *port
		}
	})
	if err != nil {
		log.Fatalln(err)
	}

	program, err := chip8.ReadProgram(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	mem := chip8.NewMemory()
	mem.LoadProgram(program)
	server := web.NewServer(mem)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := server.Listen(ctx, config.Web.Port); err != nil {
		log.Fatalln(err)
	}
}
