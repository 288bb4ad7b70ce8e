package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/chip8"
)

//go:embed static
var static embed.FS

type Server struct {
	*chip8.InMemoryKeyboard
	*chip8.DummyBuzzer

	Console *chip8.Console

	settings chip8.ScreenSettings

	socket    *websocket.Conn
	lastFrame []byte
	wsMutex   sync.RWMutex

	mux *http.ServeMux
}

type ServerConfig struct {
	ScreenSettings chip8.ScreenSettings
}
type ServerConfigCb func(config *ServerConfig)

var upgrader = websocket.Upgrader{} // use default options

func NewServer(mem *chip8.Memory, configs ...ServerConfigCb) *Server {
	config := &ServerConfig{
		ScreenSettings: chip8.SmallScreen,
	}
	for _, cb := range configs {
		cb(config)
	}

	s := &Server{
		InMemoryKeyboard: chip8.NewInMemoryKeyboard(),
		DummyBuzzer:      chip8.NewDummyBuzzer(),

		settings: config.ScreenSettings,
		wsMutex:  sync.RWMutex{},
	}

	s.Console = chip8.NewConsole(chip8.NewCpu(mem, config.ScreenSettings), s, s, s.DummyBuzzer)
	s.mux = s.routes()

	return s
}

// Handler exposes the routes of the server
func (server *Server) Handler() http.Handler {
	return server.mux
}

func (server *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	files, _ := fs.Sub(static, "static")
	mux.Handle("/", http.FileServer(http.FS(files)))

	mux.HandleFunc("/start", server.control("Starting", server.Console.Resume))
	mux.HandleFunc("/stop", server.control("Stopping", server.Console.Pause))
	mux.HandleFunc("/reset", server.control("Resetting", server.Console.RequestReset))
	mux.HandleFunc("/quit", server.control("Quitting", server.InMemoryKeyboard.Quit))
	mux.HandleFunc("/load", server.handleLoad)
	mux.HandleFunc("/display", server.handleDisplay)
	mux.HandleFunc("/keys", server.handleKeys)

	return mux
}

func (server *Server) control(msg string, action func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

		w.Header().Set("Cache-Control", "no-cache")

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		slog.Info(msg)
		action()
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleLoad replaces the running program with the request body
func (server *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	program, err := io.ReadAll(http.MaxBytesReader(w, r.Body, chip8.MaxProgramSize))
	if err != nil {
		http.Error(w, "the program does not fit into memory", http.StatusRequestEntityTooLarge)
		return
	}
	if len(program) == 0 {
		http.Error(w, chip8.ErrEmptyProgram.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("Loading program", slog.Int("size", len(program)))
	server.LoadProgram(program)
	server.Console.Resume()
	w.WriteHeader(http.StatusNoContent)
}

func (server *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Upgrading display connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("Connecting to display")
	if err := server.setWs(conn); err != nil {
		slog.Error("Sending first frame", slog.Any("error", err))
		return
	}
	defer server.unsetWs(conn)

	// The client never talks, reading only detects when it leaves
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			slog.Info("Disconnecting from display")
			return
		}
	}
}

func (server *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Upgrading keys connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("Connecting keyboard")
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			slog.Info("Disconnecting keyboard")
			server.InMemoryKeyboard.Set(chip8.KeyboardState{})
			return
		}
		if mt != websocket.BinaryMessage || len(msg) != 2 {
			slog.Warn("Ignoring malformed key message", slog.Int("length", len(msg)))
			continue
		}

		server.InMemoryKeyboard.Set(chip8.KeyboardStateFromMask(uint16(msg[0])<<8 | uint16(msg[1])))
	}
}

// Listen serves HTTP on port while the console runs. It returns when the
// console stops or the context is done.
func (server *Server) Listen(ctx context.Context, port int) error {
	if err := server.Console.Boot(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.mux,
	}

	consoleErr := make(chan error, 1)
	go func() {
		consoleErr <- server.Console.Run(ctx)
		cancel()
	}()

	httpErr := make(chan error, 1)
	go func() {
		slog.Info("Listening on port", slog.Int("port", port))
		httpErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-httpErr:
		cancel()
		<-consoleErr
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Shutting down the server", slog.Any("error", err))
	}

	return <-consoleErr
}

// LoadProgram replaces the running program
func (server *Server) LoadProgram(program []byte) {
	server.Console.RequestLoad(program)
}
