package web

import (
	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/guslan/chip8"
)

// Boot implements chip8.Display.
func (server *Server) Boot() error {
	return nil
}

// setWs makes conn the display, replacing any previous one
func (server *Server) setWs(conn *websocket.Conn) error {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	server.socket = conn
	if server.lastFrame != nil {
		return conn.WriteMessage(websocket.BinaryMessage, server.lastFrame)
	}

	return nil
}

func (server *Server) unsetWs(conn *websocket.Conn) {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	if server.socket == conn {
		server.socket = nil
	}
}

// Render implements chip8.Display.
// A client that cannot be written to is dropped, the console keeps running.
func (server *Server) Render(screen chip8.Screen, settings chip8.ScreenSettings) error {
	frame := screen.Pack()

	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	server.lastFrame = frame
	if server.socket == nil {
		return nil
	}

	if err := server.socket.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		slog.Warn("Dropping display client", slog.Any("error", err))
		server.socket.Close()
		server.socket = nil
	}

	return nil
}
