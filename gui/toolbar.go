package gui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	ToolbarGap       = 5
	ToolbarBtnWidth  = 80
	ToolbarBtnHeight = 40
	ToolbarHeight    = ToolbarBtnHeight + 2*ToolbarGap

	ScreenTop = ToolbarHeight + 1
)

type toolbarButton struct {
	icon   int32
	label  string
	action func()
}

func (app *ConsoleApp) toolbarButtons() []toolbarButton {
	return []toolbarButton{
		{gui.ICON_PLAYER_PLAY, "Start", app.start},
		{gui.ICON_PLAYER_STOP, "Stop", app.stop},
		{gui.ICON_ROTATE, "Reset", app.reset},
	}
}

func toolbarSlot(i int) rl.Rectangle {
	x := float32(ToolbarGap + i*(ToolbarBtnWidth+ToolbarGap))
	return rl.NewRectangle(x, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight)
}

// drawToolbar draws the buttons and runs the action of the clicked one
func (app *ConsoleApp) drawToolbar() {
	rl.DrawRectangle(0, 0, int32(app.winW), ToolbarHeight, rl.Gray)

	for i, btn := range app.toolbar {
		if gui.Button(toolbarSlot(i), gui.IconText(btn.icon, btn.label)) {
			btn.action()
		}
	}

	status := "Stopped"
	if app.Console.IsRunning() {
		status = "Running"
	}
	gui.Label(toolbarSlot(len(app.toolbar)), status)
}
