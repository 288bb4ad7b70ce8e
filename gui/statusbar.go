package gui

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	StatusBarGap      = 5
	StatusBarHeight   = 30
	StatusBarFontSize = 16

	// messages fade out after a while, errors stay
	messageLifetime = 4 * time.Second
)

type level byte

const (
	levelInfo level = iota
	levelSuccess
	levelWarning
	levelError
)

var levelColors = map[level]rl.Color{
	levelInfo:    rl.SkyBlue,
	levelSuccess: rl.Lime,
	levelWarning: rl.Gold,
	levelError:   rl.Red,
}

// statusBar shows the last message at the bottom of the window.
// Only the UI goroutine touches it.
type statusBar struct {
	text    string
	level   level
	shownAt time.Time
}

func (bar *statusBar) show(text string, l level) {
	bar.text = text
	bar.level = l
	bar.shownAt = time.Now()
}

func (bar *statusBar) visible() bool {
	if bar.text == "" {
		return false
	}
	return bar.level == levelError || time.Since(bar.shownAt) < messageLifetime
}

func (bar *statusBar) draw(winW, winH int) {
	top := int32(winH - StatusBarHeight)
	rl.DrawRectangle(0, top, int32(winW), StatusBarHeight, rl.DarkGray)

	if bar.visible() {
		rl.DrawText(bar.text, StatusBarGap, top+StatusBarGap, StatusBarFontSize, levelColors[bar.level])
	}
}
