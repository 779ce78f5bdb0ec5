package platform

import (
	"log/slog"
	"os/exec"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"bluedoc/internal/pointer"
)

type WindowConfig struct {
	Title       string
	WidthPx     int
	HeightPx    int
	MinWidthPx  int
	MinHeightPx int
}

// Apply sets the ebiten window properties from cfg.
func (cfg WindowConfig) Apply() {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.WidthPx, cfg.HeightPx)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.MinWidthPx > 0 || cfg.MinHeightPx > 0 {
		ebiten.SetWindowSizeLimits(cfg.MinWidthPx, cfg.MinHeightPx, -1, -1)
	}
}

// Desktop bundles the operating system services the editor uses: clipboard,
// native dialogs, the mouse cursor and the URL opener.
type Desktop struct {
	log *slog.Logger

	clipOnce sync.Once
	clipErr  error

	goos  string
	start func(*exec.Cmd) error
	wait  func(*exec.Cmd) error
	shape func(ebiten.CursorShapeType)
}

func NewDesktop(log *slog.Logger) *Desktop {
	if log == nil {
		log = slog.Default()
	}
	return &Desktop{
		log:   log,
		goos:  currentOS,
		start: (*exec.Cmd).Start,
		wait:  (*exec.Cmd).Wait,
		shape: ebiten.SetCursorShape,
	}
}

func (d *Desktop) SetCursor(c pointer.Cursor) {
	d.shape(CursorShape(c))
}

func CursorShape(c pointer.Cursor) ebiten.CursorShapeType {
	switch c {
	case pointer.CursorPointer:
		return ebiten.CursorShapePointer
	case pointer.CursorDefault:
		return ebiten.CursorShapeDefault
	}
	return ebiten.CursorShapeText
}
