// Package pointer turns raw press, move and release events on the document
// surface into image resizing, link hover feedback and link activation.
package pointer

import (
	"image"
	"log/slog"

	"bluedoc/internal/editor"
	"bluedoc/pkg/bluedoc"
)

type Cursor int

const (
	CursorText Cursor = iota
	CursorPointer
	// CursorDefault is used by the shell outside the document surface.
	CursorDefault
)

func (c Cursor) String() string {
	switch c {
	case CursorPointer:
		return "pointer"
	case CursorDefault:
		return "default"
	}
	return "text"
}

// Surface is the part of the document view the controller needs. Points are
// in document coordinates.
type Surface interface {
	ImageAt(pt image.Point) (editor.Position, bluedoc.ImageFormat, bool)
	ResizeImage(at editor.Position, f bluedoc.ImageFormat)
	AnchorAt(pt image.Point) string

	DefaultPress(pt image.Point)
	DefaultMove(pt image.Point)
	DefaultRelease(pt image.Point)
}

type Desktop interface {
	SetCursor(c Cursor)
	OpenURL(url string) error
}

// ResizeSession is the state of an image drag.
type ResizeSession struct {
	Anchor         image.Point
	OriginalWidth  int
	OriginalHeight int
	Target         editor.Position
	Format         bluedoc.ImageFormat
}

type Controller struct {
	surface Surface
	desktop Desktop
	log     *slog.Logger

	session *ResizeSession
	cursor  Cursor
}

func New(surface Surface, desktop Desktop, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{surface: surface, desktop: desktop, log: log, cursor: CursorText}
}

// Press starts a resize when pt hits an image. Anything else goes to the
// surface's default handling. A press during a drag whose release was lost
// starts over from the new point.
func (c *Controller) Press(pt image.Point) {
	at, f, ok := c.surface.ImageAt(pt)
	if !ok || !f.IsValid() {
		c.session = nil
		c.surface.DefaultPress(pt)
		return
	}
	c.session = &ResizeSession{
		Anchor:         pt,
		OriginalWidth:  f.Width,
		OriginalHeight: f.Height,
		Target:         at,
		Format:         f,
	}
	c.log.Debug("image resize started", slog.String("source", f.Source), slog.Int("width", f.Width), slog.Int("height", f.Height))
}

func (c *Controller) Move(pt image.Point) {
	if s := c.session; s != nil {
		dx := pt.X - s.Anchor.X
		dy := pt.Y - s.Anchor.Y
		s.Format.Width = max(1, s.OriginalWidth+dx)
		s.Format.Height = max(1, s.OriginalHeight+dy)
		c.surface.ResizeImage(s.Target, s.Format)
	} else {
		c.surface.DefaultMove(pt)
	}
	c.updateCursor(pt)
}

// Release ends a drag without activating links. Outside a drag, a release on
// a link opens it instead of reaching the surface.
func (c *Controller) Release(pt image.Point) {
	if c.session != nil {
		c.log.Debug("image resize finished", slog.Int("width", c.session.Format.Width), slog.Int("height", c.session.Format.Height))
		c.session = nil
		return
	}
	if href := c.surface.AnchorAt(pt); href != "" {
		if err := c.desktop.OpenURL(href); err != nil {
			c.log.Warn("open link failed", slog.String("url", href), slog.Any("err", err))
		}
		return
	}
	c.surface.DefaultRelease(pt)
}

func (c *Controller) Resizing() bool {
	return c.session != nil
}

func (c *Controller) Session() (ResizeSession, bool) {
	if c.session == nil {
		return ResizeSession{}, false
	}
	return *c.session, true
}

func (c *Controller) Cursor() Cursor {
	return c.cursor
}

func (c *Controller) updateCursor(pt image.Point) {
	want := CursorText
	if c.surface.AnchorAt(pt) != "" {
		want = CursorPointer
	}
	c.cursor = want
	c.desktop.SetCursor(want)
}
