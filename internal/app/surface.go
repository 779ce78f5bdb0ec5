package app

import (
	"image"
	"log/slog"

	"bluedoc/internal/content"
	"bluedoc/internal/editor"
	"bluedoc/pkg/bluedoc"
)

// docSurface adapts the laid out document to the pointer controller and the
// content router. Points are document coordinates.
type docSurface struct {
	a *App
}

func (s docSurface) ImageAt(pt image.Point) (editor.Position, bluedoc.ImageFormat, bool) {
	ll, seg, ok := s.a.segmentAt(pt)
	if !ok || !seg.isImage() {
		return editor.Position{}, bluedoc.ImageFormat{}, false
	}
	if !pt.In(imageBox(ll, s.a.segmentX(ll, seg), seg)) {
		return editor.Position{}, bluedoc.ImageFormat{}, false
	}
	at, _, ok := s.a.state.ImageAt(editor.Position{Block: ll.block, Byte: seg.start})
	if !ok {
		return editor.Position{}, bluedoc.ImageFormat{}, false
	}
	// seg.format has zero dimensions resolved to the displayed size.
	return at, seg.format, true
}

func (s docSurface) ResizeImage(at editor.Position, f bluedoc.ImageFormat) {
	if s.a.state.SetImageFormat(at, f) {
		s.a.setStatus("Image %dx%d", f.Width, f.Height)
	}
}

func (s docSurface) AnchorAt(pt image.Point) string {
	_, seg, ok := s.a.segmentAt(pt)
	if !ok {
		return ""
	}
	return seg.attr.Href
}

func (s docSurface) DefaultPress(pt image.Point) {
	st := s.a.state
	pos := s.a.positionAt(pt)
	if s.a.shiftHeld {
		st.EnsureSelectionAnchor()
	} else {
		st.ClearSelection()
		st.EnsureSelectionAnchor()
	}
	st.SetCaret(pos.Block, pos.Byte)
	st.UpdateSelectionFromCaret()
	s.a.dragSelecting = true
}

func (s docSurface) DefaultMove(pt image.Point) {
	if !s.a.dragSelecting {
		return
	}
	pos := s.a.positionAt(pt)
	s.a.state.SetCaret(pos.Block, pos.Byte)
	s.a.state.UpdateSelectionFromCaret()
}

func (s docSurface) DefaultRelease(image.Point) {
	s.a.dragSelecting = false
}

func (s docSurface) AddResource(name string, r bluedoc.Resource) {
	s.a.state.AddResource(name, r)
}

func (s docSurface) InsertImage(f bluedoc.ImageFormat) {
	s.a.state.InsertImage(f)
}

func (s docSurface) InsertHTML(markup string) error {
	return s.a.state.InsertHTML(markup)
}

func (s docSurface) InsertText(text string) error {
	return s.a.state.InsertText(text)
}

// InsertDefault handles payloads no route claims. Only text is understood.
func (s docSurface) InsertDefault(p content.Payload) {
	if p.Text == "" {
		s.a.log.Debug("ignored empty payload")
		return
	}
	if err := s.InsertText(p.Text); err != nil {
		s.a.log.Warn("default insert failed", slog.Any("err", err))
	}
}
