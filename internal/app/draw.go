package app

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"

	"bluedoc/internal/editor"
	"bluedoc/internal/render"
	"bluedoc/internal/ui"
)

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil {
		a.frameBuffer = render.NewFrameBuffer(w, h)
	}
	if a.frameBuffer.Resize(w, h) || a.canvas == nil {
		if a.canvas != nil {
			a.canvas.Deallocate()
		}
		a.canvas = ebiten.NewImage(w, h)
	}

	a.arrange(w, h)
	ui.DrawShell(a.frameBuffer, a.theme, a.layout)
	a.layoutChrome()
	a.paintSelection()
	a.paintCaret()
	a.paintScrollbars()

	a.canvas.WritePixels(a.frameBuffer.Pixels())
	screen.DrawImage(a.canvas, nil)

	a.drawChromeLabels(screen)
	a.drawDocument(screen)
	a.drawStatus(screen)
	a.drawSizeMenu(screen)
}

// docToScreen maps a document rectangle to screen space.
func (a *App) docToScreen(r image.Rectangle) image.Rectangle {
	return r.Add(a.contentRect.Min).Sub(image.Pt(int(a.scroll.x), int(a.scroll.y)))
}

func (a *App) paintSelection() {
	start, end, ok := a.state.SelectionRange()
	if !ok {
		return
	}
	for _, ll := range a.lines {
		if ll.block < start.Block || ll.block > end.Block {
			continue
		}
		from, to := ll.start, ll.end
		if ll.block == start.Block {
			from = max(from, start.Byte)
		}
		if ll.block == end.Block {
			to = min(to, end.Byte)
		}
		if to < from || (to == from && (ll.block == end.Block || !ll.last)) {
			continue
		}
		x0 := ll.x + lineAdvance(ll, from)
		x1 := ll.x + lineAdvance(ll, to)
		// A selection that runs past the end of a block marks the line break.
		if ll.last && ll.block < end.Block {
			x1 = max(x1, x0+4)
		}
		r := a.docToScreen(image.Rect(x0, ll.y+1, x1, ll.y+ll.height-1))
		a.frameBuffer.FillRectIn(r, a.contentRect, a.theme.Selection)
	}
}

func (a *App) paintCaret() {
	if a.state.HasSelection() || a.pointer.Resizing() || (a.frameTick/30)%2 == 1 {
		return
	}
	ll, ok := a.lineForCaret()
	if !ok {
		return
	}
	x := ll.x + lineAdvance(ll, a.state.CaretByte)
	r := a.docToScreen(image.Rect(x, ll.y+2, x+1, ll.y+ll.height-2))
	a.frameBuffer.FillRectIn(r, a.contentRect, a.theme.Caret)
}

func (a *App) paintScrollbars() {
	cr := a.contentRect
	if a.maxScr.y > 0 {
		track := image.Rect(cr.Max.X-5, cr.Min.Y+2, cr.Max.X-1, cr.Max.Y-6)
		a.frameBuffer.FillRect(track, a.theme.Scrollbar)
		th := max(24, int(float64(track.Dy())*float64(cr.Dy())/(float64(cr.Dy())+a.maxScr.y)))
		ty := track.Min.Y + int(a.scroll.y/a.maxScr.y*float64(track.Dy()-th))
		a.frameBuffer.FillRect(image.Rect(track.Min.X, ty, track.Max.X, ty+th), a.theme.ScrollThumb)
	}
	if a.maxScr.x > 0 {
		track := image.Rect(cr.Min.X+2, cr.Max.Y-5, cr.Max.X-6, cr.Max.Y-1)
		a.frameBuffer.FillRect(track, a.theme.Scrollbar)
		tw := max(24, int(float64(track.Dx())*float64(cr.Dx())/(float64(cr.Dx())+a.maxScr.x)))
		tx := track.Min.X + int(a.scroll.x/a.maxScr.x*float64(track.Dx()-tw))
		a.frameBuffer.FillRect(image.Rect(tx, track.Min.Y, tx+tw, track.Max.Y), a.theme.ScrollThumb)
	}
}

// drawDocument renders text and images into an offscreen layer the size of
// the content box, which clips them.
func (a *App) drawDocument(screen *ebiten.Image) {
	cw, ch := a.contentRect.Dx(), a.contentRect.Dy()
	if cw <= 0 || ch <= 0 {
		return
	}
	if a.docLayer == nil || a.docLayer.Bounds().Dx() != cw || a.docLayer.Bounds().Dy() != ch {
		if a.docLayer != nil {
			a.docLayer.Deallocate()
		}
		a.docLayer = ebiten.NewImage(cw, ch)
	}
	a.docLayer.Clear()
	off := image.Pt(int(a.scroll.x), int(a.scroll.y))

	for _, ll := range a.lines {
		top := ll.y - off.Y
		if top+ll.height < 0 || top > ch {
			continue
		}
		x := ll.x - off.X
		baseline := ll.baseline() - off.Y
		for _, seg := range ll.segments {
			switch {
			case seg.isImage():
				box := image.Rect(x, baseline-seg.height, x+seg.width, baseline)
				a.drawImageSegment(ll, seg, box)
			case seg.text != "":
				clr := a.theme.Text
				if seg.attr.Href != "" {
					clr = a.theme.Link
				}
				text.Draw(a.docLayer, seg.text, seg.face, x, baseline, clr)
				if seg.attr.Href != "" {
					uy := baseline + max(1, seg.face.Metrics().Descent.Round()/2)
					fillScreenRect(a.docLayer, image.Rect(x, uy, x+seg.width, uy+1), clr)
				}
			}
			x += seg.width
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(a.contentRect.Min.X), float64(a.contentRect.Min.Y))
	screen.DrawImage(a.docLayer, op)
}

func (a *App) drawImageSegment(ll lineLayout, seg lineSegment, box image.Rectangle) {
	tex := seg.image.texture()
	if tex == nil {
		fillScreenRect(a.docLayer, box, a.theme.ImageMissing)
		return
	}
	src := tex.Bounds()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(float64(box.Dx())/float64(src.Dx()), float64(box.Dy())/float64(src.Dy()))
	op.GeoM.Translate(float64(box.Min.X), float64(box.Min.Y))
	a.docLayer.DrawImage(tex, op)
	if s, ok := a.pointer.Session(); ok && s.Target == (editor.Position{Block: ll.block, Byte: seg.start}) {
		fillScreenRect(a.docLayer, image.Rect(box.Max.X-6, box.Max.Y-6, box.Max.X, box.Max.Y), a.theme.Caret)
	}
}

func (a *App) drawStatus(screen *ebiten.Image) {
	face := a.fonts.face(11, false, false)
	attr := a.state.CurrentStyleAttr()
	left := fmt.Sprintf("[ %s ] [ Block %d/%d ] [ Caret %d ] [ Font %dpt ]",
		a.displayName(), a.state.CurrentBlock+1, a.state.BlockCount(), a.state.CaretByte, attr.FontSizePt)
	baseline := a.layout.Status.Max.Y - (a.layout.Status.Dy()-face.Metrics().Ascent.Round())/2 - 1
	text.Draw(screen, left, face, a.layout.Status.Min.X+10, baseline, a.theme.StatusText)
	if a.status != "" {
		right := "[ " + a.status + " ]"
		x := a.layout.Status.Max.X - 10 - measureString(face, right)
		text.Draw(screen, right, face, max(x, a.layout.Status.Min.X+10+measureString(face, left)+16), baseline, a.theme.StatusText)
	}
}
