// Package render holds the CPU-side chrome buffer. Flat UI panels are
// filled here once per frame and uploaded to the GPU in a single write.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

type FrameBuffer struct {
	img *image.RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{img: image.NewRGBA(image.Rect(0, 0, max(1, w), max(1, h)))}
}

func (fb *FrameBuffer) Size() (int, int) {
	b := fb.img.Bounds()
	return b.Dx(), b.Dy()
}

func (fb *FrameBuffer) Bounds() image.Rectangle {
	return fb.img.Bounds()
}

// Pixels returns the RGBA bytes in row order, suitable for WritePixels.
func (fb *FrameBuffer) Pixels() []byte {
	return fb.img.Pix
}

// Resize reallocates the buffer when the size changed and reports whether it did.
func (fb *FrameBuffer) Resize(w, h int) bool {
	w, h = max(1, w), max(1, h)
	if cw, ch := fb.Size(); cw == w && ch == h {
		return false
	}
	fb.img = image.NewRGBA(image.Rect(0, 0, w, h))
	return true
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	fb.FillRect(fb.img.Bounds(), c)
}

func (fb *FrameBuffer) FillRect(r image.Rectangle, c color.RGBA) {
	fb.FillRectIn(r, fb.img.Bounds(), c)
}

// FillRectIn fills the part of r that lies inside clip.
func (fb *FrameBuffer) FillRectIn(r, clip image.Rectangle, c color.RGBA) {
	r = r.Canon().Intersect(clip).Intersect(fb.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(fb.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func (fb *FrameBuffer) StrokeRect(r image.Rectangle, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	r = r.Canon()
	fb.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+line), c)
	fb.FillRect(image.Rect(r.Min.X, r.Max.Y-line, r.Max.X, r.Max.Y), c)
	fb.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+line, r.Max.Y), c)
	fb.FillRect(image.Rect(r.Max.X-line, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func (fb *FrameBuffer) At(x, y int) color.RGBA {
	return fb.img.RGBAAt(x, y)
}
